package wizard

import (
	"github.com/yanqian/fitness-wizard/internal/domain/plan"
	"github.com/yanqian/fitness-wizard/pkg/metrics"
)

// Request is one wizard submission: the profile plus the chosen deliverables.
type Request struct {
	plan.Profile
	Want plan.Want `json:"want"`
	// RequestID correlates logs and archive keys. Generated when empty.
	RequestID string `json:"-"`
}

// Response is returned to the wizard after a successful run.
type Response struct {
	Success         bool                `json:"success"`
	RequestID       string              `json:"requestId"`
	Plan            plan.Document       `json:"plan"`
	Degraded        bool                `json:"degraded,omitempty"`
	PDFURL          string              `json:"pdfUrl,omitempty"`
	MobilePDFURL    string              `json:"mobilePdfUrl,omitempty"`
	EmailSent       bool                `json:"emailSent"`
	EmailError      *string             `json:"emailError,omitempty"`
	IsBonusEligible bool                `json:"isBonusEligible"`
	BonusStatus     string              `json:"bonusStatus"`
	BonusToken      string              `json:"bonusToken,omitempty"`
	TokenUsage      *metrics.TokenUsage `json:"tokenUsage,omitempty"`
	BMI             *plan.BMI           `json:"bmi,omitempty"`
}
