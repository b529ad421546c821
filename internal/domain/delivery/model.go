package delivery

import (
	"context"
	"time"

	"github.com/yanqian/fitness-wizard/internal/domain/plan"
)

// Bonus trigger outcomes reported to the caller.
const (
	BonusNotTriggered = "not_triggered"
	BonusQueued       = "queued"
	BonusFailed       = "failed"
)

// PlanAttachmentName is the filename of the plan PDF attached to the email.
const PlanAttachmentName = "Your_4_Week_Plan.pdf"

// Documents holds the rendered PDFs of one plan.
type Documents struct {
	Desktop []byte
	Mobile  []byte
}

// Options controls a single delivery.
type Options struct {
	Want      plan.Want
	RequestID string
}

// Result summarizes what happened during delivery. Nothing in it is fatal.
type Result struct {
	EmailSent     bool           `json:"emailSent"`
	EmailError    string         `json:"emailError,omitempty"`
	BonusEligible bool           `json:"isBonusEligible"`
	BonusStatus   string         `json:"bonusStatus"`
	Archived      []StoredObject `json:"-"`
}

// Config configures the dispatcher.
type Config struct {
	From    string
	ReplyTo string
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key         string
	Size        int64
	ContentType string
	ETag        string
	CreatedAt   time.Time
}

// Archive stores rendered PDFs (R2/S3/minio/local).
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (StoredObject, error)
}

// Enqueuer hands jobs to the background queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, name string, payload any) error
}
