package bonus

import (
	"time"

	"github.com/yanqian/fitness-wizard/internal/domain/plan"
)

// JobName identifies bonus roadmap jobs on the queue.
const JobName = "bonus_roadmap"

// Trigger sources.
const (
	SourcePipeline = "pipeline"
	SourceClient   = "client"
)

// Job outcomes written to the job log.
const (
	StatusSent      = "sent"
	StatusRendered  = "rendered"
	StatusDuplicate = "duplicate"
	StatusFailed    = "failed"
)

// FormData is the profile together with the deliverables the user chose.
type FormData struct {
	plan.Profile
	Want plan.Want `json:"want"`
}

// Request asks for the bonus roadmap of one profile.
type Request struct {
	FormData FormData `json:"formData"`
	Token    string   `json:"bonusToken,omitempty"`
	Source   string   `json:"source,omitempty"`
}

// Response reports the bonus outcome to the caller.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// JobRecord is one entry in the bonus job log.
type JobRecord struct {
	ID        string        `json:"id"`
	Job       string        `json:"job"`
	Email     string        `json:"email"`
	Timeline  plan.Timeline `json:"timeline"`
	Source    string        `json:"source"`
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

// Config configures the bonus service.
type Config struct {
	From         string
	ClaimTTL     time.Duration
	RequireToken bool
}
