package memories

import "time"

type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepComplete StepStatus = "complete"
)

// AgentStep is the record of one paced workflow stage.
//
// A record is created pending when its step starts and changes at most once,
// to complete, when the step's action succeeds. A failed action leaves it
// pending.
type AgentStep struct {
	ID         string
	Label      string
	Icon       string
	StatusText string
	Status     StepStatus
	// Result is whatever the step's action produced, absent until complete.
	Result any

	StartedAt   time.Time
	CompletedAt time.Time
}

func (s AgentStep) IsComplete() bool { return s.Status == StepComplete }
