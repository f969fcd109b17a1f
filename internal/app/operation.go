package app

import (
	"time"

	"github.com/google/uuid"
)

// Operation tracks a single CLI invocation. Its ID tags every log line the
// invocation writes.
type Operation struct {
	ID        string
	Name      string
	Status    string // "success" or "error"
	StartedAt time.Time
}

// NewOperation creates an operation with a fresh random ID.
func NewOperation(name string) *Operation {
	return &Operation{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    "success",
		StartedAt: time.Now(),
	}
}

// Fail marks the operation as failed.
func (op *Operation) Fail() {
	op.Status = "error"
}

// Failed returns true if any step of the operation failed.
func (op *Operation) Failed() bool {
	return op.Status == "error"
}

// Elapsed returns the time since the operation started.
func (op *Operation) Elapsed() time.Duration {
	return time.Since(op.StartedAt)
}
