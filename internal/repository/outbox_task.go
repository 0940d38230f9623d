package repository

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "CREATED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusFailed     TaskStatus = "FAILED"
	TaskStatusDone       TaskStatus = "DONE"
)

type OutboxTask struct {
	ID          uuid.UUID       `db:"id"`
	Status      TaskStatus      `db:"status"`
	Payload     json.RawMessage `db:"payload"`
	Topic       string          `db:"topic"`
	Attempts    int             `db:"attempts"`
	LastError   *string         `db:"last_error"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CompletedAt *time.Time      `db:"completed_at"`
}

// LifecycleEventPayload is the body of an outbox task written for every
// persisted status change.
type LifecycleEventPayload struct {
	Timestamp   time.Time `json:"timestamp"`
	SubjectID   string    `json:"subject_id"`
	SubjectType string    `json:"subject_type"`
	OldStatus   string    `json:"old_status"`
	NewStatus   string    `json:"new_status"`
	TrackingID  string    `json:"tracking_id,omitempty"`
	Location    string    `json:"location,omitempty"`
	Message     string    `json:"message,omitempty"`
}
