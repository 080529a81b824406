package domain

import (
	"encoding/json"
	"time"
)

// TaskType names a kind of background job.
type TaskType string

const (
	// TaskTypeGroundBatch grounds a batch of AI answer strings against a
	// document's pages, producing highlights.
	TaskTypeGroundBatch TaskType = "ground_batch"

	// TaskTypeRestoreHighlights rebuilds a session's highlights from
	// persisted annotations.
	TaskTypeRestoreHighlights TaskType = "restore_highlights"
)

// TaskStatus tracks a task through its lifecycle.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task represents a background job to be processed by the grounding worker.
// Tasks for the same document are processed strictly in order because the
// worker runs a single consumer.
type Task struct {
	ID string `json:"id"`

	Type TaskType `json:"type"`

	// UserID scopes the task to the user who submitted it
	UserID string `json:"user_id"`

	// Payload contains task-specific data.
	// For ground_batch: {"document_id": ..., "message_id": ..., "answers": <JSON array>}
	// For restore_highlights: {"document_id": ...}
	Payload map[string]string `json:"payload"`

	Status TaskStatus `json:"status"`

	// Priority orders the queue; higher runs first
	Priority int `json:"priority"`

	Attempts    int `json:"attempts"`
	MaxAttempts int `json:"max_attempts"`

	// Error holds the last failure message
	Error string `json:"error,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// ScheduledFor delays processing, used for retry backoff
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewTask builds a pending task with three attempts allowed.
func NewTask(taskType TaskType, userID string, payload map[string]string) *Task {
	now := time.Now()
	return &Task{
		ID:           GenerateID(),
		Type:         taskType,
		UserID:       userID,
		Payload:      payload,
		Status:       TaskStatusPending,
		Priority:     0,
		Attempts:     0,
		MaxAttempts:  3,
		CreatedAt:    now,
		UpdatedAt:    now,
		ScheduledFor: now,
	}
}

// NewGroundBatchTask creates a task to ground a batch of AI answers against
// a document. messageID may be empty when the batch is not tied to a chat
// message.
func NewGroundBatchTask(userID, documentID, messageID string, answers []string) (*Task, error) {
	encoded, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}
	payload := map[string]string{
		"document_id": documentID,
		"answers":     string(encoded),
	}
	if messageID != "" {
		payload["message_id"] = messageID
	}
	return NewTask(TaskTypeGroundBatch, userID, payload), nil
}

// NewRestoreHighlightsTask creates a task to rebuild session highlights
// from persisted annotations.
func NewRestoreHighlightsTask(userID, documentID string) *Task {
	return NewTask(TaskTypeRestoreHighlights, userID, map[string]string{
		"document_id": documentID,
	})
}

// DocumentID returns the payload document_id, or "".
func (t *Task) DocumentID() string {
	if t.Payload == nil {
		return ""
	}
	return t.Payload["document_id"]
}

// MessageID returns the payload message_id, or "" when the batch is not
// tied to a chat message.
func (t *Task) MessageID() string {
	if t.Payload == nil {
		return ""
	}
	return t.Payload["message_id"]
}

// Answers decodes the JSON answer batch carried by ground_batch tasks.
func (t *Task) Answers() ([]string, error) {
	if t.Payload == nil || t.Payload["answers"] == "" {
		return nil, nil
	}
	var answers []string
	if err := json.Unmarshal([]byte(t.Payload["answers"]), &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// CanRetry reports whether the task has attempts left.
func (t *Task) CanRetry() bool {
	return t.Attempts < t.MaxAttempts
}

// IsReady reports whether the task is pending and due.
func (t *Task) IsReady() bool {
	return t.Status == TaskStatusPending && time.Now().After(t.ScheduledFor)
}

// MarkProcessing flips the task to processing and counts the attempt.
func (t *Task) MarkProcessing() {
	now := time.Now()
	t.Status = TaskStatusProcessing
	t.StartedAt = &now
	t.UpdatedAt = now
	t.Attempts++
}

// MarkCompleted records success and clears any previous error.
func (t *Task) MarkCompleted() {
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.Error = ""
}

// MarkFailed records a terminal failure.
func (t *Task) MarkFailed(err string) {
	now := time.Now()
	t.Status = TaskStatusFailed
	t.UpdatedAt = now
	t.Error = err
}

// Retry puts the task back in the queue with exponential backoff,
// capped at 5 minutes.
func (t *Task) Retry(err string) {
	now := time.Now()
	t.Status = TaskStatusPending
	t.UpdatedAt = now
	t.Error = err

	backoff := time.Duration(1<<t.Attempts) * time.Second
	if backoff > 5*time.Minute {
		backoff = 5 * time.Minute
	}
	t.ScheduledFor = now.Add(backoff)
}
