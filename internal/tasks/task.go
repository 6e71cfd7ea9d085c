// Package tasks implements the follow-up task queue. Each shipment carries
// at most one task per task type; the batch scorer refreshes open tasks
// with the latest priority and never resurrects completed ones.
package tasks

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses.
const (
	StatusOpen      = "open"
	StatusCompleted = "completed"
)

// TaskFollowUp is the task type produced by the batch scorer.
const TaskFollowUp = "follow_up"

// Task is one unit of follow-up work on a shipment, ranked by the priority
// scorer. Factors holds the per-factor score breakdown for audit.
type Task struct {
	ID            uuid.UUID      `json:"id"`
	ShipmentID    uuid.UUID      `json:"shipment_id"`
	TaskType      string         `json:"task_type"`
	Title         string         `json:"title"`
	PriorityScore int            `json:"priority_score"`
	PriorityLabel string         `json:"priority_label"`
	Factors       map[string]int `json:"factors"`
	Status        string         `json:"status"`
	CompletedAt   *time.Time     `json:"completed_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// UpsertCommand creates or refreshes a shipment's task of the given type.
type UpsertCommand struct {
	ShipmentID    uuid.UUID      `json:"shipment_id"`
	TaskType      string         `json:"task_type"`
	Title         string         `json:"title"`
	PriorityScore int            `json:"priority_score"`
	PriorityLabel string         `json:"priority_label"`
	Factors       map[string]int `json:"factors"`
}
