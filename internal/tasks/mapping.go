package tasks

import (
	"encoding/json"
	"net/url"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/pkg/query"
	"github.com/mrsingh86/freightdesk/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "follow_up_tasks", "t").
	Project("id", "ID").
	Project("shipment_id", "ShipmentID").
	Project("task_type", "TaskType").
	Project("title", "Title").
	Project("priority_score", "PriorityScore").
	Project("priority_label", "PriorityLabel").
	Project("factors", "Factors").
	Project("status", "Status").
	Project("completed_at", "CompletedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = []query.SortField{
	{Field: "PriorityScore", Descending: true},
	{Field: "CreatedAt", Descending: false},
}

// Filters contains optional filtering criteria for task queries.
// Nil fields are ignored; all use exact matching.
type Filters struct {
	ShipmentID    *uuid.UUID `json:"shipment_id,omitempty"`
	TaskType      *string    `json:"task_type,omitempty"`
	PriorityLabel *string    `json:"priority_label,omitempty"`
	Status        *string    `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ShipmentID", f.ShipmentID).
		WhereEquals("TaskType", f.TaskType).
		WhereEquals("PriorityLabel", f.PriorityLabel).
		WhereEquals("Status", f.Status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if sid := values.Get("shipment_id"); sid != "" {
		if v, err := uuid.Parse(sid); err == nil {
			f.ShipmentID = &v
		}
	}

	if tt := values.Get("task_type"); tt != "" {
		f.TaskType = &tt
	}

	if pl := values.Get("priority_label"); pl != "" {
		f.PriorityLabel = &pl
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	return f
}

func scanTask(s repository.Scanner) (Task, error) {
	var (
		t       Task
		factors []byte
	)

	err := s.Scan(
		&t.ID,
		&t.ShipmentID,
		&t.TaskType,
		&t.Title,
		&t.PriorityScore,
		&t.PriorityLabel,
		&factors,
		&t.Status,
		&t.CompletedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return t, err
	}

	if len(factors) > 0 {
		if err := json.Unmarshal(factors, &t.Factors); err != nil {
			return t, err
		}
	}

	return t, nil
}
