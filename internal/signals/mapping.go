package signals

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/pkg/query"
	"github.com/mrsingh86/freightdesk/pkg/repository"
)

var blockerProjection = query.
	NewProjectionMap("public", "blockers", "b").
	Project("id", "ID").
	Project("shipment_id", "ShipmentID").
	Project("blocker_type", "BlockerType").
	Project("severity", "Severity").
	Project("description", "Description").
	Project("status", "Status").
	Project("cleared_at", "ClearedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var insightProjection = query.
	NewProjectionMap("public", "insights", "i").
	Project("id", "ID").
	Project("shipment_id", "ShipmentID").
	Project("insight_type", "InsightType").
	Project("severity", "Severity").
	Project("boost", "Boost").
	Project("summary", "Summary").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// BlockerFilters contains optional filtering criteria for blocker queries.
// Nil fields are ignored; all use exact matching.
type BlockerFilters struct {
	ShipmentID  *uuid.UUID `json:"shipment_id,omitempty"`
	BlockerType *string    `json:"blocker_type,omitempty"`
	Severity    *string    `json:"severity,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f BlockerFilters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ShipmentID", f.ShipmentID).
		WhereEquals("BlockerType", f.BlockerType).
		WhereEquals("Severity", f.Severity).
		WhereEquals("Status", f.Status)
}

// BlockerFiltersFromQuery extracts filter values from URL query parameters.
func BlockerFiltersFromQuery(values url.Values) BlockerFilters {
	var f BlockerFilters

	if sid := values.Get("shipment_id"); sid != "" {
		if v, err := uuid.Parse(sid); err == nil {
			f.ShipmentID = &v
		}
	}

	if bt := values.Get("blocker_type"); bt != "" {
		f.BlockerType = &bt
	}

	if sv := values.Get("severity"); sv != "" {
		f.Severity = &sv
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	return f
}

func scanBlocker(s repository.Scanner) (Blocker, error) {
	var b Blocker
	err := s.Scan(
		&b.ID,
		&b.ShipmentID,
		&b.BlockerType,
		&b.Severity,
		&b.Description,
		&b.Status,
		&b.ClearedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func scanInsight(s repository.Scanner) (Insight, error) {
	var i Insight
	err := s.Scan(
		&i.ID,
		&i.ShipmentID,
		&i.InsightType,
		&i.Severity,
		&i.Boost,
		&i.Summary,
		&i.CreatedAt,
	)
	return i, err
}
