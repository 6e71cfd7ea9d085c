package links

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/pkg/query"
	"github.com/mrsingh86/freightdesk/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "document_shipment_links", "l").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("shipment_id", "ShipmentID").
	Project("method", "Method").
	Project("confidence", "Confidence").
	Project("repair_attempts", "RepairAttempts").
	Project("revoked_at", "RevokedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var activeProjection = query.
	NewProjectionMap("public", "document_shipment_links", "l").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("shipment_id", "ShipmentID").
	Project("method", "Method").
	Project("confidence", "Confidence").
	Project("repair_attempts", "RepairAttempts").
	Project("revoked_at", "RevokedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "documents", "d", "JOIN", "l.document_id = d.id").
	Project("thread_id", "ThreadID").
	Project("document_type", "DocumentType").
	Project("direction", "Direction")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for link queries.
// Nil fields are ignored; all use exact matching.
type Filters struct {
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
	ShipmentID *uuid.UUID `json:"shipment_id,omitempty"`
	Method     *string    `json:"method,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("ShipmentID", f.ShipmentID).
		WhereEquals("Method", f.Method)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if did := values.Get("document_id"); did != "" {
		if v, err := uuid.Parse(did); err == nil {
			f.DocumentID = &v
		}
	}

	if sid := values.Get("shipment_id"); sid != "" {
		if v, err := uuid.Parse(sid); err == nil {
			f.ShipmentID = &v
		}
	}

	if m := values.Get("method"); m != "" {
		f.Method = &m
	}

	return f
}

func scanLink(s repository.Scanner) (Link, error) {
	var l Link
	err := s.Scan(
		&l.ID,
		&l.DocumentID,
		&l.ShipmentID,
		&l.Method,
		&l.Confidence,
		&l.RepairAttempts,
		&l.RevokedAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

func scanActiveLink(s repository.Scanner) (ActiveLink, error) {
	var l ActiveLink
	err := s.Scan(
		&l.ID,
		&l.DocumentID,
		&l.ShipmentID,
		&l.Method,
		&l.Confidence,
		&l.RepairAttempts,
		&l.RevokedAt,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.ThreadID,
		&l.DocumentType,
		&l.Direction,
	)
	return l, err
}
