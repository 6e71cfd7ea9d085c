// Package links implements the document-to-shipment link records produced by
// resolution. A link is the durable record of how a document was matched:
// the method that won the cascade, the confidence assigned, and any repair
// history when an earlier match was revoked.
package links

import (
	"time"

	"github.com/google/uuid"
)

// Resolution methods in cascade order. Thread continuity wins over any
// identifier match; among identifiers, booking beats MBL beats HBL beats
// container.
const (
	MethodThread    = "thread"
	MethodBooking   = "booking_number"
	MethodMBL       = "mbl_number"
	MethodHBL       = "hbl_number"
	MethodContainer = "container_number"
)

// Link binds a document to a shipment. ShipmentID is nil for a placeholder
// row recording failed resolution attempts; RevokedAt is set when a repair
// pass withdrew an earlier match. Each document has at most one non-revoked
// link.
type Link struct {
	ID             uuid.UUID  `json:"id"`
	DocumentID     uuid.UUID  `json:"document_id"`
	ShipmentID     *uuid.UUID `json:"shipment_id"`
	Method         *string    `json:"method"`
	Confidence     *int       `json:"confidence"`
	RepairAttempts int        `json:"repair_attempts"`
	RevokedAt      *time.Time `json:"revoked_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ActiveLink is a link joined with the document fields the workflow machine
// and priority scorer need, so batch passes avoid a second round trip.
type ActiveLink struct {
	Link
	ThreadID     string `json:"thread_id"`
	DocumentType string `json:"document_type"`
	Direction    string `json:"direction"`
}
