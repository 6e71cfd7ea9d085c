// Package documents implements correspondence document intake and tracking.
// Every inbound or outbound message attachment becomes a document record
// carrying its classified type, direction, and extracted shipment identifiers.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Direction values. Direction is derived at intake from the sender domain:
// mail originating from one of the configured own domains is outbound,
// everything else is inbound.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Classified document types recognized by the system. Types outside this set
// are stored verbatim; they simply carry no workflow signal.
const (
	TypeBookingConfirmation = "booking_confirmation"
	TypeBookingAmendment    = "booking_amendment"
	TypeBookingCancellation = "booking_cancellation"
	TypeShippingInstruction = "shipping_instruction"
	TypeVGMConfirmation     = "vgm_confirmation"
	TypeGateInConfirmation  = "gate_in_confirmation"
	TypeBillOfLading        = "bill_of_lading"
	TypeDepartureNotice     = "departure_notice"
	TypeArrivalNotice       = "arrival_notice"
	TypeCustomsClearance    = "customs_clearance"
	TypeDeliveryOrder       = "delivery_order"
	TypeProofOfDelivery     = "proof_of_delivery"
	TypeInvoice             = "invoice"
)

// Identifier types extracted from document content.
const (
	IdentifierBooking   = "booking_number"
	IdentifierMBL       = "mbl_number"
	IdentifierHBL       = "hbl_number"
	IdentifierContainer = "container_number"
)

// Document statuses.
const (
	StatusActive     = "active"
	StatusDraft      = "draft"
	StatusSuperseded = "superseded"
)

// Identifier is one shipment reference extracted from a document, with the
// extractor's confidence in the reading.
type Identifier struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Document is a classified correspondence attachment. Identifiers are stored
// as extracted; normalization happens at resolution time so reprocessing with
// improved matching never requires re-extraction.
type Document struct {
	ID           uuid.UUID    `json:"id"`
	ThreadID     string       `json:"thread_id"`
	MessageID    string       `json:"message_id"`
	Filename     string       `json:"filename"`
	ContentType  string       `json:"content_type"`
	SizeBytes    int64        `json:"size_bytes"`
	PageCount    *int         `json:"page_count"`
	StorageKey   string       `json:"storage_key"`
	DocumentType string       `json:"document_type"`
	Direction    string       `json:"direction"`
	Status       string       `json:"status"`
	SenderDomain string       `json:"sender_domain"`
	Identifiers  []Identifier `json:"identifiers"`
	SupersedesID *uuid.UUID   `json:"supersedes_id"`
	ReceivedAt   time.Time    `json:"received_at"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IntakeCommand carries a classified attachment into the system. Data is the
// raw attachment; it is archived to blob storage before the record is written.
type IntakeCommand struct {
	ThreadID     string       `json:"thread_id" validate:"required"`
	MessageID    string       `json:"message_id" validate:"required"`
	Filename     string       `json:"filename" validate:"required"`
	ContentType  string       `json:"content_type"`
	DocumentType string       `json:"document_type" validate:"required"`
	Status       string       `json:"status" validate:"omitempty,oneof=active draft"`
	SenderDomain string       `json:"sender_domain" validate:"required,fqdn"`
	Identifiers  []Identifier `json:"identifiers" validate:"dive"`
	ReceivedAt   time.Time    `json:"received_at"`
	Data         []byte       `json:"-"`
	PageCount    *int         `json:"-"`
}

// DeriveDirection classifies a sender domain against the forwarder's own
// mail domains.
func DeriveDirection(senderDomain string, ownDomains []string) string {
	for _, d := range ownDomains {
		if senderDomain == d {
			return DirectionOutbound
		}
	}
	return DirectionInbound
}
