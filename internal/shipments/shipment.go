// Package shipments implements the shipment domain for Freightdesk.
// It provides types, data access, and business logic for shipment records,
// including the conditional state writes the workflow machine relies on.
package shipments

import (
	"time"

	"github.com/google/uuid"
)

// Shipment represents a logistics booking tracked through its document trail.
// Workflow fields are nil until the first piece of state-bearing evidence is
// linked; rank only ever increases apart from cancellation. Shipments are
// never deleted, only cancelled or closed.
type Shipment struct {
	ID                 uuid.UUID  `json:"id"`
	BookingNumber      string     `json:"booking_number"`
	BillOfLadingNumber *string    `json:"bill_of_lading_number"`
	MasterBillNumber   *string    `json:"master_bill_number"`
	HouseBillNumber    *string    `json:"house_bill_number"`
	ContainerNumbers   []string   `json:"container_numbers"`
	CarrierDomain      string     `json:"carrier_domain"`
	CustomerTier       int        `json:"customer_tier"`
	WorkflowState      *string    `json:"workflow_state"`
	WorkflowPhase      *string    `json:"workflow_phase"`
	WorkflowRank       *int       `json:"workflow_rank"`
	SICutoff           *time.Time `json:"si_cutoff"`
	VGMCutoff          *time.Time `json:"vgm_cutoff"`
	CargoCutoff        *time.Time `json:"cargo_cutoff"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NearestUnmetCutoff returns the earliest cutoff still ahead of now, or the
// most overdue one when all have passed. Nil when no cutoffs are recorded.
func (s Shipment) NearestUnmetCutoff(now time.Time) *time.Time {
	var nearest *time.Time
	for _, c := range []*time.Time{s.SICutoff, s.VGMCutoff, s.CargoCutoff} {
		if c == nil {
			continue
		}
		if nearest == nil || c.Before(*nearest) {
			nearest = c
		}
	}
	return nearest
}

// CreateCommand carries the data needed to register a new shipment.
// Shipments come into existence when the first document naming them is
// classified, so only the booking number is mandatory.
type CreateCommand struct {
	BookingNumber      string     `json:"booking_number" validate:"required"`
	BillOfLadingNumber *string    `json:"bill_of_lading_number"`
	MasterBillNumber   *string    `json:"master_bill_number"`
	HouseBillNumber    *string    `json:"house_bill_number"`
	ContainerNumbers   []string   `json:"container_numbers"`
	CarrierDomain      string     `json:"carrier_domain"`
	CustomerTier       int        `json:"customer_tier" validate:"gte=0,lte=3"`
	SICutoff           *time.Time `json:"si_cutoff"`
	VGMCutoff          *time.Time `json:"vgm_cutoff"`
	CargoCutoff        *time.Time `json:"cargo_cutoff"`
}
