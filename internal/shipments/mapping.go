package shipments

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/mrsingh86/freightdesk/pkg/query"
	"github.com/mrsingh86/freightdesk/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "shipments", "s").
	Project("id", "ID").
	Project("booking_number", "BookingNumber").
	Project("bill_of_lading_number", "BillOfLadingNumber").
	Project("master_bill_number", "MasterBillNumber").
	Project("house_bill_number", "HouseBillNumber").
	Project("container_numbers", "ContainerNumbers").
	Project("carrier_domain", "CarrierDomain").
	Project("customer_tier", "CustomerTier").
	Project("workflow_state", "WorkflowState").
	Project("workflow_phase", "WorkflowPhase").
	Project("workflow_rank", "WorkflowRank").
	Project("si_cutoff", "SICutoff").
	Project("vgm_cutoff", "VGMCutoff").
	Project("cargo_cutoff", "CargoCutoff").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for shipment queries.
// Nil fields are ignored. BookingNumber, CarrierDomain, and the bill fields
// use case-insensitive contains matching; the rest use exact matching.
type Filters struct {
	BookingNumber      *string `json:"booking_number,omitempty"`
	BillOfLadingNumber *string `json:"bill_of_lading_number,omitempty"`
	MasterBillNumber   *string `json:"master_bill_number,omitempty"`
	HouseBillNumber    *string `json:"house_bill_number,omitempty"`
	CarrierDomain      *string `json:"carrier_domain,omitempty"`
	CustomerTier       *int    `json:"customer_tier,omitempty"`
	WorkflowState      *string `json:"workflow_state,omitempty"`
	WorkflowPhase      *string `json:"workflow_phase,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("BookingNumber", f.BookingNumber).
		WhereContains("BillOfLadingNumber", f.BillOfLadingNumber).
		WhereContains("MasterBillNumber", f.MasterBillNumber).
		WhereContains("HouseBillNumber", f.HouseBillNumber).
		WhereContains("CarrierDomain", f.CarrierDomain).
		WhereEquals("CustomerTier", f.CustomerTier).
		WhereEquals("WorkflowState", f.WorkflowState).
		WhereEquals("WorkflowPhase", f.WorkflowPhase)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if bn := values.Get("booking_number"); bn != "" {
		f.BookingNumber = &bn
	}

	if bl := values.Get("bill_of_lading_number"); bl != "" {
		f.BillOfLadingNumber = &bl
	}

	if mb := values.Get("master_bill_number"); mb != "" {
		f.MasterBillNumber = &mb
	}

	if hb := values.Get("house_bill_number"); hb != "" {
		f.HouseBillNumber = &hb
	}

	if cd := values.Get("carrier_domain"); cd != "" {
		f.CarrierDomain = &cd
	}

	if ct := values.Get("customer_tier"); ct != "" {
		if v, err := strconv.Atoi(ct); err == nil {
			f.CustomerTier = &v
		}
	}

	if ws := values.Get("workflow_state"); ws != "" {
		f.WorkflowState = &ws
	}

	if wp := values.Get("workflow_phase"); wp != "" {
		f.WorkflowPhase = &wp
	}

	return f
}

func scanShipment(s repository.Scanner) (Shipment, error) {
	var (
		sh         Shipment
		containers []byte
	)

	err := s.Scan(
		&sh.ID,
		&sh.BookingNumber,
		&sh.BillOfLadingNumber,
		&sh.MasterBillNumber,
		&sh.HouseBillNumber,
		&containers,
		&sh.CarrierDomain,
		&sh.CustomerTier,
		&sh.WorkflowState,
		&sh.WorkflowPhase,
		&sh.WorkflowRank,
		&sh.SICutoff,
		&sh.VGMCutoff,
		&sh.CargoCutoff,
		&sh.CreatedAt,
		&sh.UpdatedAt,
	)
	if err != nil {
		return sh, err
	}

	if len(containers) > 0 {
		if err := json.Unmarshal(containers, &sh.ContainerNumbers); err != nil {
			return sh, err
		}
	}

	return sh, nil
}
