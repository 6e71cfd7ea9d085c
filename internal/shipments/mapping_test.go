package shipments_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/mrsingh86/freightdesk/internal/shipments"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", shipments.ErrNotFound, http.StatusNotFound},
		{"duplicate", shipments.ErrDuplicate, http.StatusConflict},
		{"invalid", shipments.ErrInvalid, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", shipments.ErrNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shipments.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"booking_number":        {"MSK263805268"},
			"bill_of_lading_number": {"OOLU111222333"},
			"master_bill_number":    {"MAEU777888999"},
			"house_bill_number":     {"HBL-445566"},
			"carrier_domain":        {"maersk.com"},
			"customer_tier":         {"2"},
			"workflow_state":        {"departed"},
			"workflow_phase":        {"in_transit"},
		}

		f := shipments.FiltersFromQuery(values)

		if f.BookingNumber == nil || *f.BookingNumber != "MSK263805268" {
			t.Errorf("BookingNumber = %v, want MSK263805268", f.BookingNumber)
		}
		if f.BillOfLadingNumber == nil || *f.BillOfLadingNumber != "OOLU111222333" {
			t.Errorf("BillOfLadingNumber = %v, want OOLU111222333", f.BillOfLadingNumber)
		}
		if f.MasterBillNumber == nil || *f.MasterBillNumber != "MAEU777888999" {
			t.Errorf("MasterBillNumber = %v, want MAEU777888999", f.MasterBillNumber)
		}
		if f.HouseBillNumber == nil || *f.HouseBillNumber != "HBL-445566" {
			t.Errorf("HouseBillNumber = %v, want HBL-445566", f.HouseBillNumber)
		}
		if f.CarrierDomain == nil || *f.CarrierDomain != "maersk.com" {
			t.Errorf("CarrierDomain = %v, want maersk.com", f.CarrierDomain)
		}
		if f.CustomerTier == nil || *f.CustomerTier != 2 {
			t.Errorf("CustomerTier = %v, want 2", f.CustomerTier)
		}
		if f.WorkflowState == nil || *f.WorkflowState != "departed" {
			t.Errorf("WorkflowState = %v, want departed", f.WorkflowState)
		}
		if f.WorkflowPhase == nil || *f.WorkflowPhase != "in_transit" {
			t.Errorf("WorkflowPhase = %v, want in_transit", f.WorkflowPhase)
		}
	})

	t.Run("non-numeric tier ignored", func(t *testing.T) {
		f := shipments.FiltersFromQuery(url.Values{"customer_tier": {"gold"}})
		if f.CustomerTier != nil {
			t.Errorf("CustomerTier = %v, want nil", f.CustomerTier)
		}
	})

	t.Run("absent params stay nil", func(t *testing.T) {
		f := shipments.FiltersFromQuery(url.Values{})
		if f.BookingNumber != nil || f.CustomerTier != nil || f.WorkflowState != nil {
			t.Errorf("empty query produced filters: %+v", f)
		}
	})
}
