package documents_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/mrsingh86/freightdesk/internal/documents"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", documents.ErrNotFound, http.StatusNotFound},
		{"duplicate", documents.ErrDuplicate, http.StatusConflict},
		{"superseded", documents.ErrSuperseded, http.StatusConflict},
		{"invalid file", documents.ErrInvalidFile, http.StatusBadRequest},
		{"file too large", documents.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", documents.ErrNotFound), http.StatusNotFound},
		{"wrapped duplicate", fmt.Errorf("insert failed: %w", documents.ErrDuplicate), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := documents.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"thread_id":     {"thread-1"},
			"filename":      {"booking"},
			"document_type": {"booking_confirmation"},
			"direction":     {"inbound"},
			"status":        {"active"},
			"sender_domain": {"maersk.com"},
		}

		f := documents.FiltersFromQuery(values)

		if f.ThreadID == nil || *f.ThreadID != "thread-1" {
			t.Errorf("ThreadID = %v, want thread-1", f.ThreadID)
		}
		if f.Filename == nil || *f.Filename != "booking" {
			t.Errorf("Filename = %v, want booking", f.Filename)
		}
		if f.DocumentType == nil || *f.DocumentType != "booking_confirmation" {
			t.Errorf("DocumentType = %v, want booking_confirmation", f.DocumentType)
		}
		if f.Direction == nil || *f.Direction != "inbound" {
			t.Errorf("Direction = %v, want inbound", f.Direction)
		}
		if f.Status == nil || *f.Status != "active" {
			t.Errorf("Status = %v, want active", f.Status)
		}
		if f.SenderDomain == nil || *f.SenderDomain != "maersk.com" {
			t.Errorf("SenderDomain = %v, want maersk.com", f.SenderDomain)
		}
	})

	t.Run("absent params stay nil", func(t *testing.T) {
		f := documents.FiltersFromQuery(url.Values{})

		if f.ThreadID != nil || f.Filename != nil || f.DocumentType != nil ||
			f.Direction != nil || f.Status != nil || f.SenderDomain != nil {
			t.Errorf("empty query produced filters: %+v", f)
		}
	})
}
