package documents_test

import (
	"testing"

	"github.com/mrsingh86/freightdesk/internal/documents"
)

func TestDeriveDirection(t *testing.T) {
	ownDomains := []string{"freightdesk.example.com", "ops.freightdesk.example.com"}

	tests := []struct {
		name         string
		senderDomain string
		want         string
	}{
		{"carrier sender", "maersk.com", documents.DirectionInbound},
		{"customer sender", "shipper.example.org", documents.DirectionInbound},
		{"own domain", "freightdesk.example.com", documents.DirectionOutbound},
		{"secondary own domain", "ops.freightdesk.example.com", documents.DirectionOutbound},
		{"subdomain is not a match", "mail.freightdesk.example.com", documents.DirectionInbound},
		{"empty sender", "", documents.DirectionInbound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := documents.DeriveDirection(tt.senderDomain, ownDomains); got != tt.want {
				t.Errorf("DeriveDirection(%q) = %q, want %q", tt.senderDomain, got, tt.want)
			}
		})
	}
}

func TestDeriveDirectionNoOwnDomains(t *testing.T) {
	if got := documents.DeriveDirection("anything.example.com", nil); got != documents.DirectionInbound {
		t.Errorf("DeriveDirection() = %q, want %q", got, documents.DirectionInbound)
	}
}
