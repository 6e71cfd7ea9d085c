package shipments_test

import (
	"testing"
	"time"

	"github.com/mrsingh86/freightdesk/internal/shipments"
)

func cutoff(t time.Time) *time.Time { return &t }

func TestNearestUnmetCutoff(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	si := now.Add(72 * time.Hour)
	vgm := now.Add(24 * time.Hour)
	cargo := now.Add(96 * time.Hour)

	tests := []struct {
		name     string
		shipment shipments.Shipment
		want     *time.Time
	}{
		{
			name:     "no cutoffs",
			shipment: shipments.Shipment{},
			want:     nil,
		},
		{
			name:     "single cutoff",
			shipment: shipments.Shipment{SICutoff: cutoff(si)},
			want:     &si,
		},
		{
			name: "earliest of three",
			shipment: shipments.Shipment{
				SICutoff:    cutoff(si),
				VGMCutoff:   cutoff(vgm),
				CargoCutoff: cutoff(cargo),
			},
			want: &vgm,
		},
		{
			name: "overdue cutoff still reported",
			shipment: shipments.Shipment{
				SICutoff:  cutoff(now.Add(-24 * time.Hour)),
				VGMCutoff: cutoff(vgm),
			},
			want: cutoff(now.Add(-24 * time.Hour)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.shipment.NearestUnmetCutoff(now)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("NearestUnmetCutoff() = %v, want %v", got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("NearestUnmetCutoff() = %v, want %v", got, tt.want)
			}
		})
	}
}
