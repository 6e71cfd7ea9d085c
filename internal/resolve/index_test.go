package resolve_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/internal/documents"
	"github.com/mrsingh86/freightdesk/internal/resolve"
	"github.com/mrsingh86/freightdesk/internal/shipments"
)

func ptr(s string) *string { return &s }

func testShipment(booking string) shipments.Shipment {
	return shipments.Shipment{
		ID:            uuid.New(),
		BookingNumber: booking,
	}
}

func TestIndexLookupBooking(t *testing.T) {
	index := resolve.NewIndex()
	s := testShipment("MSK263805268")
	index.AddShipment(s)

	tests := []struct {
		name  string
		value string
		hits  int
	}{
		{"verbatim", "MSK263805268", 1},
		{"lowercase", "msk263805268", 1},
		{"separators", "MSK-2638 05268", 1},
		{"prefix stripped", "263805268", 1},
		{"unrelated", "HLC99999999", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := index.Lookup(documents.IdentifierBooking, tt.value)
			if len(got) != tt.hits {
				t.Fatalf("Lookup(%q) = %d hits, want %d", tt.value, len(got), tt.hits)
			}
			if tt.hits == 1 && got[0] != s.ID {
				t.Errorf("Lookup(%q) = %v, want %v", tt.value, got[0], s.ID)
			}
		})
	}
}

func TestIndexLookupUnknownType(t *testing.T) {
	index := resolve.NewIndex()
	index.AddShipment(testShipment("BKG100200300"))

	if got := index.Lookup("po_number", "BKG100200300"); got != nil {
		t.Errorf("Lookup(unknown type) = %v, want nil", got)
	}
}

func TestIndexBillNumbersShareTable(t *testing.T) {
	index := resolve.NewIndex()
	s := testShipment("BKG100200300")
	s.MasterBillNumber = ptr("MAEU777888999")
	s.BillOfLadingNumber = ptr("OOLU111222333")
	s.HouseBillNumber = ptr("HBL-445566")
	index.AddShipment(s)

	if got := index.Lookup(documents.IdentifierMBL, "MAEU777888999"); len(got) != 1 {
		t.Errorf("master bill lookup = %d hits, want 1", len(got))
	}
	if got := index.Lookup(documents.IdentifierMBL, "OOLU111222333"); len(got) != 1 {
		t.Errorf("bill of lading lookup under mbl = %d hits, want 1", len(got))
	}
	if got := index.Lookup(documents.IdentifierHBL, "hbl-445566"); len(got) != 1 {
		t.Errorf("house bill lookup = %d hits, want 1", len(got))
	}
	if got := index.Lookup(documents.IdentifierHBL, "MAEU777888999"); len(got) != 0 {
		t.Errorf("master bill leaked into hbl table: %d hits", len(got))
	}
}

func TestIndexLookupAmbiguous(t *testing.T) {
	index := resolve.NewIndex()

	a := testShipment("BKG100200300")
	a.ContainerNumbers = []string{"MSCU1234567"}
	b := testShipment("BKG400500600")
	b.ContainerNumbers = []string{"MSCU1234567"}

	index.AddShipment(a)
	index.AddShipment(b)

	got := index.Lookup(documents.IdentifierContainer, "MSCU1234567")
	if len(got) != 2 {
		t.Errorf("shared container lookup = %d hits, want 2", len(got))
	}
}

func TestIndexThreadFirstWriterWins(t *testing.T) {
	index := resolve.NewIndex()
	first := uuid.New()
	second := uuid.New()

	index.AddThreadLink("thread-1", first)
	index.AddThreadLink("thread-1", second)

	got, ok := index.Thread("thread-1")
	if !ok {
		t.Fatal("Thread() not found")
	}
	if got != first {
		t.Errorf("Thread() = %v, want first writer %v", got, first)
	}
}

func TestIndexThreadEmptyIgnored(t *testing.T) {
	index := resolve.NewIndex()
	index.AddThreadLink("", uuid.New())

	if _, ok := index.Thread(""); ok {
		t.Error("empty thread id was indexed")
	}
}

func TestIndexConflicts(t *testing.T) {
	index := resolve.NewIndex()
	s := testShipment("MSK263805268")
	s.MasterBillNumber = ptr("MAEU777888999")
	index.AddShipment(s)

	tests := []struct {
		name        string
		identifiers []documents.Identifier
		want        bool
	}{
		{
			name: "matching identifiers",
			identifiers: []documents.Identifier{
				{Type: documents.IdentifierBooking, Value: "msk-263805268"},
			},
			want: false,
		},
		{
			name: "contradicting booking",
			identifiers: []documents.Identifier{
				{Type: documents.IdentifierBooking, Value: "HLC111111111"},
			},
			want: true,
		},
		{
			name: "class absent on shipment proves nothing",
			identifiers: []documents.Identifier{
				{Type: documents.IdentifierContainer, Value: "MSCU1234567"},
			},
			want: false,
		},
		{
			name: "unknown class skipped",
			identifiers: []documents.Identifier{
				{Type: "po_number", Value: "whatever"},
			},
			want: false,
		},
		{
			name: "one match one contradiction still conflicts",
			identifiers: []documents.Identifier{
				{Type: documents.IdentifierBooking, Value: "MSK263805268"},
				{Type: documents.IdentifierMBL, Value: "OOLU000000000"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := index.Conflicts(s.ID, tt.identifiers); got != tt.want {
				t.Errorf("Conflicts() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIndexConflictsUnknownShipment(t *testing.T) {
	index := resolve.NewIndex()
	if index.Conflicts(uuid.New(), []documents.Identifier{{Type: documents.IdentifierBooking, Value: "X"}}) {
		t.Error("Conflicts() for unindexed shipment = true, want false")
	}
}

func TestIndexSize(t *testing.T) {
	index := resolve.NewIndex()
	if index.Size() != 0 {
		t.Errorf("Size() = %d, want 0", index.Size())
	}
	index.AddShipment(testShipment("BKG100200300"))
	index.AddShipment(testShipment("BKG400500600"))
	if index.Size() != 2 {
		t.Errorf("Size() = %d, want 2", index.Size())
	}
}
