package resolve_test

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/internal/documents"
	"github.com/mrsingh86/freightdesk/internal/links"
	"github.com/mrsingh86/freightdesk/internal/resolve"
	"github.com/mrsingh86/freightdesk/internal/shipments"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testDocument(identifiers ...documents.Identifier) documents.Document {
	return documents.Document{
		ID:          uuid.New(),
		ThreadID:    "thread-" + uuid.NewString(),
		Identifiers: identifiers,
	}
}

func TestResolveThreadContinuity(t *testing.T) {
	index := resolve.NewIndex()
	s := testShipment("MSK263805268")
	index.AddShipment(s)

	doc := testDocument()
	doc.ThreadID = "thread-known"
	index.AddThreadLink(doc.ThreadID, s.ID)

	resolver := resolve.NewResolver(index, testLogger())
	match, ok := resolver.Resolve(doc)
	if !ok {
		t.Fatal("Resolve() found no match")
	}
	if match.ShipmentID != s.ID {
		t.Errorf("shipment = %v, want %v", match.ShipmentID, s.ID)
	}
	if match.Method != links.MethodThread {
		t.Errorf("method = %q, want %q", match.Method, links.MethodThread)
	}
	if match.Confidence != resolve.ConfidenceThread {
		t.Errorf("confidence = %d, want %d", match.Confidence, resolve.ConfidenceThread)
	}
}

func TestResolveCascadePrecedence(t *testing.T) {
	tests := []struct {
		name              string
		bookingContainers []string
	}{
		{"booking shipment without containers", nil},
		{"booking shipment with its own containers", []string{"AAAU1111111"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := resolve.NewIndex()

			byBooking := testShipment("BKG100200300")
			byBooking.ContainerNumbers = tt.bookingContainers
			byContainer := testShipment("BKG400500600")
			byContainer.ContainerNumbers = []string{"MSCU1234567"}
			index.AddShipment(byBooking)
			index.AddShipment(byContainer)

			doc := testDocument(
				documents.Identifier{Type: documents.IdentifierContainer, Value: "MSCU1234567"},
				documents.Identifier{Type: documents.IdentifierBooking, Value: "BKG100200300"},
			)

			resolver := resolve.NewResolver(index, testLogger())
			match, ok := resolver.Resolve(doc)
			if !ok {
				t.Fatal("Resolve() found no match")
			}
			if match.ShipmentID != byBooking.ID {
				t.Errorf("shipment = %v, want booking match %v", match.ShipmentID, byBooking.ID)
			}
			if match.Method != links.MethodBooking {
				t.Errorf("method = %q, want %q", match.Method, links.MethodBooking)
			}
			if match.Confidence != resolve.ConfidenceBooking {
				t.Errorf("confidence = %d, want %d", match.Confidence, resolve.ConfidenceBooking)
			}
		})
	}
}

func TestResolveMethodConfidences(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(*shipments.Shipment)
		identifierType string
		value          string
		wantMethod     string
		wantConfidence int
	}{
		{
			name:           "booking",
			setup:          func(s *shipments.Shipment) { s.BookingNumber = "BKG100200300" },
			identifierType: documents.IdentifierBooking,
			value:          "BKG100200300",
			wantMethod:     links.MethodBooking,
			wantConfidence: resolve.ConfidenceBooking,
		},
		{
			name:           "master bill",
			setup:          func(s *shipments.Shipment) { s.MasterBillNumber = ptr("MAEU777888999") },
			identifierType: documents.IdentifierMBL,
			value:          "MAEU777888999",
			wantMethod:     links.MethodMBL,
			wantConfidence: resolve.ConfidenceMBL,
		},
		{
			name:           "house bill",
			setup:          func(s *shipments.Shipment) { s.HouseBillNumber = ptr("HBL-445566") },
			identifierType: documents.IdentifierHBL,
			value:          "HBL-445566",
			wantMethod:     links.MethodHBL,
			wantConfidence: resolve.ConfidenceHBL,
		},
		{
			name:           "container",
			setup:          func(s *shipments.Shipment) { s.ContainerNumbers = []string{"MSCU1234567"} },
			identifierType: documents.IdentifierContainer,
			value:          "MSCU1234567",
			wantMethod:     links.MethodContainer,
			wantConfidence: resolve.ConfidenceContainer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := resolve.NewIndex()
			s := testShipment("UNRELATED000111")
			tt.setup(&s)
			index.AddShipment(s)

			doc := testDocument(documents.Identifier{Type: tt.identifierType, Value: tt.value})

			resolver := resolve.NewResolver(index, testLogger())
			match, ok := resolver.Resolve(doc)
			if !ok {
				t.Fatal("Resolve() found no match")
			}
			if match.Method != tt.wantMethod {
				t.Errorf("method = %q, want %q", match.Method, tt.wantMethod)
			}
			if match.Confidence != tt.wantConfidence {
				t.Errorf("confidence = %d, want %d", match.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestResolveAmbiguousSkipped(t *testing.T) {
	index := resolve.NewIndex()

	a := testShipment("BKG100200300")
	a.ContainerNumbers = []string{"MSCU1234567"}
	b := testShipment("BKG400500600")
	b.ContainerNumbers = []string{"MSCU1234567"}
	index.AddShipment(a)
	index.AddShipment(b)

	doc := testDocument(documents.Identifier{Type: documents.IdentifierContainer, Value: "MSCU1234567"})

	resolver := resolve.NewResolver(index, testLogger())
	if _, ok := resolver.Resolve(doc); ok {
		t.Error("Resolve() matched an ambiguous container, want skip")
	}
}

func TestResolveConflictCheckLimitedToThread(t *testing.T) {
	index := resolve.NewIndex()

	booked := testShipment("BKG100200300")
	booked.MasterBillNumber = ptr("MAEU777888999")
	other := shipments.Shipment{ID: uuid.New(), MasterBillNumber: ptr("OOLU111222333")}
	index.AddShipment(booked)
	index.AddShipment(other)

	// The document's master bill contradicts the booking shipment, but an
	// exact booking match is taken at face value; only a thread candidate is
	// vetted against the identifier set.
	doc := testDocument(
		documents.Identifier{Type: documents.IdentifierBooking, Value: "BKG100200300"},
		documents.Identifier{Type: documents.IdentifierMBL, Value: "OOLU111222333"},
	)

	resolver := resolve.NewResolver(index, testLogger())
	match, ok := resolver.Resolve(doc)
	if !ok {
		t.Fatal("Resolve() found no match")
	}
	if match.ShipmentID != booked.ID {
		t.Errorf("shipment = %v, want booking match %v", match.ShipmentID, booked.ID)
	}
	if match.Method != links.MethodBooking {
		t.Errorf("method = %q, want %q", match.Method, links.MethodBooking)
	}
}

func TestResolveThreadConflictFallsThrough(t *testing.T) {
	index := resolve.NewIndex()

	stale := testShipment("BKG100200300")
	actual := testShipment("BKG400500600")
	index.AddShipment(stale)
	index.AddShipment(actual)

	doc := testDocument(documents.Identifier{Type: documents.IdentifierBooking, Value: "BKG400500600"})
	doc.ThreadID = "thread-stale"
	index.AddThreadLink(doc.ThreadID, stale.ID)

	resolver := resolve.NewResolver(index, testLogger())
	match, ok := resolver.Resolve(doc)
	if !ok {
		t.Fatal("Resolve() found no match")
	}
	if match.ShipmentID != actual.ID {
		t.Errorf("shipment = %v, want identifier match %v", match.ShipmentID, actual.ID)
	}
	if match.Method != links.MethodBooking {
		t.Errorf("method = %q, want %q", match.Method, links.MethodBooking)
	}
}

func TestResolveCarrierBonus(t *testing.T) {
	index := resolve.NewIndex()
	s := testShipment("BKG100200300")
	s.CarrierDomain = "maersk.com"
	index.AddShipment(s)

	resolver := resolve.NewResolver(index, testLogger())

	doc := testDocument(documents.Identifier{Type: documents.IdentifierBooking, Value: "BKG100200300"})
	doc.SenderDomain = "maersk.com"

	match, ok := resolver.Resolve(doc)
	if !ok {
		t.Fatal("Resolve() found no match")
	}
	if want := resolve.ConfidenceBooking + 5; match.Confidence != want {
		t.Errorf("confidence = %d, want %d", match.Confidence, want)
	}

	doc.SenderDomain = "shipper.example.com"
	match, _ = resolver.Resolve(doc)
	if match.Confidence != resolve.ConfidenceBooking {
		t.Errorf("confidence = %d, want %d without bonus", match.Confidence, resolve.ConfidenceBooking)
	}
}

func TestResolveCarrierBonusClamped(t *testing.T) {
	index := resolve.NewIndex()
	s := testShipment("BKG100200300")
	s.CarrierDomain = "maersk.com"
	index.AddShipment(s)
	index.AddThreadLink("thread-carrier", s.ID)

	doc := testDocument()
	doc.ThreadID = "thread-carrier"
	doc.SenderDomain = "maersk.com"

	resolver := resolve.NewResolver(index, testLogger())
	match, ok := resolver.Resolve(doc)
	if !ok {
		t.Fatal("Resolve() found no match")
	}
	if match.Confidence != 100 {
		t.Errorf("confidence = %d, want clamped 100", match.Confidence)
	}
}

func TestResolveNoMatch(t *testing.T) {
	index := resolve.NewIndex()
	index.AddShipment(testShipment("BKG100200300"))

	doc := testDocument(documents.Identifier{Type: documents.IdentifierBooking, Value: "BKG999999999"})

	resolver := resolve.NewResolver(index, testLogger())
	if _, ok := resolver.Resolve(doc); ok {
		t.Error("Resolve() matched an unknown booking")
	}
}
