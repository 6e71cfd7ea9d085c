package resolve

import (
	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/internal/documents"
	"github.com/mrsingh86/freightdesk/internal/shipments"
)

type idSet map[uuid.UUID]struct{}

type identity struct {
	booking    map[string]struct{}
	mbl        map[string]struct{}
	hbl        map[string]struct{}
	containers map[string]struct{}
}

// Index is the in-memory lookup structure a batch run resolves against.
// It is built once per run from a full shipment scan, then updated with
// thread links as documents are attached so later documents in the same
// thread resolve by continuity. Not safe for concurrent mutation; the
// resolution pass is sequential.
type Index struct {
	byThread    map[string]uuid.UUID
	byBooking   map[string]idSet
	byMBL       map[string]idSet
	byHBL       map[string]idSet
	byContainer map[string]idSet
	identities  map[uuid.UUID]identity
	carriers    map[uuid.UUID]string
	shipments   int
}

// NewIndex creates an empty resolution index.
func NewIndex() *Index {
	return &Index{
		byThread:    make(map[string]uuid.UUID),
		byBooking:   make(map[string]idSet),
		byMBL:       make(map[string]idSet),
		byHBL:       make(map[string]idSet),
		byContainer: make(map[string]idSet),
		identities:  make(map[uuid.UUID]identity),
		carriers:    make(map[uuid.UUID]string),
	}
}

// AddShipment indexes every identifier variant of a shipment.
func (x *Index) AddShipment(s shipments.Shipment) {
	id := identity{
		booking:    make(map[string]struct{}),
		mbl:        make(map[string]struct{}),
		hbl:        make(map[string]struct{}),
		containers: make(map[string]struct{}),
	}

	indexValue(x.byBooking, id.booking, s.ID, s.BookingNumber)

	if s.MasterBillNumber != nil {
		indexValue(x.byMBL, id.mbl, s.ID, *s.MasterBillNumber)
	}
	if s.BillOfLadingNumber != nil {
		indexValue(x.byMBL, id.mbl, s.ID, *s.BillOfLadingNumber)
	}
	if s.HouseBillNumber != nil {
		indexValue(x.byHBL, id.hbl, s.ID, *s.HouseBillNumber)
	}
	for _, c := range s.ContainerNumbers {
		indexValue(x.byContainer, id.containers, s.ID, c)
	}

	x.identities[s.ID] = id
	x.carriers[s.ID] = s.CarrierDomain
	x.shipments++
}

// AddThreadLink records that a thread's documents belong to a shipment.
// First writer wins: a thread stays bound to the shipment its earliest
// resolved document matched.
func (x *Index) AddThreadLink(threadID string, shipmentID uuid.UUID) {
	if threadID == "" {
		return
	}
	if _, ok := x.byThread[threadID]; ok {
		return
	}
	x.byThread[threadID] = shipmentID
}

// Thread returns the shipment bound to a thread, if any.
func (x *Index) Thread(threadID string) (uuid.UUID, bool) {
	id, ok := x.byThread[threadID]
	return id, ok
}

// Lookup returns the shipments matching any variant of an identifier value
// for the given identifier type.
func (x *Index) Lookup(identifierType, value string) []uuid.UUID {
	table := x.table(identifierType)
	if table == nil {
		return nil
	}

	matched := make(idSet)
	for _, variant := range Variants(value) {
		for id := range table[variant] {
			matched[id] = struct{}{}
		}
	}

	ids := make([]uuid.UUID, 0, len(matched))
	for id := range matched {
		ids = append(ids, id)
	}
	return ids
}

// Conflicts reports whether a document's extracted identifiers contradict a
// candidate shipment. A contradiction exists only when the shipment carries
// identifiers of a class the document also names and none of the document's
// variants match; a class absent on either side proves nothing.
func (x *Index) Conflicts(shipmentID uuid.UUID, identifiers []documents.Identifier) bool {
	id, ok := x.identities[shipmentID]
	if !ok {
		return false
	}

	for _, ident := range identifiers {
		var known map[string]struct{}
		switch ident.Type {
		case documents.IdentifierBooking:
			known = id.booking
		case documents.IdentifierMBL:
			known = id.mbl
		case documents.IdentifierHBL:
			known = id.hbl
		case documents.IdentifierContainer:
			known = id.containers
		default:
			continue
		}

		if len(known) == 0 {
			continue
		}

		if !anyVariantIn(ident.Value, known) {
			return true
		}
	}

	return false
}

// CarrierDomain returns the carrier mail domain recorded for a shipment.
func (x *Index) CarrierDomain(shipmentID uuid.UUID) string {
	return x.carriers[shipmentID]
}

// Size returns the number of indexed shipments.
func (x *Index) Size() int {
	return x.shipments
}

func (x *Index) table(identifierType string) map[string]idSet {
	switch identifierType {
	case documents.IdentifierBooking:
		return x.byBooking
	case documents.IdentifierMBL:
		return x.byMBL
	case documents.IdentifierHBL:
		return x.byHBL
	case documents.IdentifierContainer:
		return x.byContainer
	default:
		return nil
	}
}

func indexValue(table map[string]idSet, known map[string]struct{}, shipmentID uuid.UUID, value string) {
	for _, variant := range Variants(value) {
		set, ok := table[variant]
		if !ok {
			set = make(idSet)
			table[variant] = set
		}
		set[shipmentID] = struct{}{}
		known[variant] = struct{}{}
	}
}

func anyVariantIn(value string, known map[string]struct{}) bool {
	for _, variant := range Variants(value) {
		if _, ok := known[variant]; ok {
			return true
		}
	}
	return false
}
