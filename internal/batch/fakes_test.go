package batch_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/internal/documents"
	"github.com/mrsingh86/freightdesk/internal/links"
	"github.com/mrsingh86/freightdesk/internal/shipments"
	"github.com/mrsingh86/freightdesk/internal/signals"
	"github.com/mrsingh86/freightdesk/internal/tasks"
	"github.com/mrsingh86/freightdesk/pkg/pagination"
)

var errNotUsed = errors.New("not exercised by batch passes")

// store is a shared in-memory backing for the fake systems, mirroring the
// SQL semantics the batch passes rely on: keyset scans ordered by ID, the
// guarded link upsert, and the monotonic state advance.
type store struct {
	mu        sync.Mutex
	seq       int
	shipments []*shipments.Shipment
	documents []*documents.Document
	links     map[uuid.UUID]*links.Link
	blockers  map[uuid.UUID][]signals.Blocker
	insights  map[uuid.UUID][]signals.Insight
	tasks     map[taskKey]*tasks.Task
}

type taskKey struct {
	shipmentID uuid.UUID
	taskType   string
}

func newStore() *store {
	return &store{
		links:    make(map[uuid.UUID]*links.Link),
		blockers: make(map[uuid.UUID][]signals.Blocker),
		insights: make(map[uuid.UUID][]signals.Insight),
		tasks:    make(map[taskKey]*tasks.Task),
	}
}

// nextID issues strictly increasing UUIDs so keyset pagination over the
// fakes walks rows in insertion order.
func (s *store) nextID() uuid.UUID {
	s.seq++
	var id uuid.UUID
	id[14] = byte(s.seq >> 8)
	id[15] = byte(s.seq)
	return id
}

func (s *store) addShipment(sh shipments.Shipment) *shipments.Shipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh.ID = s.nextID()
	s.shipments = append(s.shipments, &sh)
	return &sh
}

func (s *store) addDocument(d documents.Document) *documents.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.nextID()
	if d.Status == "" {
		d.Status = documents.StatusActive
	}
	s.documents = append(s.documents, &d)
	return &d
}

func (s *store) addActiveLink(documentID, shipmentID uuid.UUID, method string, attempts int) *links.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &links.Link{
		ID:             s.nextID(),
		DocumentID:     documentID,
		ShipmentID:     &shipmentID,
		Method:         &method,
		RepairAttempts: attempts,
	}
	s.links[documentID] = l
	return l
}

func uuidLess(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

type fakeShipments struct{ s *store }

func (f *fakeShipments) Handler() *shipments.Handler { return nil }

func (f *fakeShipments) List(context.Context, pagination.PageRequest, shipments.Filters) (*pagination.PageResult[shipments.Shipment], error) {
	return nil, errNotUsed
}

func (f *fakeShipments) Find(_ context.Context, id uuid.UUID) (*shipments.Shipment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, sh := range f.s.shipments {
		if sh.ID == id {
			copied := *sh
			return &copied, nil
		}
	}
	return nil, shipments.ErrNotFound
}

func (f *fakeShipments) FindByBookingNumber(context.Context, string) (*shipments.Shipment, error) {
	return nil, errNotUsed
}

func (f *fakeShipments) Create(context.Context, shipments.CreateCommand) (*shipments.Shipment, error) {
	return nil, errNotUsed
}

func (f *fakeShipments) Scan(_ context.Context, after uuid.UUID, limit int) ([]shipments.Shipment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	page := make([]shipments.Shipment, 0, limit)
	for _, sh := range f.s.shipments {
		if len(page) == limit {
			break
		}
		if uuidLess(after, sh.ID) {
			page = append(page, *sh)
		}
	}
	return page, nil
}

func (f *fakeShipments) AdvanceState(_ context.Context, id uuid.UUID, state, phase string, rank int) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, sh := range f.s.shipments {
		if sh.ID != id {
			continue
		}
		if sh.WorkflowState != nil && *sh.WorkflowState == "cancelled" {
			return false, nil
		}
		if sh.WorkflowRank != nil && *sh.WorkflowRank >= rank {
			return false, nil
		}
		sh.WorkflowState = &state
		sh.WorkflowPhase = &phase
		sh.WorkflowRank = &rank
		return true, nil
	}
	return false, nil
}

func (f *fakeShipments) MarkCancelled(_ context.Context, id uuid.UUID, state, phase string, rank int) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, sh := range f.s.shipments {
		if sh.ID != id {
			continue
		}
		if sh.WorkflowState != nil && *sh.WorkflowState == state {
			return false, nil
		}
		sh.WorkflowState = &state
		sh.WorkflowPhase = &phase
		sh.WorkflowRank = &rank
		return true, nil
	}
	return false, nil
}

func (f *fakeShipments) Cancel(context.Context, uuid.UUID) (*shipments.Shipment, error) {
	return nil, errNotUsed
}

type fakeDocuments struct{ s *store }

func (f *fakeDocuments) Handler(int64) *documents.Handler { return nil }

func (f *fakeDocuments) List(context.Context, pagination.PageRequest, documents.Filters) (*pagination.PageResult[documents.Document], error) {
	return nil, errNotUsed
}

func (f *fakeDocuments) Find(_ context.Context, id uuid.UUID) (*documents.Document, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, d := range f.s.documents {
		if d.ID == id {
			copied := *d
			return &copied, nil
		}
	}
	return nil, documents.ErrNotFound
}

func (f *fakeDocuments) Intake(context.Context, documents.IntakeCommand) (*documents.Document, error) {
	return nil, errNotUsed
}

func (f *fakeDocuments) Supersede(context.Context, uuid.UUID, documents.IntakeCommand) (*documents.Document, error) {
	return nil, errNotUsed
}

func (f *fakeDocuments) ListByShipment(context.Context, uuid.UUID) ([]documents.Document, error) {
	return nil, errNotUsed
}

func (f *fakeDocuments) CountDrafts(_ context.Context, shipmentID uuid.UUID) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	count := 0
	for _, d := range f.s.documents {
		if d.Status != documents.StatusDraft {
			continue
		}
		l, ok := f.s.links[d.ID]
		if ok && l.ShipmentID != nil && l.RevokedAt == nil && *l.ShipmentID == shipmentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeDocuments) ScanUnlinked(_ context.Context, after uuid.UUID, limit, maxRepairAttempts int) ([]documents.Document, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	page := make([]documents.Document, 0, limit)
	for _, d := range f.s.documents {
		if len(page) == limit {
			break
		}
		if !uuidLess(after, d.ID) || d.Status == documents.StatusSuperseded {
			continue
		}

		l := f.s.links[d.ID]
		if l != nil && l.RevokedAt != nil {
			l = nil
		}
		if l != nil && l.ShipmentID != nil {
			continue
		}
		attempts := 0
		if l != nil {
			attempts = l.RepairAttempts
		}
		if attempts >= maxRepairAttempts {
			continue
		}

		page = append(page, *d)
	}
	return page, nil
}

type fakeLinks struct{ s *store }

func (f *fakeLinks) Handler() *links.Handler { return nil }

func (f *fakeLinks) List(context.Context, pagination.PageRequest, links.Filters) (*pagination.PageResult[links.Link], error) {
	return nil, errNotUsed
}

func (f *fakeLinks) FindByDocument(_ context.Context, documentID uuid.UUID) (*links.Link, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	l, ok := f.s.links[documentID]
	if !ok {
		return nil, links.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLinks) Attach(_ context.Context, cmd links.AttachCommand) (bool, *links.Link, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	l, ok := f.s.links[cmd.DocumentID]
	if !ok {
		shipmentID := cmd.ShipmentID
		method := cmd.Method
		confidence := cmd.Confidence
		l = &links.Link{
			ID:         f.s.nextID(),
			DocumentID: cmd.DocumentID,
			ShipmentID: &shipmentID,
			Method:     &method,
			Confidence: &confidence,
		}
		f.s.links[cmd.DocumentID] = l
		copied := *l
		return true, &copied, nil
	}

	if l.ShipmentID != nil && l.RevokedAt == nil {
		copied := *l
		return false, &copied, nil
	}

	shipmentID := cmd.ShipmentID
	method := cmd.Method
	confidence := cmd.Confidence
	l.ShipmentID = &shipmentID
	l.Method = &method
	l.Confidence = &confidence
	l.RevokedAt = nil
	copied := *l
	return true, &copied, nil
}

func (f *fakeLinks) RecordMiss(_ context.Context, documentID uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.links[documentID]; !ok {
		f.s.links[documentID] = &links.Link{
			ID:         f.s.nextID(),
			DocumentID: documentID,
		}
	}
	return nil
}

func (f *fakeLinks) Revoke(_ context.Context, documentID uuid.UUID) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	l, ok := f.s.links[documentID]
	if !ok || l.ShipmentID == nil || l.RevokedAt != nil {
		return false, nil
	}
	now := time.Now().UTC()
	l.RevokedAt = &now
	l.RepairAttempts++
	return true, nil
}

func (f *fakeLinks) ListByShipment(context.Context, uuid.UUID) ([]links.Link, error) {
	return nil, errNotUsed
}

func (f *fakeLinks) ScanActive(_ context.Context, after uuid.UUID, limit int) ([]links.ActiveLink, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	active := make([]*links.Link, 0, len(f.s.links))
	for _, l := range f.s.links {
		if l.ShipmentID != nil && l.RevokedAt == nil && uuidLess(after, l.ID) {
			active = append(active, l)
		}
	}
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			if uuidLess(active[j].ID, active[i].ID) {
				active[i], active[j] = active[j], active[i]
			}
		}
	}

	page := make([]links.ActiveLink, 0, limit)
	for _, l := range active {
		if len(page) == limit {
			break
		}
		al := links.ActiveLink{Link: *l}
		for _, d := range f.s.documents {
			if d.ID == l.DocumentID {
				al.ThreadID = d.ThreadID
				al.DocumentType = d.DocumentType
				al.Direction = d.Direction
				break
			}
		}
		page = append(page, al)
	}
	return page, nil
}

type fakeSignals struct{ s *store }

func (f *fakeSignals) Handler() *signals.Handler { return nil }

func (f *fakeSignals) ListBlockers(context.Context, pagination.PageRequest, signals.BlockerFilters) (*pagination.PageResult[signals.Blocker], error) {
	return nil, errNotUsed
}

func (f *fakeSignals) CreateBlocker(context.Context, signals.CreateBlockerCommand) (*signals.Blocker, error) {
	return nil, errNotUsed
}

func (f *fakeSignals) ClearBlocker(context.Context, uuid.UUID) (bool, error) {
	return false, errNotUsed
}

func (f *fakeSignals) ListOpenBlockers(_ context.Context, shipmentID uuid.UUID) ([]signals.Blocker, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return append([]signals.Blocker(nil), f.s.blockers[shipmentID]...), nil
}

func (f *fakeSignals) CreateInsight(context.Context, signals.CreateInsightCommand) (*signals.Insight, error) {
	return nil, errNotUsed
}

func (f *fakeSignals) ListInsights(_ context.Context, shipmentID uuid.UUID) ([]signals.Insight, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return append([]signals.Insight(nil), f.s.insights[shipmentID]...), nil
}

type fakeTasks struct{ s *store }

func (f *fakeTasks) Handler() *tasks.Handler { return nil }

func (f *fakeTasks) List(context.Context, pagination.PageRequest, tasks.Filters) (*pagination.PageResult[tasks.Task], error) {
	return nil, errNotUsed
}

func (f *fakeTasks) Find(context.Context, uuid.UUID) (*tasks.Task, error) {
	return nil, errNotUsed
}

func (f *fakeTasks) Upsert(_ context.Context, cmd tasks.UpsertCommand) (*tasks.Task, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	key := taskKey{cmd.ShipmentID, cmd.TaskType}
	existing, ok := f.s.tasks[key]
	if ok && existing.Status != tasks.StatusOpen {
		copied := *existing
		return &copied, nil
	}
	if ok {
		existing.Title = cmd.Title
		existing.PriorityScore = cmd.PriorityScore
		existing.PriorityLabel = cmd.PriorityLabel
		existing.Factors = cmd.Factors
		copied := *existing
		return &copied, nil
	}

	t := &tasks.Task{
		ID:            f.s.nextID(),
		ShipmentID:    cmd.ShipmentID,
		TaskType:      cmd.TaskType,
		Title:         cmd.Title,
		PriorityScore: cmd.PriorityScore,
		PriorityLabel: cmd.PriorityLabel,
		Factors:       cmd.Factors,
		Status:        tasks.StatusOpen,
	}
	f.s.tasks[key] = t
	copied := *t
	return &copied, nil
}

func (f *fakeTasks) Complete(context.Context, uuid.UUID) (bool, error) {
	return false, errNotUsed
}

func (f *fakeTasks) ListRanked(context.Context, int) ([]tasks.Task, error) {
	return nil, errNotUsed
}
