package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/internal/documents"
	"github.com/mrsingh86/freightdesk/internal/links"
	"github.com/mrsingh86/freightdesk/pkg/pagination"
)

// RepairOutcome summarizes one reconciliation pass.
type RepairOutcome struct {
	Checked  int `json:"checked"`
	Revoked  int `json:"revoked"`
	Relinked int `json:"relinked"`
	Skipped  int `json:"skipped"`
}

// Repairer re-validates existing links against a freshly built index and
// moves documents whose evidence now points at a different shipment. This is
// how early mislinks heal once later correspondence fills in the real
// identifiers.
type Repairer struct {
	docs        documents.System
	links       links.System
	resolver    *Resolver
	logger      *slog.Logger
	pageSize    int
	maxAttempts int
}

// NewRepairer creates a repairer. maxAttempts caps how many times a single
// document's link may be reworked before it is left alone for manual review.
func NewRepairer(
	docs documents.System,
	linkSys links.System,
	resolver *Resolver,
	logger *slog.Logger,
	pageSize, maxAttempts int,
) *Repairer {
	return &Repairer{
		docs:        docs,
		links:       linkSys,
		resolver:    resolver,
		logger:      logger.With("system", "repair"),
		pageSize:    pageSize,
		maxAttempts: maxAttempts,
	}
}

// Reconcile walks every active link and re-validates its document. A link
// whose document now resolves to a different shipment is revoked and
// reattached. A link whose shipment's identifiers contradict the document is
// revoked even when the cascade finds nothing else: a wrongly absorbed
// document must stop feeding that shipment's workflow evidence, linked or
// not. Links that have exhausted their repair attempts are skipped.
func (r *Repairer) Reconcile(ctx context.Context) (RepairOutcome, error) {
	var outcome RepairOutcome

	err := pagination.EachPage(
		ctx,
		r.pageSize,
		r.links.ScanActive,
		func(l links.ActiveLink) uuid.UUID { return l.ID },
		func(l links.ActiveLink) error {
			return r.reconcileLink(ctx, l, &outcome)
		},
	)
	if err != nil {
		return outcome, fmt.Errorf("reconcile links: %w", err)
	}

	r.logger.Info("reconciliation complete",
		"checked", outcome.Checked,
		"revoked", outcome.Revoked,
		"relinked", outcome.Relinked,
		"skipped", outcome.Skipped,
	)
	return outcome, nil
}

func (r *Repairer) reconcileLink(ctx context.Context, l links.ActiveLink, outcome *RepairOutcome) error {
	outcome.Checked++

	if l.RepairAttempts >= r.maxAttempts {
		outcome.Skipped++
		return nil
	}

	if l.ShipmentID == nil {
		return nil
	}

	doc, err := r.docs.Find(ctx, l.DocumentID)
	if err != nil {
		return fmt.Errorf("load document %s: %w", l.DocumentID, err)
	}

	contradicted := r.resolver.index.Conflicts(*l.ShipmentID, doc.Identifiers)
	match, ok := r.resolver.Resolve(*doc)
	if !contradicted && (!ok || match.ShipmentID == *l.ShipmentID) {
		return nil
	}

	revoked, err := r.links.Revoke(ctx, l.DocumentID)
	if err != nil {
		return fmt.Errorf("revoke link for document %s: %w", l.DocumentID, err)
	}
	if !revoked {
		return nil
	}
	outcome.Revoked++

	if !ok {
		r.logger.Info("contradicted link revoked",
			"document_id", l.DocumentID,
			"shipment_id", *l.ShipmentID,
		)
		return nil
	}

	applied, _, err := r.links.Attach(ctx, links.AttachCommand{
		DocumentID: l.DocumentID,
		ShipmentID: match.ShipmentID,
		Method:     match.Method,
		Confidence: match.Confidence,
	})
	if err != nil {
		return fmt.Errorf("reattach document %s: %w", l.DocumentID, err)
	}
	if applied {
		outcome.Relinked++
		r.logger.Info("link repaired",
			"document_id", l.DocumentID,
			"from_shipment", *l.ShipmentID,
			"to_shipment", match.ShipmentID,
			"method", match.Method,
		)
	}

	return nil
}
