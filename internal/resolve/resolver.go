package resolve

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/internal/documents"
	"github.com/mrsingh86/freightdesk/internal/links"
)

// Base confidences per resolution method. Thread continuity beats every
// identifier class because a mail thread almost never mixes shipments;
// container numbers sit lowest because containers are reused across
// shipments and frequently misquoted.
const (
	ConfidenceThread    = 95
	ConfidenceBooking   = 90
	ConfidenceMBL       = 80
	ConfidenceHBL       = 75
	ConfidenceContainer = 60

	carrierBonus = 5
)

// Match is a successful resolution: the shipment, the cascade step that
// produced it, and the confidence assigned.
type Match struct {
	ShipmentID uuid.UUID
	Method     string
	Confidence int
}

// Resolver matches documents to shipments against a built index.
type Resolver struct {
	index  *Index
	logger *slog.Logger
}

// NewResolver creates a resolver over the given index.
func NewResolver(index *Index, logger *slog.Logger) *Resolver {
	return &Resolver{
		index:  index,
		logger: logger.With("system", "resolve"),
	}
}

// Resolve runs the cascade for one document. Thread continuity is tried
// first, then booking, MBL, HBL, and container identifiers in that order,
// each step short-circuiting on the first match. Only the thread candidate
// is checked against the document's identifier set: a reply chain reused for
// a different shipment falls through to the identifier steps, but an exact
// identifier match is always accepted as stated. Ambiguous identifier hits
// (one value, several shipments) are skipped rather than guessed. The second
// return is false when nothing matched.
func (r *Resolver) Resolve(doc documents.Document) (Match, bool) {
	if shipmentID, ok := r.index.Thread(doc.ThreadID); ok {
		if r.index.Conflicts(shipmentID, doc.Identifiers) {
			r.logger.Debug("thread match contradicted by identifiers",
				"document_id", doc.ID,
				"thread_id", doc.ThreadID,
				"shipment_id", shipmentID,
			)
		} else {
			return r.match(doc, shipmentID, links.MethodThread, ConfidenceThread), true
		}
	}

	steps := []struct {
		identifierType string
		method         string
		confidence     int
	}{
		{documents.IdentifierBooking, links.MethodBooking, ConfidenceBooking},
		{documents.IdentifierMBL, links.MethodMBL, ConfidenceMBL},
		{documents.IdentifierHBL, links.MethodHBL, ConfidenceHBL},
		{documents.IdentifierContainer, links.MethodContainer, ConfidenceContainer},
	}

	for _, step := range steps {
		for _, ident := range doc.Identifiers {
			if ident.Type != step.identifierType {
				continue
			}

			candidates := r.index.Lookup(step.identifierType, ident.Value)
			if len(candidates) == 0 {
				continue
			}

			if len(candidates) > 1 {
				r.logger.Debug("ambiguous identifier skipped",
					"document_id", doc.ID,
					"identifier_type", step.identifierType,
					"value", ident.Value,
					"candidates", len(candidates),
				)
				continue
			}

			return r.match(doc, candidates[0], step.method, step.confidence), true
		}
	}

	return Match{}, false
}

// match applies the carrier-domain bonus: a document sent from the
// shipment's own carrier domain is near-certain to belong to it.
func (r *Resolver) match(doc documents.Document, shipmentID uuid.UUID, method string, confidence int) Match {
	if domain := r.index.CarrierDomain(shipmentID); domain != "" && domain == doc.SenderDomain {
		confidence += carrierBonus
	}
	if confidence > 100 {
		confidence = 100
	}

	return Match{
		ShipmentID: shipmentID,
		Method:     method,
		Confidence: confidence,
	}
}
