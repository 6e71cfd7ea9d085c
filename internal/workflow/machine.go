package workflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Evidence is one linked document's contribution to state computation.
type Evidence struct {
	DocumentType string
	Direction    string
}

// Outcome is a computed state candidate with its derived rank and phase.
type Outcome struct {
	State State
	Phase Phase
	Rank  int
}

// ComputeState maps every piece of evidence through the rule table and
// selects the highest-ranked candidate. The machine is not a sequential
// walk: out-of-order evidence can jump state arbitrarily far forward, and
// the maximum is stable under reprocessing. The second return counts
// evidence that carried no state signal; the third is false when no
// evidence mapped at all, which is distinct from any enumerated state.
func ComputeState(evidence []Evidence) (Outcome, int, bool) {
	var (
		best      Outcome
		found     bool
		unhandled int
	)

	for _, ev := range evidence {
		target, ok := TargetState(ev.DocumentType, ev.Direction)
		if !ok {
			unhandled++
			continue
		}

		rank, _ := Rank(target)
		phase, _ := PhaseOf(target)

		if !found || rank > best.Rank {
			best = Outcome{State: target, Phase: phase, Rank: rank}
			found = true
		}
	}

	return best, unhandled, found
}

// StateWriter persists shipment state transitions. AdvanceState must apply
// the write only while the persisted rank is still below the candidate rank,
// so concurrent writers race to a no-op rather than a regression.
// MarkCancelled applies unconditionally apart from being idempotent.
type StateWriter interface {
	AdvanceState(ctx context.Context, id uuid.UUID, state, phase string, rank int) (bool, error)
	MarkCancelled(ctx context.Context, id uuid.UUID, state, phase string, rank int) (bool, error)
}

// Machine applies computed state candidates against persisted shipment state.
type Machine struct {
	writer StateWriter
	logger *slog.Logger
}

// NewMachine creates a state machine bound to a state writer.
func NewMachine(writer StateWriter, logger *slog.Logger) *Machine {
	return &Machine{
		writer: writer,
		logger: logger.With("system", "workflow"),
	}
}

// Apply computes the state candidate for a shipment's evidence and persists
// it if it advances the shipment. Returns whether a write was applied, the
// computed outcome, and the count of unhandled evidence. A shipment with no
// mapped evidence is left untouched.
func (m *Machine) Apply(ctx context.Context, shipmentID uuid.UUID, evidence []Evidence) (bool, Outcome, int, error) {
	outcome, unhandled, ok := ComputeState(evidence)
	if !ok {
		return false, Outcome{}, unhandled, nil
	}

	var (
		applied bool
		err     error
	)

	if outcome.State == StateCancelled {
		applied, err = m.writer.MarkCancelled(ctx, shipmentID, string(outcome.State), string(outcome.Phase), outcome.Rank)
	} else {
		applied, err = m.writer.AdvanceState(ctx, shipmentID, string(outcome.State), string(outcome.Phase), outcome.Rank)
	}

	if err != nil {
		return false, outcome, unhandled, err
	}

	if applied {
		m.logger.Info("shipment state advanced",
			"shipment_id", shipmentID,
			"state", outcome.State,
			"phase", outcome.Phase,
			"rank", outcome.Rank,
		)
	}

	return applied, outcome, unhandled, nil
}
