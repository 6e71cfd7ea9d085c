package workflow_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/internal/workflow"
)

func TestComputeState(t *testing.T) {
	tests := []struct {
		name          string
		evidence      []workflow.Evidence
		wantState     workflow.State
		wantUnhandled int
		wantFound     bool
	}{
		{
			name:      "no evidence",
			evidence:  nil,
			wantFound: false,
		},
		{
			name: "single confirmation",
			evidence: []workflow.Evidence{
				{DocumentType: "booking_confirmation", Direction: "inbound"},
			},
			wantState: workflow.StateBookingConfirmed,
			wantFound: true,
		},
		{
			name: "highest rank wins over order of arrival",
			evidence: []workflow.Evidence{
				{DocumentType: "shipping_instruction", Direction: "outbound"},
				{DocumentType: "booking_confirmation", Direction: "inbound"},
			},
			wantState: workflow.StateSISubmitted,
			wantFound: true,
		},
		{
			name: "out of order evidence jumps forward",
			evidence: []workflow.Evidence{
				{DocumentType: "booking_confirmation", Direction: "inbound"},
				{DocumentType: "arrival_notice", Direction: "inbound"},
				{DocumentType: "shipping_instruction", Direction: "outbound"},
			},
			wantState: workflow.StateArrivalNoticeReceived,
			wantFound: true,
		},
		{
			name: "direction distinguishes confirmed from shared",
			evidence: []workflow.Evidence{
				{DocumentType: "booking_confirmation", Direction: "outbound"},
			},
			wantState: workflow.StateBookingShared,
			wantFound: true,
		},
		{
			name: "cancellation outranks everything",
			evidence: []workflow.Evidence{
				{DocumentType: "proof_of_delivery", Direction: "inbound"},
				{DocumentType: "booking_cancellation", Direction: "inbound"},
			},
			wantState: workflow.StateCancelled,
			wantFound: true,
		},
		{
			name: "unmapped evidence counted not guessed",
			evidence: []workflow.Evidence{
				{DocumentType: "invoice", Direction: "inbound"},
				{DocumentType: "packing_list", Direction: "outbound"},
				{DocumentType: "vgm_confirmation", Direction: "inbound"},
			},
			wantState:     workflow.StateVGMSubmitted,
			wantUnhandled: 2,
			wantFound:     true,
		},
		{
			name: "only unmapped evidence",
			evidence: []workflow.Evidence{
				{DocumentType: "invoice", Direction: "inbound"},
			},
			wantUnhandled: 1,
			wantFound:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, unhandled, found := workflow.ComputeState(tt.evidence)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if unhandled != tt.wantUnhandled {
				t.Errorf("unhandled = %d, want %d", unhandled, tt.wantUnhandled)
			}
			if !found {
				return
			}
			if outcome.State != tt.wantState {
				t.Errorf("state = %q, want %q", outcome.State, tt.wantState)
			}
			wantRank, _ := workflow.Rank(tt.wantState)
			if outcome.Rank != wantRank {
				t.Errorf("rank = %d, want %d", outcome.Rank, wantRank)
			}
			wantPhase, _ := workflow.PhaseOf(tt.wantState)
			if outcome.Phase != wantPhase {
				t.Errorf("phase = %q, want %q", outcome.Phase, wantPhase)
			}
		})
	}
}

func TestComputeStateStableUnderReprocessing(t *testing.T) {
	evidence := []workflow.Evidence{
		{DocumentType: "booking_confirmation", Direction: "inbound"},
		{DocumentType: "departure_notice", Direction: "inbound"},
		{DocumentType: "gate_in_confirmation", Direction: "inbound"},
	}

	first, _, _ := workflow.ComputeState(evidence)

	reversed := []workflow.Evidence{evidence[2], evidence[1], evidence[0]}
	second, _, _ := workflow.ComputeState(reversed)

	if first != second {
		t.Errorf("outcome varies with evidence order: %+v vs %+v", first, second)
	}
}

type fakeWriter struct {
	rank int

	advanced  []workflow.State
	cancelled []workflow.State
}

func (w *fakeWriter) AdvanceState(_ context.Context, _ uuid.UUID, state, _ string, rank int) (bool, error) {
	if rank <= w.rank {
		return false, nil
	}
	w.rank = rank
	w.advanced = append(w.advanced, workflow.State(state))
	return true, nil
}

func (w *fakeWriter) MarkCancelled(_ context.Context, _ uuid.UUID, state, _ string, rank int) (bool, error) {
	w.rank = rank
	w.cancelled = append(w.cancelled, workflow.State(state))
	return true, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestMachineApplyAdvances(t *testing.T) {
	writer := &fakeWriter{}
	machine := workflow.NewMachine(writer, testLogger())
	shipmentID := uuid.New()

	applied, outcome, unhandled, err := machine.Apply(context.Background(), shipmentID, []workflow.Evidence{
		{DocumentType: "bill_of_lading", Direction: "inbound"},
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !applied {
		t.Error("applied = false, want true")
	}
	if outcome.State != workflow.StateBillOfLadingReceived {
		t.Errorf("state = %q, want %q", outcome.State, workflow.StateBillOfLadingReceived)
	}
	if unhandled != 0 {
		t.Errorf("unhandled = %d, want 0", unhandled)
	}
	if len(writer.advanced) != 1 {
		t.Errorf("advanced writes = %d, want 1", len(writer.advanced))
	}
}

func TestMachineApplyNeverRegresses(t *testing.T) {
	writer := &fakeWriter{rank: 50}
	machine := workflow.NewMachine(writer, testLogger())

	applied, _, _, err := machine.Apply(context.Background(), uuid.New(), []workflow.Evidence{
		{DocumentType: "booking_confirmation", Direction: "inbound"},
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if applied {
		t.Error("applied = true for lower-ranked candidate, want false")
	}
	if len(writer.advanced) != 0 {
		t.Errorf("advanced writes = %d, want 0", len(writer.advanced))
	}
}

func TestMachineApplyCancelsFromAnyRank(t *testing.T) {
	writer := &fakeWriter{rank: 70}
	machine := workflow.NewMachine(writer, testLogger())

	applied, outcome, _, err := machine.Apply(context.Background(), uuid.New(), []workflow.Evidence{
		{DocumentType: "booking_cancellation", Direction: "inbound"},
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !applied {
		t.Error("applied = false, want true")
	}
	if outcome.State != workflow.StateCancelled {
		t.Errorf("state = %q, want %q", outcome.State, workflow.StateCancelled)
	}
	if len(writer.cancelled) != 1 {
		t.Errorf("cancel writes = %d, want 1", len(writer.cancelled))
	}
	if len(writer.advanced) != 0 {
		t.Errorf("advance writes = %d, want 0", len(writer.advanced))
	}
}

func TestMachineApplyNoMappedEvidence(t *testing.T) {
	writer := &fakeWriter{}
	machine := workflow.NewMachine(writer, testLogger())

	applied, _, unhandled, err := machine.Apply(context.Background(), uuid.New(), []workflow.Evidence{
		{DocumentType: "invoice", Direction: "inbound"},
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if applied {
		t.Error("applied = true with no mapped evidence, want false")
	}
	if unhandled != 1 {
		t.Errorf("unhandled = %d, want 1", unhandled)
	}
	if len(writer.advanced)+len(writer.cancelled) != 0 {
		t.Error("writer touched with no mapped evidence")
	}
}
