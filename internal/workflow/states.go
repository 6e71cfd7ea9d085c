// Package workflow implements the shipment lifecycle state machine. It owns
// the ordered state space, the document-to-state rule table, and the
// forward-only transition contract applied against persisted shipment state.
package workflow

// State is an enumerated shipment lifecycle state. Each state carries a
// monotonic integer rank; persisted state may only move to a higher rank,
// with cancellation as the single exception.
type State string

// Phase is a coarse grouping of lifecycle states used for display and
// filtering. It is derived from State and never participates in ranking.
type Phase string

const (
	StateBookingConfirmed      State = "booking_confirmed"
	StateBookingShared         State = "booking_shared"
	StateSISubmitted           State = "si_submitted"
	StateVGMSubmitted          State = "vgm_submitted"
	StateContainerGatedIn      State = "container_gated_in"
	StateBillOfLadingReceived  State = "bill_of_lading_received"
	StateDeparted              State = "departed"
	StateArrivalNoticeReceived State = "arrival_notice_received"
	StateCustomsCleared        State = "customs_cleared"
	StateDeliveryOrderReceived State = "delivery_order_received"
	StateDelivered             State = "delivered"
	StateCancelled             State = "cancelled"
)

const (
	PhaseBooking      Phase = "booking"
	PhasePreDeparture Phase = "pre_departure"
	PhaseInTransit    Phase = "in_transit"
	PhaseArrival      Phase = "arrival"
	PhaseDelivery     Phase = "delivery"
	PhaseClosed       Phase = "closed"
)

type stateInfo struct {
	rank  int
	phase Phase
}

// The rank ordering encodes the operational sequence of an export shipment.
// booking_shared sits adjacent to booking_confirmed: sharing a confirmation
// onward is evidence of equal progress, not a later milestone.
var states = map[State]stateInfo{
	StateBookingConfirmed:      {rank: 10, phase: PhaseBooking},
	StateBookingShared:         {rank: 12, phase: PhaseBooking},
	StateSISubmitted:           {rank: 20, phase: PhasePreDeparture},
	StateVGMSubmitted:          {rank: 25, phase: PhasePreDeparture},
	StateContainerGatedIn:      {rank: 30, phase: PhasePreDeparture},
	StateBillOfLadingReceived:  {rank: 40, phase: PhaseInTransit},
	StateDeparted:              {rank: 45, phase: PhaseInTransit},
	StateArrivalNoticeReceived: {rank: 50, phase: PhaseArrival},
	StateCustomsCleared:        {rank: 55, phase: PhaseArrival},
	StateDeliveryOrderReceived: {rank: 60, phase: PhaseDelivery},
	StateDelivered:             {rank: 70, phase: PhaseDelivery},
	StateCancelled:             {rank: 99, phase: PhaseClosed},
}

// Rank returns the monotonic ordinal for a state. The second return is false
// for unknown states.
func Rank(s State) (int, bool) {
	info, ok := states[s]
	if !ok {
		return 0, false
	}
	return info.rank, true
}

// PhaseOf returns the coarse phase for a state. The second return is false
// for unknown states.
func PhaseOf(s State) (Phase, bool) {
	info, ok := states[s]
	if !ok {
		return "", false
	}
	return info.phase, true
}

// Valid reports whether s is an enumerated lifecycle state.
func Valid(s State) bool {
	_, ok := states[s]
	return ok
}
