package workflow

// RuleTableVersion identifies the revision of the document-to-state mapping.
// Bump it whenever a rule is added, removed, or retargeted so downstream
// reprocessing can tell which table produced a persisted state.
const RuleTableVersion = 1

type ruleKey struct {
	documentType string
	direction    string
}

// The rule table is direction-aware: the same document type can indicate
// different progress depending on whether it was received from a counterparty
// or sent onward. A booking confirmation received from the carrier confirms
// the booking; the same confirmation forwarded to the customer only shows it
// was shared. Document types absent from the table carry no state signal.
var ruleTable = map[ruleKey]State{
	{"booking_confirmation", "inbound"}:  StateBookingConfirmed,
	{"booking_confirmation", "outbound"}: StateBookingShared,
	{"booking_amendment", "inbound"}:     StateBookingConfirmed,
	{"booking_cancellation", "inbound"}:  StateCancelled,
	{"booking_cancellation", "outbound"}: StateCancelled,
	{"shipping_instruction", "outbound"}: StateSISubmitted,
	{"vgm_confirmation", "inbound"}:      StateVGMSubmitted,
	{"vgm_confirmation", "outbound"}:     StateVGMSubmitted,
	{"gate_in_confirmation", "inbound"}:  StateContainerGatedIn,
	{"bill_of_lading", "inbound"}:        StateBillOfLadingReceived,
	{"departure_notice", "inbound"}:      StateDeparted,
	{"arrival_notice", "inbound"}:        StateArrivalNoticeReceived,
	{"customs_clearance", "inbound"}:     StateCustomsCleared,
	{"delivery_order", "inbound"}:        StateDeliveryOrderReceived,
	{"proof_of_delivery", "inbound"}:     StateDelivered,
}

// TargetState maps a classified document to its lifecycle state candidate.
// The second return is false when the (type, direction) pair carries no
// state signal; such documents are retained as evidence but ignored here.
func TargetState(documentType, direction string) (State, bool) {
	s, ok := ruleTable[ruleKey{documentType, direction}]
	return s, ok
}
