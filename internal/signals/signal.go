// Package signals implements the operational signals attached to shipments:
// blockers that halt progress until cleared, and insights surfaced by
// analysis of the correspondence. Both feed the priority scorer.
package signals

import (
	"time"

	"github.com/google/uuid"
)

// Severity values shared by blockers and insights.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Blocker statuses.
const (
	BlockerOpen    = "open"
	BlockerCleared = "cleared"
)

// Blocker is an unresolved obstacle on a shipment, such as a missing VGM
// or a customs hold. Open blockers raise follow-up priority until cleared.
type Blocker struct {
	ID          uuid.UUID  `json:"id"`
	ShipmentID  uuid.UUID  `json:"shipment_id"`
	BlockerType string     `json:"blocker_type"`
	Severity    string     `json:"severity"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	ClearedAt   *time.Time `json:"cleared_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Insight is an analysis finding about a shipment's correspondence. Boost
// lets upstream analysis nudge the priority score beyond the severity bands.
type Insight struct {
	ID          uuid.UUID `json:"id"`
	ShipmentID  uuid.UUID `json:"shipment_id"`
	InsightType string    `json:"insight_type"`
	Severity    string    `json:"severity"`
	Boost       int       `json:"boost"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateBlockerCommand opens a blocker on a shipment. The (shipment, type)
// pair is unique among open blockers, so repeated detection of the same
// condition is idempotent.
type CreateBlockerCommand struct {
	ShipmentID  uuid.UUID `json:"shipment_id" validate:"required"`
	BlockerType string    `json:"blocker_type" validate:"required"`
	Severity    string    `json:"severity" validate:"required,oneof=critical high medium low"`
	Description string    `json:"description"`
}

// CreateInsightCommand records an analysis finding on a shipment.
type CreateInsightCommand struct {
	ShipmentID  uuid.UUID `json:"shipment_id" validate:"required"`
	InsightType string    `json:"insight_type" validate:"required"`
	Severity    string    `json:"severity" validate:"required,oneof=critical high medium low"`
	Boost       int       `json:"boost" validate:"gte=0,lte=10"`
	Summary     string    `json:"summary"`
}
