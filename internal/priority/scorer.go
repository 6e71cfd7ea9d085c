// Package priority ranks follow-up work for shipments. Scoring is a pure
// function of shipment state, open blockers, insights, and stakeholder data:
// a bounded 0-100 sum of independently capped factors, so no single factor
// can dominate beyond its designed weight.
package priority

import "time"

// Label is a coarse priority bucket derived from the numeric score.
type Label string

const (
	LabelCritical Label = "critical"
	LabelHigh     Label = "high"
	LabelMedium   Label = "medium"
	LabelLow      Label = "low"
)

// Severity values recognized on blockers, insights, and notifications.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Factor caps. Every factor clamps independently before summing; the sum of
// caps deliberately exceeds 100 so the total clamp matters.
const (
	capDeadline     = 30
	capTier         = 15
	capBlockers     = 20
	capInsights     = 15
	capNotification = 10
	capHistory      = 10
	capDrafts       = 10
)

// BlockerInput is the read-only blocker view consumed by the scorer.
type BlockerInput struct {
	Severity string `json:"severity"`
}

// InsightInput is the read-only insight view consumed by the scorer.
type InsightInput struct {
	Severity string `json:"severity"`
	Boost    int    `json:"boost"`
}

// Input carries everything Score needs. Missing or malformed upstream data
// is represented by zero values and contributes nothing; it never fails the
// computation.
type Input struct {
	Now              time.Time      `json:"now"`
	NearestCutoff    *time.Time     `json:"nearest_cutoff"`
	CustomerTier     int            `json:"customer_tier"`
	NotifySeverity   string         `json:"notify_severity"`
	LateResponseRate float64        `json:"late_response_rate"`
	DraftDocuments   int            `json:"draft_documents"`
	Blockers         []BlockerInput `json:"blockers"`
	Insights         []InsightInput `json:"insights"`
}

// Result is a bounded score with its label and per-factor breakdown.
type Result struct {
	Score   int            `json:"score"`
	Label   Label          `json:"label"`
	Factors map[string]int `json:"factors"`
}

// Score computes the priority of a shipment's follow-up work. The output
// is always within [0, 100] and reproducible for identical inputs.
func Score(in Input) Result {
	factors := map[string]int{
		"deadline":     deadlineFactor(in.Now, in.NearestCutoff),
		"tier":         clamp(in.CustomerTier*5, capTier),
		"blockers":     blockerFactor(in.Blockers),
		"insights":     insightFactor(in.Insights),
		"notification": notificationFactor(in.NotifySeverity),
		"history":      historyFactor(in.LateResponseRate),
		"drafts":       draftFactor(in.DraftDocuments),
	}

	total := 0
	for _, v := range factors {
		total += v
	}

	return Result{
		Score:   clamp(total, 100),
		Label:   LabelFor(clamp(total, 100)),
		Factors: factors,
	}
}

// LabelFor maps a score to its priority label. Thresholds are exact:
// >=85 critical, >=70 high, >=50 medium, else low.
func LabelFor(score int) Label {
	switch {
	case score >= 85:
		return LabelCritical
	case score >= 70:
		return LabelHigh
	case score >= 50:
		return LabelMedium
	default:
		return LabelLow
	}
}

// deadlineFactor scales with proximity to the nearest unmet cutoff.
// Overdue saturates at the cap rather than growing without bound.
func deadlineFactor(now time.Time, cutoff *time.Time) int {
	if cutoff == nil || now.IsZero() {
		return 0
	}

	remaining := cutoff.Sub(now)
	switch {
	case remaining <= 0:
		return capDeadline
	case remaining <= 24*time.Hour:
		return capDeadline
	case remaining <= 48*time.Hour:
		return 24
	case remaining <= 72*time.Hour:
		return 18
	case remaining <= 7*24*time.Hour:
		return 10
	default:
		return 4
	}
}

func blockerFactor(blockers []BlockerInput) int {
	total := 0
	for _, b := range blockers {
		switch b.Severity {
		case SeverityCritical:
			total += 10
		case SeverityHigh:
			total += 6
		case SeverityMedium, SeverityLow:
			total += 3
		}
	}
	return clamp(total, capBlockers)
}

// insightFactor sums diminishing increments per severity band so a pile of
// similar insights cannot crowd out the other factors.
func insightFactor(insights []InsightInput) int {
	critical, high := 8, 5
	total := 0

	for _, in := range insights {
		switch in.Severity {
		case SeverityCritical:
			total += critical
			critical = diminish(critical)
		case SeverityHigh:
			total += high
			high = diminish(high)
		}

		if in.Boost > 0 {
			total += min(in.Boost, 5)
		}
	}

	return clamp(total, capInsights)
}

func notificationFactor(severity string) int {
	switch severity {
	case SeverityCritical:
		return capNotification
	case SeverityHigh:
		return 7
	case SeverityMedium:
		return 4
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

func historyFactor(lateRate float64) int {
	if lateRate <= 0 {
		return 0
	}
	if lateRate > 1 {
		lateRate = 1
	}
	return clamp(int(lateRate*float64(capHistory)), capHistory)
}

func draftFactor(drafts int) int {
	if drafts <= 0 {
		return 0
	}
	return clamp(drafts*5, capDrafts)
}

func diminish(v int) int {
	return v / 2
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
