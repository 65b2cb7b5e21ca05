package campaign

import "github.com/shopspring/decimal"

// Priority ranks a segment for future campaigns.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Thresholds are exclusive: an uplift of exactly 20 is Medium.
var (
	HighPriorityThreshold   = decimal.NewFromInt(20)
	MediumPriorityThreshold = decimal.NewFromInt(10)
)

// PriorityFor maps an uplift percentage to a priority.
func PriorityFor(uplift decimal.Decimal) Priority {
	switch {
	case uplift.GreaterThan(HighPriorityThreshold):
		return PriorityHigh
	case uplift.GreaterThan(MediumPriorityThreshold):
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Label is the human readable recommendation, e.g. "High Priority".
func (p Priority) Label() string {
	return string(p) + " Priority"
}
