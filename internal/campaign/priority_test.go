package campaign

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		uplift string
		want   Priority
	}{
		{"21", PriorityHigh},
		{"20.01", PriorityHigh},
		{"20", PriorityMedium},
		{"15", PriorityMedium},
		{"10", PriorityLow},
		{"5", PriorityLow},
		{"-12.5", PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.uplift, func(t *testing.T) {
			if got := PriorityFor(decimal.RequireFromString(tt.uplift)); got != tt.want {
				t.Errorf("PriorityFor(%s) = %s, want %s", tt.uplift, got, tt.want)
			}
		})
	}
}

func TestPriority_Label(t *testing.T) {
	if got := PriorityMedium.Label(); got != "Medium Priority" {
		t.Errorf("Label() = %q, want %q", got, "Medium Priority")
	}
}
