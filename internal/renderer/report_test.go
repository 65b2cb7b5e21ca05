package renderer

import (
	"fmt"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/card-campaign-analytics/internal/analytics"
	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	"github.com/dvloznov/card-campaign-analytics/internal/domain"
	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{80, "$80.00"},
		{1234.56, "$1,234.56"},
		{0.005, "$0.01"},
		{-50.5, "-$50.50"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatMoney(tt.in); got != tt.want {
				t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatSignedPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{80, "+80.00%"},
		{0, "0.00%"},
		{-12.5, "-12.50%"},
	}
	for _, tt := range tests {
		if got := FormatSignedPercent(tt.in); got != tt.want {
			t.Errorf("FormatSignedPercent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func testEngine(t *testing.T) *analytics.Engine {
	t.Helper()
	var txns []domain.Transaction
	for i, row := range [][2]string{{"2024-02-05", "100"}, {"2024-02-20", "100"}, {"2024-08-14", "180"}} {
		date, err := civil.ParseDate(row[0])
		if err != nil {
			t.Fatal(err)
		}
		txns = append(txns, domain.Transaction{
			TransactionID: fmt.Sprintf("T%d", i+1),
			CustomerID:    "C1",
			Date:          date,
			Category:      domain.CategoryDining,
			Amount:        decimal.RequireFromString(row[1]),
			Region:        domain.RegionWest,
			Segment:       domain.SegmentGold,
		})
	}
	customers := []domain.Customer{{CustomerID: "C1", Name: "Jane Doe", Region: domain.RegionWest, Segment: domain.SegmentGold}}
	e, err := analytics.New(txns, customers, campaign.Default())
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestReportMarkdown(t *testing.T) {
	out := ReportMarkdown(testEngine(t), 0)

	for _, want := range []string{
		"# Campaign Performance Report",
		"## Overview",
		"## Recommendations",
		"$380.00",
		"+80.00%",
		"Gold: +80.00% uplift, High Priority",
		"Jane Doe",
		"2024-07-01..2024-09-30",
		"2024-10-01..2024-12-31",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("# Overview\n\nplain text", "notty")
	if err != nil {
		t.Fatalf("Terminal() error = %v", err)
	}
	if !strings.Contains(out, "Overview") {
		t.Errorf("rendered output missing heading: %q", out)
	}
}
