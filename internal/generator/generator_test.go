package generator

import (
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/card-campaign-analytics/internal/analytics"
	"github.com/dvloznov/card-campaign-analytics/internal/domain"
)

func smallConfig(seed uint64) Config {
	cfg := DefaultConfig()
	cfg.Seed = seed
	cfg.Customers = 40
	return cfg
}

func TestGenerate_Deterministic(t *testing.T) {
	g1, err := New(smallConfig(7))
	if err != nil {
		t.Fatal(err)
	}
	g2, err := New(smallConfig(7))
	if err != nil {
		t.Fatal(err)
	}
	c1, t1 := g1.Generate()
	c2, t2 := g2.Generate()
	if !reflect.DeepEqual(c1, c2) || !reflect.DeepEqual(t1, t2) {
		t.Error("same seed produced different datasets")
	}

	g3, _ := New(smallConfig(8))
	_, t3 := g3.Generate()
	if reflect.DeepEqual(t1, t3) {
		t.Error("different seeds produced identical transactions")
	}
}

func TestGenerate_Shape(t *testing.T) {
	cfg := smallConfig(42)
	g, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	customers, txns := g.Generate()

	if len(customers) != cfg.Customers {
		t.Fatalf("got %d customers, want %d", len(customers), cfg.Customers)
	}
	if customers[0].CustomerID != "CUST000001" || customers[39].CustomerID != "CUST000040" {
		t.Errorf("customer ids = %s..%s", customers[0].CustomerID, customers[39].CustomerID)
	}
	if txns[0].TransactionID != "TXN00000001" {
		t.Errorf("first transaction id = %s", txns[0].TransactionID)
	}

	// 12 months of 2..18 transactions per customer.
	if lo, hi := cfg.Customers*12*2, cfg.Customers*12*18; len(txns) < lo || len(txns) > hi {
		t.Errorf("got %d transactions, want between %d and %d", len(txns), lo, hi)
	}

	byID := make(map[string]domain.Customer)
	for _, c := range customers {
		if c.Name == "" || !strings.Contains(c.Email, "@") {
			t.Errorf("customer %s has name %q and email %q", c.CustomerID, c.Name, c.Email)
		}
		if c.Segment.Rank() < 0 {
			t.Errorf("customer %s has unknown segment %q", c.CustomerID, c.Segment)
		}
		if !c.MemberSince.Before(cfg.Start) {
			t.Errorf("customer %s joined %s, after the range start", c.CustomerID, c.MemberSince)
		}
		byID[c.CustomerID] = c
	}
	for _, tx := range txns {
		if tx.Date.Before(cfg.Start) || tx.Date.After(cfg.End) {
			t.Fatalf("transaction %s dated %s outside range", tx.TransactionID, tx.Date)
		}
		if !tx.Amount.Equal(tx.Amount.Round(2)) || tx.Amount.InexactFloat64() < cfg.MinAmount {
			t.Fatalf("transaction %s has amount %s", tx.TransactionID, tx.Amount)
		}
		if !slices.Contains(domain.Categories, tx.Category) {
			t.Fatalf("transaction %s has unknown category %q", tx.TransactionID, tx.Category)
		}
		c := byID[tx.CustomerID]
		if tx.Region != c.Region || tx.Segment != c.Segment {
			t.Fatalf("transaction %s does not copy its customer's attributes", tx.TransactionID)
		}
		if tx.Merchant == "" {
			t.Fatalf("transaction %s has no merchant", tx.TransactionID)
		}
	}

	// The generated set must build an engine.
	if _, err := analytics.New(txns, customers, cfg.Calendar); err != nil {
		t.Fatalf("analytics.New() on generated data: %v", err)
	}
}

func TestGenerate_CampaignLift(t *testing.T) {
	cfg := smallConfig(42)
	cfg.Customers = 300
	g, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	customers, txns := g.Generate()
	e, err := analytics.New(txns, customers, cfg.Calendar)
	if err != nil {
		t.Fatal(err)
	}
	// A 40% response at 25-60% boost lifts relevant spend by roughly 17%.
	if roi := e.Overview().ROIPercentage; roi < 5 || roi > 35 {
		t.Errorf("ROIPercentage = %v, want a clear positive lift", roi)
	}
}

func TestGenerate_CompanyMerchants(t *testing.T) {
	cfg := smallConfig(3)
	cfg.Customers = 2
	cfg.Profiles = []Profile{{Category: domain.CategoryOther, Mean: 40, Std: 5, Weight: 1}}
	g, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	_, txns := g.Generate()
	if len(txns) == 0 {
		t.Fatal("no transactions generated")
	}
	for _, tx := range txns {
		if tx.Merchant == "" {
			t.Fatalf("transaction %s has no merchant", tx.TransactionID)
		}
	}
}

func TestFakerSeed(t *testing.T) {
	tests := map[uint64]uint64{0: 1, 41: 42, ^uint64(0): 1}
	for seed, want := range tests {
		if got := fakerSeed(seed); got != want {
			t.Errorf("fakerSeed(%d) = %d, want %d", seed, got, want)
		}
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := map[string]func(c *Config){
		"no customers":  func(c *Config) { c.Customers = 0 },
		"reversed":      func(c *Config) { c.End = civil.Date{Year: 2023, Month: time.January, Day: 1} },
		"no profiles":   func(c *Config) { c.Profiles = nil },
		"zero weights":  func(c *Config) { c.Profiles = []Profile{{Category: domain.CategoryGas, Mean: 10, Std: 1}} },
		"reverse boost": func(c *Config) { c.BoostMin, c.BoostMax = 2, 1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNextMonth(t *testing.T) {
	got := nextMonth(civil.Date{Year: 2024, Month: time.December, Day: 1})
	if got != (civil.Date{Year: 2025, Month: time.January, Day: 1}) {
		t.Errorf("nextMonth(2024-12-01) = %s", got)
	}
	if daysIn(civil.Date{Year: 2024, Month: time.February, Day: 1}) != 29 {
		t.Error("February 2024 should have 29 days")
	}
}
