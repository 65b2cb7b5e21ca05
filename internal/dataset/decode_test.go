package dataset

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	"github.com/dvloznov/card-campaign-analytics/internal/domain"
	"github.com/shopspring/decimal"
)

func transactionsFixture() Table {
	return Table{
		Columns: []string{"transaction_id", "customer_id", "transaction_date", "category", "amount", "merchant_name", "region", "customer_segment", "in_campaign_period"},
		Rows: [][]string{
			{"TXN00000001", "CUST000001", "2024-02-10", "Dining", "100.00", "Starbucks", "West", "Gold", "False"},
			{"TXN00000002", "CUST000001", "2024-08-03", "Travel", "452.17", "Hilton", "West", "Gold", "True"},
		},
	}
}

func TestDecodeTransactions(t *testing.T) {
	txns, err := DecodeTransactions(transactionsFixture())
	if err != nil {
		t.Fatalf("DecodeTransactions() error = %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txns))
	}
	got := txns[1]
	if got.Date != (civil.Date{Year: 2024, Month: time.August, Day: 3}) {
		t.Errorf("Date = %s", got.Date)
	}
	if !got.Amount.Equal(decimal.RequireFromString("452.17")) {
		t.Errorf("Amount = %s", got.Amount)
	}
	if got.Category != domain.CategoryTravel || got.Segment != domain.SegmentGold || got.Region != domain.RegionWest {
		t.Errorf("unexpected enums: %+v", got)
	}
	if got.Merchant != "Hilton" {
		t.Errorf("Merchant = %q", got.Merchant)
	}
}

func TestDecodeTransactions_Errors(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(t *Table)
		wantRow    int
		wantColumn string
	}{
		{
			name: "missing column",
			mutate: func(t *Table) {
				t.Columns[4] = "value"
			},
			wantRow:    0,
			wantColumn: "amount",
		},
		{
			name: "bad date",
			mutate: func(t *Table) {
				t.Rows[1][2] = "2024-02-30"
			},
			wantRow:    2,
			wantColumn: "transaction_date",
		},
		{
			name: "bad amount",
			mutate: func(t *Table) {
				t.Rows[0][4] = "12,50"
			},
			wantRow:    1,
			wantColumn: "amount",
		},
		{
			name: "empty amount",
			mutate: func(t *Table) {
				t.Rows[0][4] = ""
			},
			wantRow:    1,
			wantColumn: "amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := transactionsFixture()
			tt.mutate(&tbl)
			_, err := DecodeTransactions(tbl)
			var loadErr *DataLoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("error = %v, want *DataLoadError", err)
			}
			if loadErr.Row != tt.wantRow || loadErr.Column != tt.wantColumn {
				t.Errorf("got row %d column %q, want row %d column %q", loadErr.Row, loadErr.Column, tt.wantRow, tt.wantColumn)
			}
			if loadErr.Table != TransactionsTable {
				t.Errorf("Table = %q", loadErr.Table)
			}
		})
	}
}

func TestDecodeTransactions_TimestampDate(t *testing.T) {
	tbl := transactionsFixture()
	tbl.Rows[0][2] = "2024-02-10T00:00:00Z"
	txns, err := DecodeTransactions(tbl)
	if err != nil {
		t.Fatalf("DecodeTransactions() error = %v", err)
	}
	if txns[0].Date.String() != "2024-02-10" {
		t.Errorf("Date = %s", txns[0].Date)
	}
}

func TestDecodeCustomers(t *testing.T) {
	tbl := Table{
		Columns: []string{"customer_id", "name", "email", "region", "member_since", "credit_limit", "customer_segment"},
		Rows: [][]string{
			{"CUST000001", "Jane Doe", "jane@example.com", "West", "2021-04-12", "15000", "Gold"},
			{"CUST000002", "", "", "Midwest", "", "", "Bronze"},
		},
	}
	customers, err := DecodeCustomers(tbl)
	if err != nil {
		t.Fatalf("DecodeCustomers() error = %v", err)
	}
	if customers[0].MemberSince.String() != "2021-04-12" || !customers[0].CreditLimit.Equal(decimal.NewFromInt(15000)) {
		t.Errorf("customer 0 = %+v", customers[0])
	}
	if customers[1].MemberSince.IsValid() {
		t.Error("empty member_since should stay unset")
	}

	tbl.Rows[1][5] = "lots"
	_, err = DecodeCustomers(tbl)
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) || loadErr.Column != ColCreditLimit || loadErr.Row != 2 {
		t.Errorf("error = %v, want credit_limit DataLoadError on row 2", err)
	}
}

func TestDecodeCustomers_MissingSegment(t *testing.T) {
	_, err := DecodeCustomers(Table{Columns: []string{"customer_id", "region"}})
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) || loadErr.Column != ColCustomerSegment {
		t.Errorf("error = %v, want missing customer_segment", err)
	}
}

func TestTransactionsToTable_RoundTrip(t *testing.T) {
	txns, err := DecodeTransactions(transactionsFixture())
	if err != nil {
		t.Fatal(err)
	}
	tbl := TransactionsToTable(txns, campaign.Default().Campaign)
	if got := tbl.Rows[0][tbl.Index(ColInCampaign)]; got != "False" {
		t.Errorf("February row flagged %q", got)
	}
	if got := tbl.Rows[1][tbl.Index(ColInCampaign)]; got != "True" {
		t.Errorf("August row flagged %q", got)
	}
	if got := tbl.Rows[0][tbl.Index(ColAmount)]; got != "100.00" {
		t.Errorf("amount = %q, want 100.00", got)
	}

	again, err := DecodeTransactions(tbl)
	if err != nil {
		t.Fatal(err)
	}
	for i := range txns {
		if again[i].TransactionID != txns[i].TransactionID || !again[i].Amount.Equal(txns[i].Amount) || again[i].Date != txns[i].Date {
			t.Errorf("row %d changed: %+v vs %+v", i, again[i], txns[i])
		}
	}
}

func TestValidateTransactions(t *testing.T) {
	base := func() []domain.Transaction {
		txns, _ := DecodeTransactions(transactionsFixture())
		return txns
	}

	if err := ValidateTransactions(base()); err != nil {
		t.Fatalf("valid fixture rejected: %v", err)
	}

	tests := []struct {
		name       string
		txns       func() []domain.Transaction
		wantColumn string
	}{
		{"empty", func() []domain.Transaction { return nil }, ""},
		{"zero amount", func() []domain.Transaction {
			txns := base()
			txns[1].Amount = decimal.Zero
			return txns
		}, ColAmount},
		{"negative amount", func() []domain.Transaction {
			txns := base()
			txns[0].Amount = decimal.NewFromInt(-3)
			return txns
		}, ColAmount},
		{"missing segment", func() []domain.Transaction {
			txns := base()
			txns[0].Segment = ""
			return txns
		}, ColCustomerSegment},
		{"unset date", func() []domain.Transaction {
			txns := base()
			txns[1].Date = civil.Date{}
			return txns
		}, ColTransactionDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransactions(tt.txns())
			var loadErr *DataLoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("error = %v, want *DataLoadError", err)
			}
			if loadErr.Column != tt.wantColumn {
				t.Errorf("Column = %q, want %q", loadErr.Column, tt.wantColumn)
			}
		})
	}
}

func TestValidateTransactions_EmptyWrapsSentinel(t *testing.T) {
	if err := ValidateTransactions(nil); !errors.Is(err, ErrNoTransactions) {
		t.Errorf("error = %v, want ErrNoTransactions", err)
	}
}

func TestDataLoadError_Message(t *testing.T) {
	err := &DataLoadError{Table: "transactions", Row: 3, Column: "amount", Reason: "invalid amount", Err: errors.New("bad digit")}
	want := "load transactions: row 3: column amount: invalid amount: bad digit"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
