package dataset

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	bq "github.com/dvloznov/card-campaign-analytics/internal/bigquery"
)

func customersFixture() Table {
	return Table{
		Columns: []string{"customer_id", "name", "email", "region", "member_since", "credit_limit", "customer_segment"},
		Rows: [][]string{
			{"CUST000001", "Jane Doe", "jane@example.com", "West", "2021-04-12", "15000", "Gold"},
		},
	}
}

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFiles(dir, transactionsFixture(), customersFixture()); err != nil {
		t.Fatalf("WriteFiles() error = %v", err)
	}

	txns, customers, err := Load(context.Background(), FileSource{Dir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(txns) != 2 || len(customers) != 1 {
		t.Errorf("got %d transactions, %d customers", len(txns), len(customers))
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	_, _, err := Load(context.Background(), FileSource{Dir: t.TempDir()})
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error = %v, want *DataLoadError", err)
	}
	if loadErr.Table != TransactionsTable {
		t.Errorf("Table = %q", loadErr.Table)
	}
}

type fakeStorage struct {
	objects map[string][]byte
}

func (f *fakeStorage) UploadBytes(ctx context.Context, bucketName, objectName, contentType string, data []byte) error {
	f.objects["gs://"+bucketName+"/"+objectName] = data
	return nil
}

func (f *fakeStorage) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	data, ok := f.objects[gcsURI]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (f *fakeStorage) ExtractFilenameFromGCSURI(uri string) string {
	return uri
}

func TestGCSSource(t *testing.T) {
	storage := &fakeStorage{objects: map[string][]byte{}}
	for uri, tbl := range map[string]Table{
		"gs://bkt/transactions.csv": transactionsFixture(),
		"gs://bkt/customers.csv":    customersFixture(),
	} {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, tbl); err != nil {
			t.Fatal(err)
		}
		storage.objects[uri] = buf.Bytes()
	}

	src := GCSSource{Storage: storage, TransactionsURI: "gs://bkt/transactions.csv", CustomersURI: "gs://bkt/customers.csv"}
	txns, customers, err := Load(context.Background(), src)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(txns) != 2 || len(customers) != 1 {
		t.Errorf("got %d transactions, %d customers", len(txns), len(customers))
	}

	src.CustomersURI = "gs://bkt/missing.csv"
	if _, _, err := Load(context.Background(), src); err == nil {
		t.Error("expected error for a missing object")
	}
}

type fakeRepo struct {
	txns      []*bq.TransactionRow
	customers []*bq.CustomerRow
	err       error
}

func (f *fakeRepo) ListTransactions(ctx context.Context) ([]*bq.TransactionRow, error) {
	return f.txns, f.err
}

func (f *fakeRepo) ListCustomers(ctx context.Context) ([]*bq.CustomerRow, error) {
	return f.customers, f.err
}

func (f *fakeRepo) InsertTransactions(ctx context.Context, rows []*bq.TransactionRow) error {
	return nil
}

func (f *fakeRepo) InsertCustomers(ctx context.Context, rows []*bq.CustomerRow) error {
	return nil
}

func TestBigQuerySource(t *testing.T) {
	repo := &fakeRepo{
		txns: []*bq.TransactionRow{{
			TransactionID:   "TXN00000001",
			CustomerID:      "CUST000001",
			TransactionDate: civil.Date{Year: 2024, Month: time.March, Day: 4},
			Category:        "Dining",
			Amount:          big.NewRat(12345, 100),
			MerchantName:    bigquery.NullString{StringVal: "Starbucks", Valid: true},
			Region:          "West",
			CustomerSegment: "Gold",
		}},
		customers: []*bq.CustomerRow{{
			CustomerID:      "CUST000001",
			Region:          "West",
			CustomerSegment: "Gold",
		}},
	}

	txns, customers, err := Load(context.Background(), BigQuerySource{Repo: repo})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := txns[0].Amount.String(); got != "123.45" {
		t.Errorf("Amount = %s, want 123.45", got)
	}
	if txns[0].Merchant != "Starbucks" {
		t.Errorf("Merchant = %q", txns[0].Merchant)
	}
	if customers[0].MemberSince.IsValid() || !customers[0].CreditLimit.IsZero() {
		t.Errorf("NULL columns should decode as unset: %+v", customers[0])
	}

	repo.err = errors.New("quota exceeded")
	_, _, err = Load(context.Background(), BigQuerySource{Repo: repo})
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("error = %v, want *DataLoadError", err)
	}
}

func TestSQLText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{[]byte("45.10"), "45.10"},
		{"Gold", "Gold"},
		{time.Date(2024, time.July, 9, 0, 0, 0, 0, time.UTC), "2024-07-09"},
		{int64(15000), "15000"},
		{float64(12.5), "12.5"},
	}
	for _, tt := range tests {
		if got := sqlText(tt.in); got != tt.want {
			t.Errorf("sqlText(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
