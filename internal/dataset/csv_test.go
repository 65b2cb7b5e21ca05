package dataset

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	input := "\ufefftransaction_id, customer_id ,amount\nTXN1,CUST1,10.50\nTXN2,CUST2,\"1,000.00\"\n"

	tbl, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	wantCols := []string{"transaction_id", "customer_id", "amount"}
	for i, c := range wantCols {
		if tbl.Columns[i] != c {
			t.Errorf("Columns[%d] = %q, want %q", i, tbl.Columns[i], c)
		}
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if got := tbl.Rows[1][2]; got != "1,000.00" {
		t.Errorf("quoted cell = %q, want %q", got, "1,000.00")
	}
	if tbl.Index("customer_id") != 1 {
		t.Errorf("Index(customer_id) = %d, want 1", tbl.Index("customer_id"))
	}
	if tbl.Index("merchant_name") != -1 {
		t.Error("Index of absent column should be -1")
	}
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	if !errors.Is(err, ErrEmptyCSV) {
		t.Errorf("ReadCSV(\"\") error = %v, want ErrEmptyCSV", err)
	}
}

func TestReadCSV_RaggedRow(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2\n3\n"))
	if err == nil {
		t.Fatal("expected error for a row with the wrong field count")
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	in := Table{
		Columns: []string{"customer_id", "name"},
		Rows:    [][]string{{"CUST000001", "Doe, Jane"}, {"CUST000002", "Smith"}},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, in); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	out, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if out.Len() != 2 || out.Rows[0][1] != "Doe, Jane" {
		t.Errorf("round trip = %+v", out)
	}
}
