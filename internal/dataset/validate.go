package dataset

import (
	"errors"

	"github.com/dvloznov/card-campaign-analytics/internal/domain"
)

// ErrNoTransactions is wrapped when a transactions table has no rows.
var ErrNoTransactions = errors.New("no transactions")

// ValidateTransactions checks the records an engine is built from: the set
// is not empty, required fields are present, dates are valid calendar
// dates and amounts are strictly positive. Row numbers are 1-based
// positions in txns.
func ValidateTransactions(txns []domain.Transaction) error {
	if len(txns) == 0 {
		return &DataLoadError{Table: TransactionsTable, Reason: "dataset is empty", Err: ErrNoTransactions}
	}
	for i, tx := range txns {
		row := i + 1
		required := []struct {
			col   string
			value string
		}{
			{ColTransactionID, tx.TransactionID},
			{ColCustomerID, tx.CustomerID},
			{ColCategory, string(tx.Category)},
			{ColRegion, string(tx.Region)},
			{ColCustomerSegment, string(tx.Segment)},
		}
		for _, r := range required {
			if r.value == "" {
				return &DataLoadError{Table: TransactionsTable, Row: row, Column: r.col, Reason: "missing value"}
			}
		}
		if !tx.Date.IsValid() {
			return &DataLoadError{Table: TransactionsTable, Row: row, Column: ColTransactionDate, Reason: "invalid date " + tx.Date.String()}
		}
		if !tx.Amount.IsPositive() {
			return &DataLoadError{Table: TransactionsTable, Row: row, Column: ColAmount, Reason: "amount must be positive, got " + tx.Amount.String()}
		}
	}
	return nil
}

// ValidateCustomers checks that every customer carries an id, a region and
// a segment.
func ValidateCustomers(customers []domain.Customer) error {
	for i, c := range customers {
		row := i + 1
		switch {
		case c.CustomerID == "":
			return &DataLoadError{Table: CustomersTable, Row: row, Column: ColCustomerID, Reason: "missing value"}
		case c.Region == "":
			return &DataLoadError{Table: CustomersTable, Row: row, Column: ColRegion, Reason: "missing value"}
		case c.Segment == "":
			return &DataLoadError{Table: CustomersTable, Row: row, Column: ColCustomerSegment, Reason: "missing value"}
		}
	}
	return nil
}
