package dataset

import (
	"context"

	bq "github.com/dvloznov/card-campaign-analytics/internal/bigquery"
)

// BigQuerySource reads the warehouse tables through a repository.
type BigQuerySource struct {
	Repo bq.DatasetRepository
}

func (s BigQuerySource) Name() string {
	return "bigquery"
}

func (s BigQuerySource) Transactions(ctx context.Context) (Table, error) {
	rows, err := s.Repo.ListTransactions(ctx)
	if err != nil {
		return Table{}, &DataLoadError{Table: TransactionsTable, Reason: "query", Err: err}
	}
	t := Table{Columns: []string{
		ColTransactionID, ColCustomerID, ColTransactionDate, ColCategory, ColAmount,
		ColMerchantName, ColRegion, ColCustomerSegment,
	}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.TransactionID,
			r.CustomerID,
			r.TransactionDate.String(),
			r.Category,
			bq.FormatNumeric(r.Amount),
			r.MerchantName.StringVal,
			r.Region,
			r.CustomerSegment,
		})
	}
	return t, nil
}

func (s BigQuerySource) Customers(ctx context.Context) (Table, error) {
	rows, err := s.Repo.ListCustomers(ctx)
	if err != nil {
		return Table{}, &DataLoadError{Table: CustomersTable, Reason: "query", Err: err}
	}
	t := Table{Columns: []string{
		ColCustomerID, ColName, ColEmail, ColRegion, ColMemberSince, ColCreditLimit, ColCustomerSegment,
	}}
	for _, r := range rows {
		since := ""
		if r.MemberSince.Valid {
			since = r.MemberSince.Date.String()
		}
		t.Rows = append(t.Rows, []string{
			r.CustomerID,
			r.Name.StringVal,
			r.Email.StringVal,
			r.Region,
			since,
			bq.FormatNumeric(r.CreditLimit),
			r.CustomerSegment,
		})
	}
	return t, nil
}
