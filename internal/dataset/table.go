package dataset

// Table names used in load errors and by every source.
const (
	TransactionsTable = "transactions"
	CustomersTable    = "customers"
)

// Transaction columns.
const (
	ColTransactionID   = "transaction_id"
	ColCustomerID      = "customer_id"
	ColTransactionDate = "transaction_date"
	ColCategory        = "category"
	ColAmount          = "amount"
	ColMerchantName    = "merchant_name"
	ColRegion          = "region"
	ColCustomerSegment = "customer_segment"
	ColInCampaign      = "in_campaign_period"
)

// Customer columns.
const (
	ColName        = "name"
	ColEmail       = "email"
	ColMemberSince = "member_since"
	ColCreditLimit = "credit_limit"
)

// RequiredTransactionColumns must be present in every transactions table.
var RequiredTransactionColumns = []string{
	ColTransactionID,
	ColCustomerID,
	ColTransactionDate,
	ColCategory,
	ColAmount,
	ColRegion,
	ColCustomerSegment,
}

// RequiredCustomerColumns must be present in every customers table.
var RequiredCustomerColumns = []string{
	ColCustomerID,
	ColRegion,
	ColCustomerSegment,
}

// Table is a header plus string cells, the common shape every source
// produces before decoding.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of col in the header, or -1.
func (t Table) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// cell returns row[i], or "" when the column is absent or the row is short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
