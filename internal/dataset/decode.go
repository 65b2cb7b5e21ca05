package dataset

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	"github.com/dvloznov/card-campaign-analytics/internal/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used in every table.
const DateLayout = "2006-01-02"

// DecodeTransactions turns a transactions table into domain records. It
// fails on the first missing required column or unparseable cell; semantic
// checks such as positive amounts are left to ValidateTransactions.
func DecodeTransactions(t Table) ([]domain.Transaction, error) {
	if err := requireColumns(TransactionsTable, t, RequiredTransactionColumns); err != nil {
		return nil, err
	}
	var (
		idIdx       = t.Index(ColTransactionID)
		customerIdx = t.Index(ColCustomerID)
		dateIdx     = t.Index(ColTransactionDate)
		categoryIdx = t.Index(ColCategory)
		amountIdx   = t.Index(ColAmount)
		regionIdx   = t.Index(ColRegion)
		segmentIdx  = t.Index(ColCustomerSegment)
		merchantIdx = t.Index(ColMerchantName)
	)

	txns := make([]domain.Transaction, 0, len(t.Rows))
	for i, row := range t.Rows {
		rowNum := i + 1

		date, err := parseDate(cell(row, dateIdx))
		if err != nil {
			return nil, &DataLoadError{Table: TransactionsTable, Row: rowNum, Column: ColTransactionDate, Reason: "invalid date", Err: err}
		}
		amount, err := parseDecimal(cell(row, amountIdx))
		if err != nil {
			return nil, &DataLoadError{Table: TransactionsTable, Row: rowNum, Column: ColAmount, Reason: "invalid amount", Err: err}
		}

		txns = append(txns, domain.Transaction{
			TransactionID: strings.TrimSpace(cell(row, idIdx)),
			CustomerID:    strings.TrimSpace(cell(row, customerIdx)),
			Date:          date,
			Category:      domain.Category(strings.TrimSpace(cell(row, categoryIdx))),
			Amount:        amount,
			Region:        domain.Region(strings.TrimSpace(cell(row, regionIdx))),
			Segment:       domain.Segment(strings.TrimSpace(cell(row, segmentIdx))),
			Merchant:      strings.TrimSpace(cell(row, merchantIdx)),
		})
	}
	return txns, nil
}

// DecodeCustomers turns a customers table into domain records. Descriptive
// columns are optional; when present and non-empty they must parse.
func DecodeCustomers(t Table) ([]domain.Customer, error) {
	if err := requireColumns(CustomersTable, t, RequiredCustomerColumns); err != nil {
		return nil, err
	}
	var (
		idIdx     = t.Index(ColCustomerID)
		nameIdx   = t.Index(ColName)
		emailIdx  = t.Index(ColEmail)
		regionIdx = t.Index(ColRegion)
		segIdx    = t.Index(ColCustomerSegment)
		sinceIdx  = t.Index(ColMemberSince)
		limitIdx  = t.Index(ColCreditLimit)
	)

	customers := make([]domain.Customer, 0, len(t.Rows))
	for i, row := range t.Rows {
		rowNum := i + 1
		c := domain.Customer{
			CustomerID: strings.TrimSpace(cell(row, idIdx)),
			Name:       strings.TrimSpace(cell(row, nameIdx)),
			Email:      strings.TrimSpace(cell(row, emailIdx)),
			Region:     domain.Region(strings.TrimSpace(cell(row, regionIdx))),
			Segment:    domain.Segment(strings.TrimSpace(cell(row, segIdx))),
		}
		if v := strings.TrimSpace(cell(row, sinceIdx)); v != "" {
			d, err := parseDate(v)
			if err != nil {
				return nil, &DataLoadError{Table: CustomersTable, Row: rowNum, Column: ColMemberSince, Reason: "invalid date", Err: err}
			}
			c.MemberSince = d
		}
		if v := strings.TrimSpace(cell(row, limitIdx)); v != "" {
			limit, err := parseDecimal(v)
			if err != nil {
				return nil, &DataLoadError{Table: CustomersTable, Row: rowNum, Column: ColCreditLimit, Reason: "invalid credit limit", Err: err}
			}
			c.CreditLimit = limit
		}
		customers = append(customers, c)
	}
	return customers, nil
}

// TransactionsToTable encodes records back into the CSV column layout,
// flagging the rows that fall inside the campaign window.
func TransactionsToTable(txns []domain.Transaction, campaignWindow campaign.Window) Table {
	t := Table{Columns: []string{
		ColTransactionID, ColCustomerID, ColTransactionDate, ColCategory, ColAmount,
		ColMerchantName, ColRegion, ColCustomerSegment, ColInCampaign,
	}}
	for _, tx := range txns {
		inCampaign := "False"
		if campaignWindow.Contains(tx.Date) {
			inCampaign = "True"
		}
		t.Rows = append(t.Rows, []string{
			tx.TransactionID,
			tx.CustomerID,
			tx.Date.String(),
			string(tx.Category),
			tx.Amount.StringFixed(2),
			tx.Merchant,
			string(tx.Region),
			string(tx.Segment),
			inCampaign,
		})
	}
	return t
}

// CustomersToTable encodes customers into the CSV column layout.
func CustomersToTable(customers []domain.Customer) Table {
	t := Table{Columns: []string{
		ColCustomerID, ColName, ColEmail, ColRegion, ColMemberSince, ColCreditLimit, ColCustomerSegment,
	}}
	for _, c := range customers {
		since := ""
		if c.MemberSince.IsValid() {
			since = c.MemberSince.String()
		}
		t.Rows = append(t.Rows, []string{
			c.CustomerID,
			c.Name,
			c.Email,
			string(c.Region),
			since,
			c.CreditLimit.String(),
			string(c.Segment),
		})
	}
	return t
}

func requireColumns(table string, t Table, cols []string) error {
	for _, col := range cols {
		if t.Index(col) < 0 {
			return &DataLoadError{Table: table, Column: col, Reason: "missing required column"}
		}
	}
	return nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp, keeping only
// the date part of the latter.
func parseDate(v string) (civil.Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return civil.Date{}, fmt.Errorf("empty value")
	}
	d, err := civil.ParseDate(v)
	if err == nil {
		return d, nil
	}
	if ts, tsErr := time.Parse(time.RFC3339, v); tsErr == nil {
		return civil.DateOf(ts), nil
	}
	return civil.Date{}, err
}

func parseDecimal(v string) (decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Decimal{}, fmt.Errorf("empty value")
	}
	return decimal.NewFromString(v)
}
