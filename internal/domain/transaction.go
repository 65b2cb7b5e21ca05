package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Transaction represents one card transaction. It is an immutable input
// record; Region and Segment are denormalized copies of the owning
// customer's attributes.
type Transaction struct {
	TransactionID string
	CustomerID    string
	Date          civil.Date
	Category      Category
	Amount        decimal.Decimal
	Region        Region
	Segment       Segment

	Merchant string // carried, unused in computation
}

// Customer is the reference record a transaction points to.
// Name, Email, MemberSince and CreditLimit are descriptive only.
type Customer struct {
	CustomerID  string
	Name        string
	Email       string
	Region      Region
	Segment     Segment
	MemberSince civil.Date
	CreditLimit decimal.Decimal
}
