package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	InvoiceCollection = "invoices"
	CounterCollection = "counters"
)

type Invoice struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InvoiceNo      string             `bson:"invoiceNo" json:"invoiceNo"`
	Date           time.Time          `bson:"date" json:"date"`
	Customer       CustomerRef        `bson:"customer" json:"customer"`
	TransactionIDs []string           `bson:"transactionIds" json:"transactionIds"`
	Total          float64            `bson:"total" json:"total"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// MaskInvoices zeroes invoice totals for roles that may not see selling
// prices. The slice is modified in place and returned.
func MaskInvoices(role UserRole, invs []Invoice) []Invoice {
	if role.CanSeeMargins() {
		return invs
	}
	for i := range invs {
		invs[i].Total = 0
	}
	return invs
}

func (i Invoice) MaskedFor(role UserRole) Invoice {
	return MaskInvoices(role, []Invoice{i})[0]
}
