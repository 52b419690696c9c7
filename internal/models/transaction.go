package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const TransactionCollection = "transactions"

type TransactionType string

const (
	TransactionTypeTruck           TransactionType = "TRUCK_TRANSACTION"
	TransactionTypeAdditional      TransactionType = "ADDITIONAL_TRANSACTION"
	TransactionTypeTruckAdditional TransactionType = "TRUCK_ADDITIONAL_TRANSACTION"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeTruck, TransactionTypeAdditional, TransactionTypeTruckAdditional:
		return true
	}
	return false
}

// CustomerRef is the customer as embedded in a transaction. There is no
// foreign key behind CustomerID; Initial is what the UI shows.
type CustomerRef struct {
	CustomerID string `bson:"customerId,omitempty" json:"customerId,omitempty"`
	Initial    string `bson:"initial,omitempty" json:"initial,omitempty"`
}

// Transaction is one document of the polymorphic transactions collection,
// discriminated by TransactionType.
type Transaction struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date             time.Time          `bson:"date" json:"date"`
	Details          string             `bson:"details,omitempty" json:"details,omitempty"`
	Bon              string             `bson:"bon,omitempty" json:"bon,omitempty"`
	Cost             float64            `bson:"cost" json:"cost"`
	TransactionType  TransactionType    `bson:"transactionType" json:"transactionType"`
	ContainerNo      string             `bson:"containerNo,omitempty" json:"containerNo,omitempty"`
	InvoiceNo        string             `bson:"invoiceNo,omitempty" json:"invoiceNo,omitempty"`
	Destination      string             `bson:"destination,omitempty" json:"destination,omitempty"`
	SellingPrice     float64            `bson:"sellingPrice,omitempty" json:"sellingPrice,omitempty"`
	Customer         *CustomerRef       `bson:"customer,omitempty" json:"customer,omitempty"`
	TruckID          string             `bson:"truckId,omitempty" json:"truckId,omitempty"`
	IsPrintedBon     bool               `bson:"isPrintedBon" json:"isPrintedBon"`
	IsPrintedInvoice bool               `bson:"isPrintedInvoice" json:"isPrintedInvoice"`
}

// TruckTransaction is the flat view returned to the UI: the embedded
// customer is collapsed into its initial.
type TruckTransaction struct {
	ID               string          `json:"id"`
	Date             time.Time       `json:"date"`
	Details          string          `json:"details,omitempty"`
	Bon              string          `json:"bon,omitempty"`
	Cost             float64         `json:"cost"`
	TransactionType  TransactionType `json:"transactionType"`
	ContainerNo      string          `json:"containerNo,omitempty"`
	InvoiceNo        string          `json:"invoiceNo,omitempty"`
	Destination      string          `json:"destination,omitempty"`
	SellingPrice     float64         `json:"sellingPrice"`
	Customer         string          `json:"customer"`
	TruckID          string          `json:"truckId,omitempty"`
	IsPrintedBon     bool            `json:"isPrintedBon"`
	IsPrintedInvoice bool            `json:"isPrintedInvoice"`
}

func (t Transaction) CustomerInitial() string {
	if t.Customer == nil {
		return ""
	}
	return t.Customer.Initial
}

func (t Transaction) TruckView() TruckTransaction {
	return TruckTransaction{
		ID:               t.ID.Hex(),
		Date:             t.Date,
		Details:          t.Details,
		Bon:              t.Bon,
		Cost:             t.Cost,
		TransactionType:  t.TransactionType,
		ContainerNo:      t.ContainerNo,
		InvoiceNo:        t.InvoiceNo,
		Destination:      t.Destination,
		SellingPrice:     t.SellingPrice,
		Customer:         t.CustomerInitial(),
		TruckID:          t.TruckID,
		IsPrintedBon:     t.IsPrintedBon,
		IsPrintedInvoice: t.IsPrintedInvoice,
	}
}

func TruckViews(txs []Transaction) []TruckTransaction {
	out := make([]TruckTransaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.TruckView())
	}
	return out
}

// MaskTransactions zeroes selling prices for roles that may not see them.
// The slice is modified in place and returned.
func MaskTransactions(role UserRole, txs []Transaction) []Transaction {
	if role.CanSeeMargins() {
		return txs
	}
	for i := range txs {
		txs[i].SellingPrice = 0
	}
	return txs
}

func MaskTruckViews(role UserRole, views []TruckTransaction) []TruckTransaction {
	if role.CanSeeMargins() {
		return views
	}
	for i := range views {
		views[i].SellingPrice = 0
	}
	return views
}

func (t Transaction) MaskedFor(role UserRole) Transaction {
	return MaskTransactions(role, []Transaction{t})[0]
}

func (v TruckTransaction) MaskedFor(role UserRole) TruckTransaction {
	return MaskTruckViews(role, []TruckTransaction{v})[0]
}
