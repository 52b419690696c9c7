package transaction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomthedeveloper11/trucking/internal/models"
)

// Number accepts a JSON number or a numeric string, since the web forms
// post input values as strings. null and "" leave it unset.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}

	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = Number{}
			return nil
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Payload is the body of every create and edit form. Customer carries the
// customer initial picked from autocomplete.
type Payload struct {
	Date             *time.Time `json:"date"`
	Details          string     `json:"details"`
	Bon              string     `json:"bon"`
	Cost             Number     `json:"cost"`
	ContainerNo      string     `json:"containerNo"`
	InvoiceNo        string     `json:"invoiceNo"`
	Destination      string     `json:"destination"`
	SellingPrice     Number     `json:"sellingPrice"`
	Customer         string     `json:"customer"`
	TruckID          string     `json:"truckId"`
	IsPrintedBon     bool       `json:"isPrintedBon"`
	IsPrintedInvoice bool       `json:"isPrintedInvoice"`
}

// toTransaction validates the payload for kind. The customer reference is
// resolved by the caller.
func (p Payload) toTransaction(kind models.TransactionType, now time.Time) (models.Transaction, error) {
	if !kind.Valid() {
		return models.Transaction{}, fmt.Errorf("%w: unknown transaction type %q", models.ErrInvalidInput, kind)
	}
	if !p.Cost.Valid {
		return models.Transaction{}, fmt.Errorf("%w: cost is required", models.ErrInvalidInput)
	}

	truckID := strings.TrimSpace(p.TruckID)
	if kind != models.TransactionTypeAdditional && truckID == "" {
		return models.Transaction{}, fmt.Errorf("%w: truckId is required", models.ErrInvalidInput)
	}

	date := now
	if p.Date != nil && !p.Date.IsZero() {
		date = *p.Date
	}

	return models.Transaction{
		Date:             date,
		Details:          strings.TrimSpace(p.Details),
		Bon:              strings.TrimSpace(p.Bon),
		Cost:             p.Cost.Value,
		TransactionType:  kind,
		ContainerNo:      strings.TrimSpace(p.ContainerNo),
		InvoiceNo:        strings.TrimSpace(p.InvoiceNo),
		Destination:      strings.TrimSpace(p.Destination),
		SellingPrice:     p.SellingPrice.Value,
		TruckID:          truckID,
		IsPrintedBon:     p.IsPrintedBon,
		IsPrintedInvoice: p.IsPrintedInvoice,
	}, nil
}
