package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tomthedeveloper11/trucking/internal/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is implemented by Repository.
type Store interface {
	NextSequence(ctx context.Context, year int) (int64, error)
	Insert(ctx context.Context, inv models.Invoice) (models.Invoice, error)
	List(ctx context.Context, rng models.DateRange) ([]models.Invoice, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Invoice, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Invoice, error)
}

// Transactions is implemented by transaction.Repository.
type Transactions interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Transaction, error)
	SetFields(ctx context.Context, ids []primitive.ObjectID, fields bson.M) (int64, error)
}

type CreateRequest struct {
	TransactionIDs []string   `json:"transactionIds"`
	Date           *time.Time `json:"date"`
	InvoiceNo      string     `json:"invoiceNo"` // generated when empty
}

type Service struct {
	store Store
	txs   Transactions
	now   func() time.Time
}

func NewService(store Store, txs Transactions) *Service {
	return &Service{store: store, txs: txs, now: time.Now}
}

// FormatNumber renders the invoice number for the seq-th invoice of year.
func FormatNumber(year int, seq int64) string {
	return fmt.Sprintf("INV/%d/%04d", year, seq)
}

// Create bills a set of truck transactions of one customer. The
// transactions get the invoice number and are marked as printed.
func (s *Service) Create(ctx context.Context, req CreateRequest) (models.Invoice, error) {
	ids, err := uniqueIDs(req.TransactionIDs)
	if err != nil {
		return models.Invoice{}, err
	}

	txs, err := s.txs.FindByIDs(ctx, ids)
	if err != nil {
		return models.Invoice{}, err
	}
	if err := checkBillable(ids, txs); err != nil {
		return models.Invoice{}, err
	}

	date := s.now()
	if req.Date != nil && !req.Date.IsZero() {
		date = *req.Date
	}

	no := strings.TrimSpace(req.InvoiceNo)
	if no == "" {
		seq, err := s.store.NextSequence(ctx, date.Year())
		if err != nil {
			return models.Invoice{}, err
		}
		no = FormatNumber(date.Year(), seq)
	}

	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(decimal.NewFromFloat(t.SellingPrice))
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.Hex()
	}

	inv, err := s.store.Insert(ctx, models.Invoice{
		InvoiceNo:      no,
		Date:           date,
		Customer:       *txs[0].Customer,
		TransactionIDs: idStrings,
		Total:          total.InexactFloat64(),
		CreatedAt:      s.now(),
	})
	if err != nil {
		return models.Invoice{}, err
	}

	if _, err := s.txs.SetFields(ctx, ids, bson.M{"invoiceNo": no, "isPrintedInvoice": true}); err != nil {
		s.rollback(ctx, inv, ids)
		return models.Invoice{}, fmt.Errorf("mark transactions of %s: %w", no, err)
	}

	slog.InfoContext(ctx, "invoice created", "invoice_no", no, "customer", inv.Customer.Initial, "transactions", len(ids))
	return inv, nil
}

// rollback removes an invoice whose transactions could not be marked and
// releases any that were. Failures are logged; the caller already fails.
func (s *Service) rollback(ctx context.Context, inv models.Invoice, ids []primitive.ObjectID) {
	if _, err := s.store.Delete(ctx, inv.ID); err != nil {
		slog.ErrorContext(ctx, "invoice rollback failed", "invoice_no", inv.InvoiceNo, "error", err)
	}
	if _, err := s.txs.SetFields(ctx, ids, bson.M{"invoiceNo": "", "isPrintedInvoice": false}); err != nil {
		slog.ErrorContext(ctx, "invoice rollback: release transactions failed", "invoice_no", inv.InvoiceNo, "error", err)
	}
}

func (s *Service) List(ctx context.Context, rng models.DateRange) ([]models.Invoice, error) {
	return s.store.List(ctx, rng)
}

func (s *Service) Get(ctx context.Context, id string) (models.Invoice, error) {
	oid, err := models.ParseObjectID(id)
	if err != nil {
		return models.Invoice{}, err
	}
	return s.store.Get(ctx, oid)
}

// Delete removes the invoice and releases its transactions so they can be
// billed again.
func (s *Service) Delete(ctx context.Context, id string) (models.Invoice, error) {
	oid, err := models.ParseObjectID(id)
	if err != nil {
		return models.Invoice{}, err
	}

	inv, err := s.store.Delete(ctx, oid)
	if err != nil {
		return models.Invoice{}, err
	}

	ids, err := models.ParseObjectIDs(inv.TransactionIDs)
	if err != nil {
		return models.Invoice{}, err
	}
	if len(ids) > 0 {
		if _, err := s.txs.SetFields(ctx, ids, bson.M{"invoiceNo": "", "isPrintedInvoice": false}); err != nil {
			return models.Invoice{}, fmt.Errorf("release transactions of %s: %w", inv.InvoiceNo, err)
		}
	}
	return inv, nil
}

func uniqueIDs(raw []string) ([]primitive.ObjectID, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: transactionIds must not be empty", models.ErrInvalidInput)
	}
	parsed, err := models.ParseObjectIDs(raw)
	if err != nil {
		return nil, err
	}

	seen := make(map[primitive.ObjectID]bool, len(parsed))
	out := make([]primitive.ObjectID, 0, len(parsed))
	for _, id := range parsed {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

// checkBillable requires every id to be an uninvoiced truck transaction
// and all of them to share one customer.
func checkBillable(ids []primitive.ObjectID, txs []models.Transaction) error {
	found := make(map[primitive.ObjectID]models.Transaction, len(txs))
	for _, t := range txs {
		found[t.ID] = t
	}

	var initial string
	for _, id := range ids {
		t, ok := found[id]
		if !ok {
			return fmt.Errorf("transaction %s: %w", id.Hex(), models.ErrNotFound)
		}
		if t.TransactionType != models.TransactionTypeTruck {
			return fmt.Errorf("%w: transaction %s is not a truck transaction", models.ErrInvalidInput, id.Hex())
		}
		if t.CustomerInitial() == "" {
			return fmt.Errorf("%w: transaction %s has no customer", models.ErrInvalidInput, id.Hex())
		}
		if t.InvoiceNo != "" {
			return fmt.Errorf("%w: transaction %s is already on invoice %s", models.ErrConflict, id.Hex(), t.InvoiceNo)
		}

		if initial == "" {
			initial = models.NormalizeInitial(t.CustomerInitial())
		} else if models.NormalizeInitial(t.CustomerInitial()) != initial {
			return fmt.Errorf("%w: transactions belong to different customers (%s, %s)", models.ErrInvalidInput, initial, t.CustomerInitial())
		}
	}
	return nil
}
