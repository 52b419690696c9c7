package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tomthedeveloper11/trucking/internal/audit"
	"github.com/tomthedeveloper11/trucking/internal/autocomplete"
	"github.com/tomthedeveloper11/trucking/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EntityType = "transaction"

	autoCompleteKey = "autocomplete:truck-transaction"
)

// Store is implemented by Repository.
type Store interface {
	TruckTransactions(ctx context.Context) ([]models.Transaction, error)
	AllTransactions(ctx context.Context, rng models.DateRange) ([]models.Transaction, error)
	AdditionalTransactions(ctx context.Context, rng models.DateRange) ([]models.Transaction, error)
	TruckTransactionsByCustomerID(ctx context.Context, customerID string, rng models.DateRange) ([]models.Transaction, error)
	TruckTransactionsByTruckID(ctx context.Context, truckID string, rng models.DateRange) ([]models.Transaction, error)
	TruckAdditionalTransactionsByTruckID(ctx context.Context, truckID string, rng models.DateRange) ([]models.Transaction, error)
	Filter(ctx context.Context, q FilterQuery) ([]models.Transaction, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Transaction, error)
	Insert(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	Replace(ctx context.Context, id primitive.ObjectID, kind models.TransactionType, tx models.Transaction) (models.Transaction, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Transaction, error)
	SetFields(ctx context.Context, ids []primitive.ObjectID, fields bson.M) (int64, error)
	DistinctDestinations(ctx context.Context) ([]string, error)
}

// CustomerDirectory resolves the customer initials typed into the forms.
type CustomerDirectory interface {
	FindByInitial(ctx context.Context, initial string) (models.Customer, error)
	Initials(ctx context.Context) ([]string, error)
}

type Auditor interface {
	WriteLog(ctx context.Context, opts audit.LogOptions) error
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) bool
	SetJSON(ctx context.Context, key string, v any)
	Delete(ctx context.Context, keys ...string)
}

type Service struct {
	store     Store
	customers CustomerDirectory
	auditor   Auditor
	cache     Cache
	now       func() time.Time
}

func NewService(store Store, customers CustomerDirectory, auditor Auditor, cache Cache) *Service {
	return &Service{
		store:     store,
		customers: customers,
		auditor:   auditor,
		cache:     cache,
		now:       time.Now,
	}
}

func (s *Service) TruckTransactions(ctx context.Context) ([]models.TruckTransaction, error) {
	txs, err := s.store.TruckTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return models.TruckViews(txs), nil
}

func (s *Service) AllTransactions(ctx context.Context, rng models.DateRange) ([]models.Transaction, error) {
	return s.store.AllTransactions(ctx, rng)
}

func (s *Service) AdditionalTransactions(ctx context.Context, rng models.DateRange) ([]models.Transaction, error) {
	return s.store.AdditionalTransactions(ctx, rng)
}

func (s *Service) TruckTransactionsByCustomerID(ctx context.Context, customerID string, rng models.DateRange) ([]models.TruckTransaction, error) {
	txs, err := s.store.TruckTransactionsByCustomerID(ctx, customerID, rng)
	if err != nil {
		return nil, err
	}
	return models.TruckViews(txs), nil
}

func (s *Service) TruckTransactionsByTruckID(ctx context.Context, truckID string, rng models.DateRange) ([]models.TruckTransaction, error) {
	txs, err := s.store.TruckTransactionsByTruckID(ctx, truckID, rng)
	if err != nil {
		return nil, err
	}
	return models.TruckViews(txs), nil
}

func (s *Service) TruckAdditionalTransactionsByTruckID(ctx context.Context, truckID string, rng models.DateRange) ([]models.TruckTransaction, error) {
	txs, err := s.store.TruckAdditionalTransactionsByTruckID(ctx, truckID, rng)
	if err != nil {
		return nil, err
	}
	return models.TruckViews(txs), nil
}

func (s *Service) FilterTruckTransactions(ctx context.Context, q FilterQuery) ([]models.TruckTransaction, error) {
	txs, err := s.store.Filter(ctx, q)
	if err != nil {
		return nil, err
	}
	return models.TruckViews(txs), nil
}

// Create stores a new transaction of the given kind.
func (s *Service) Create(ctx context.Context, actor models.Actor, kind models.TransactionType, p Payload) (models.Transaction, error) {
	tx, err := s.build(ctx, kind, p)
	if err != nil {
		return models.Transaction{}, err
	}

	created, err := s.store.Insert(ctx, tx)
	if err != nil {
		return models.Transaction{}, err
	}

	s.writeAudit(ctx, audit.LogOptions{
		Actor:       actor,
		EntityType:  EntityType,
		EntityID:    created.ID.Hex(),
		Action:      models.AuditActionCreate,
		Description: describe("created", created),
		After:       created,
	})
	s.InvalidateAutoComplete(ctx)
	return created, nil
}

// Edit replaces the transaction with id as a whole. Only a transaction of
// the same kind is touched.
func (s *Service) Edit(ctx context.Context, actor models.Actor, kind models.TransactionType, id string, p Payload) (models.Transaction, error) {
	oid, err := models.ParseObjectID(id)
	if err != nil {
		return models.Transaction{}, err
	}

	tx, err := s.build(ctx, kind, p)
	if err != nil {
		return models.Transaction{}, err
	}

	before, err := s.store.Replace(ctx, oid, kind, tx)
	if err != nil {
		return models.Transaction{}, err
	}
	tx.ID = oid

	s.writeAudit(ctx, audit.LogOptions{
		Actor:       actor,
		EntityType:  EntityType,
		EntityID:    oid.Hex(),
		Action:      models.AuditActionUpdate,
		Description: describe("edited", tx),
		Before:      before,
		After:       tx,
	})
	s.InvalidateAutoComplete(ctx)
	return tx, nil
}

func (s *Service) Delete(ctx context.Context, actor models.Actor, id string) (models.Transaction, error) {
	oid, err := models.ParseObjectID(id)
	if err != nil {
		return models.Transaction{}, err
	}

	deleted, err := s.store.Delete(ctx, oid)
	if err != nil {
		return models.Transaction{}, err
	}

	s.writeAudit(ctx, audit.LogOptions{
		Actor:       actor,
		EntityType:  EntityType,
		EntityID:    oid.Hex(),
		Action:      models.AuditActionDelete,
		Description: describe("deleted", deleted),
		Before:      deleted,
	})
	s.InvalidateAutoComplete(ctx)
	return deleted, nil
}

// Print returns the transactions to render on a bon or invoice, with the
// customer flattened.
func (s *Service) Print(ctx context.Context, ids []string) ([]models.TruckTransaction, error) {
	oids, err := nonEmptyIDs(ids)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.FindByIDs(ctx, oids)
	if err != nil {
		return nil, err
	}
	return models.TruckViews(txs), nil
}

const (
	PrintBon     = "bon"
	PrintInvoice = "invoice"
)

// UpdatePrintStatus marks transactions as printed. printType "bon" sets
// isPrintedBon; anything else sets isPrintedInvoice.
func (s *Service) UpdatePrintStatus(ctx context.Context, ids []string, printType string) (int64, error) {
	oids, err := nonEmptyIDs(ids)
	if err != nil {
		return 0, err
	}

	field := "isPrintedInvoice"
	if printType == PrintBon {
		field = "isPrintedBon"
	}
	return s.store.SetFields(ctx, oids, bson.M{field: true})
}

// AutoComplete returns the suggestion lists for the truck transaction form.
func (s *Service) AutoComplete(ctx context.Context) (autocomplete.Data, error) {
	var data autocomplete.Data
	if s.cache.GetJSON(ctx, autoCompleteKey, &data) {
		return data, nil
	}

	destinations, err := s.store.DistinctDestinations(ctx)
	if err != nil {
		return nil, err
	}
	initials, err := s.customers.Initials(ctx)
	if err != nil {
		return nil, err
	}

	data = autocomplete.NewData(destinations, initials)
	s.cache.SetJSON(ctx, autoCompleteKey, data)
	return data, nil
}

func (s *Service) InvalidateAutoComplete(ctx context.Context) {
	s.cache.Delete(ctx, autoCompleteKey)
}

func (s *Service) build(ctx context.Context, kind models.TransactionType, p Payload) (models.Transaction, error) {
	tx, err := p.toTransaction(kind, s.now())
	if err != nil {
		return models.Transaction{}, err
	}

	ref, err := s.resolveCustomer(ctx, p.Customer)
	if err != nil {
		return models.Transaction{}, err
	}
	tx.Customer = ref
	return tx, nil
}

// resolveCustomer links the initial to a known customer when there is
// one; unknown initials are stored normalized but unlinked.
func (s *Service) resolveCustomer(ctx context.Context, initial string) (*models.CustomerRef, error) {
	initial = models.NormalizeInitial(initial)
	if initial == "" {
		return nil, nil
	}

	c, err := s.customers.FindByInitial(ctx, initial)
	if errors.Is(err, models.ErrNotFound) {
		return &models.CustomerRef{Initial: initial}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve customer %q: %w", initial, err)
	}
	return c.Ref(), nil
}

// writeAudit never fails the request; a lost audit entry is logged instead.
func (s *Service) writeAudit(ctx context.Context, opts audit.LogOptions) {
	if err := s.auditor.WriteLog(ctx, opts); err != nil {
		slog.ErrorContext(ctx, "audit log write failed",
			"entity_id", opts.EntityID, "action", opts.Action, "error", err)
	}
}

func describe(verb string, tx models.Transaction) string {
	return fmt.Sprintf("%s %s on %s, cost %.2f", verb, tx.TransactionType, tx.Date.Format("2006-01-02"), tx.Cost)
}

func nonEmptyIDs(ids []string) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: transactionIds must not be empty", models.ErrInvalidInput)
	}
	return models.ParseObjectIDs(ids)
}
