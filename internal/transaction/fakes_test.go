package transaction

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tomthedeveloper11/trucking/internal/audit"
	"github.com/tomthedeveloper11/trucking/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store with the same semantics as Repository.
type memStore struct {
	txs []models.Transaction
}

func (m *memStore) match(pred func(models.Transaction) bool) []models.Transaction {
	out := make([]models.Transaction, 0)
	for _, t := range m.txs {
		if pred(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (m *memStore) TruckTransactions(ctx context.Context) ([]models.Transaction, error) {
	return m.match(func(t models.Transaction) bool { return t.TransactionType == models.TransactionTypeTruck }), nil
}

func (m *memStore) AllTransactions(ctx context.Context, rng models.DateRange) ([]models.Transaction, error) {
	return m.match(func(t models.Transaction) bool { return rng.Contains(t.Date) }), nil
}

func (m *memStore) AdditionalTransactions(ctx context.Context, rng models.DateRange) ([]models.Transaction, error) {
	return m.match(func(t models.Transaction) bool {
		return rng.Contains(t.Date) && t.TransactionType == models.TransactionTypeAdditional
	}), nil
}

func (m *memStore) TruckTransactionsByCustomerID(ctx context.Context, customerID string, rng models.DateRange) ([]models.Transaction, error) {
	return m.match(func(t models.Transaction) bool {
		return rng.Contains(t.Date) && t.TransactionType == models.TransactionTypeTruck &&
			t.Customer != nil && t.Customer.CustomerID == customerID
	}), nil
}

func (m *memStore) TruckTransactionsByTruckID(ctx context.Context, truckID string, rng models.DateRange) ([]models.Transaction, error) {
	return m.match(func(t models.Transaction) bool {
		return rng.Contains(t.Date) && t.TransactionType == models.TransactionTypeTruck && t.TruckID == truckID
	}), nil
}

func (m *memStore) TruckAdditionalTransactionsByTruckID(ctx context.Context, truckID string, rng models.DateRange) ([]models.Transaction, error) {
	return m.match(func(t models.Transaction) bool {
		return rng.Contains(t.Date) && t.TransactionType == models.TransactionTypeTruckAdditional && t.TruckID == truckID
	}), nil
}

func (m *memStore) Filter(ctx context.Context, q FilterQuery) ([]models.Transaction, error) {
	has := func(v, sub string) bool { return sub == "" || strings.Contains(strings.ToLower(v), strings.ToLower(sub)) }
	return m.match(func(t models.Transaction) bool {
		return t.TransactionType == models.TransactionTypeTruck &&
			has(t.ContainerNo, q.ContainerNo) && has(t.InvoiceNo, q.InvoiceNo) &&
			has(t.Destination, q.Destination) && has(t.CustomerInitial(), q.Customer) &&
			(q.TruckID == "" || t.TruckID == q.TruckID) &&
			(q.Range == nil || q.Range.Contains(t.Date))
	}), nil
}

func (m *memStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Transaction, error) {
	set := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return m.match(func(t models.Transaction) bool { return set[t.ID] }), nil
}

func (m *memStore) Insert(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	m.txs = append(m.txs, tx)
	return tx, nil
}

func (m *memStore) Replace(ctx context.Context, id primitive.ObjectID, kind models.TransactionType, tx models.Transaction) (models.Transaction, error) {
	for i, t := range m.txs {
		if t.ID == id && t.TransactionType == kind {
			tx.ID = id
			m.txs[i] = tx
			return t, nil
		}
	}
	return models.Transaction{}, fmt.Errorf("%s %s: %w", kind, id.Hex(), models.ErrNotFound)
}

func (m *memStore) Delete(ctx context.Context, id primitive.ObjectID) (models.Transaction, error) {
	for i, t := range m.txs {
		if t.ID == id {
			m.txs = append(m.txs[:i], m.txs[i+1:]...)
			return t, nil
		}
	}
	return models.Transaction{}, fmt.Errorf("transaction %s: %w", id.Hex(), models.ErrNotFound)
}

func (m *memStore) SetFields(ctx context.Context, ids []primitive.ObjectID, fields bson.M) (int64, error) {
	set := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	var n int64
	for i := range m.txs {
		if !set[m.txs[i].ID] {
			continue
		}
		n++
		for k, v := range fields {
			switch k {
			case "isPrintedBon":
				m.txs[i].IsPrintedBon = v.(bool)
			case "isPrintedInvoice":
				m.txs[i].IsPrintedInvoice = v.(bool)
			case "invoiceNo":
				m.txs[i].InvoiceNo = v.(string)
			}
		}
	}
	return n, nil
}

func (m *memStore) DistinctDestinations(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, t := range m.txs {
		if t.TransactionType == models.TransactionTypeTruck && !seen[t.Destination] {
			seen[t.Destination] = true
			out = append(out, t.Destination)
		}
	}
	return out, nil
}

type fakeCustomers struct {
	byInitial map[string]models.Customer
	err       error
}

func (f fakeCustomers) FindByInitial(ctx context.Context, initial string) (models.Customer, error) {
	if f.err != nil {
		return models.Customer{}, f.err
	}
	c, ok := f.byInitial[initial]
	if !ok {
		return models.Customer{}, fmt.Errorf("customer %q: %w", initial, models.ErrNotFound)
	}
	return c, nil
}

func (f fakeCustomers) Initials(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(f.byInitial))
	for k := range f.byInitial {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

type fakeAuditor struct {
	logs []audit.LogOptions
	err  error
}

func (f *fakeAuditor) WriteLog(ctx context.Context, opts audit.LogOptions) error {
	f.logs = append(f.logs, opts)
	return f.err
}

type fakeCache struct {
	entries map[string][]byte
	gets    int
	deletes int
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string][]byte{}} }

func (f *fakeCache) GetJSON(ctx context.Context, key string, dst any) bool {
	f.gets++
	raw, ok := f.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, v any) {
	raw, _ := json.Marshal(v)
	f.entries[key] = raw
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) {
	f.deletes++
	for _, k := range keys {
		delete(f.entries, k)
	}
}
