package transaction

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/tomthedeveloper11/trucking/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository reads and writes the polymorphic transactions collection.
type Repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(models.TransactionCollection)}
}

// FilterQuery narrows truck transactions. Empty fields are ignored; text
// fields match case-insensitive substrings.
type FilterQuery struct {
	ContainerNo string
	InvoiceNo   string
	Destination string
	Customer    string
	TruckID     string
	Range       *models.DateRange
}

func dateFilter(rng models.DateRange) bson.M {
	return bson.M{"$gte": rng.Start, "$lte": rng.End}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

func (r *Repository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Transaction, error) {
	cur, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}

	txs := make([]models.Transaction, 0)
	if err := cur.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return txs, nil
}

func (r *Repository) TruckTransactions(ctx context.Context) ([]models.Transaction, error) {
	return r.find(ctx, bson.M{"transactionType": models.TransactionTypeTruck}, newestFirst)
}

// AllTransactions returns every kind of transaction in the range, unsorted.
func (r *Repository) AllTransactions(ctx context.Context, rng models.DateRange) ([]models.Transaction, error) {
	return r.find(ctx, bson.M{"date": dateFilter(rng)})
}

func (r *Repository) AdditionalTransactions(ctx context.Context, rng models.DateRange) ([]models.Transaction, error) {
	return r.find(ctx, bson.M{
		"date":            dateFilter(rng),
		"transactionType": models.TransactionTypeAdditional,
	}, newestFirst)
}

// TransactionsByType returns transactions of the given kinds in the range, newest first.
func (r *Repository) TransactionsByType(ctx context.Context, rng models.DateRange, types ...models.TransactionType) ([]models.Transaction, error) {
	return r.find(ctx, bson.M{
		"date":            dateFilter(rng),
		"transactionType": bson.M{"$in": types},
	}, newestFirst)
}

func (r *Repository) TruckTransactionsByCustomerID(ctx context.Context, customerID string, rng models.DateRange) ([]models.Transaction, error) {
	return r.find(ctx, bson.M{
		"date":                dateFilter(rng),
		"customer.customerId": customerID,
		"transactionType":     models.TransactionTypeTruck,
	}, newestFirst)
}

func (r *Repository) TruckTransactionsByTruckID(ctx context.Context, truckID string, rng models.DateRange) ([]models.Transaction, error) {
	return r.find(ctx, bson.M{
		"date":            dateFilter(rng),
		"truckId":         truckID,
		"transactionType": models.TransactionTypeTruck,
	}, newestFirst)
}

func (r *Repository) TruckAdditionalTransactionsByTruckID(ctx context.Context, truckID string, rng models.DateRange) ([]models.Transaction, error) {
	return r.find(ctx, bson.M{
		"date":            dateFilter(rng),
		"truckId":         truckID,
		"transactionType": models.TransactionTypeTruckAdditional,
	}, newestFirst)
}

func (r *Repository) Filter(ctx context.Context, q FilterQuery) ([]models.Transaction, error) {
	filter := bson.M{"transactionType": models.TransactionTypeTruck}

	contains := func(field, value string) {
		if value != "" {
			filter[field] = primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
		}
	}
	contains("containerNo", q.ContainerNo)
	contains("invoiceNo", q.InvoiceNo)
	contains("destination", q.Destination)
	contains("customer.initial", q.Customer)

	if q.TruckID != "" {
		filter["truckId"] = q.TruckID
	}
	if q.Range != nil {
		filter["date"] = dateFilter(*q.Range)
	}

	return r.find(ctx, filter, newestFirst)
}

func (r *Repository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Transaction, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, newestFirst)
}

// Insert stores tx as given; a zero ID lets the server assign one.
func (r *Repository) Insert(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	res, err := r.coll.InsertOne(ctx, tx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		tx.ID = oid
	}
	return tx, nil
}

// Replace swaps the whole document with id and kind for tx, returning the
// document as it was before. Documents of another kind are not touched.
func (r *Repository) Replace(ctx context.Context, id primitive.ObjectID, kind models.TransactionType, tx models.Transaction) (models.Transaction, error) {
	tx.ID = id
	var before models.Transaction
	err := r.coll.FindOneAndReplace(ctx,
		bson.M{"_id": id, "transactionType": kind},
		tx,
		options.FindOneAndReplace().SetReturnDocument(options.Before),
	).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Transaction{}, fmt.Errorf("%s %s: %w", kind, id.Hex(), models.ErrNotFound)
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("replace transaction %s: %w", id.Hex(), err)
	}
	return before, nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) (models.Transaction, error) {
	var deleted models.Transaction
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Transaction{}, fmt.Errorf("transaction %s: %w", id.Hex(), models.ErrNotFound)
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("delete transaction %s: %w", id.Hex(), err)
	}
	return deleted, nil
}

// SetFields applies a $set to every transaction in ids and returns the
// number of matched documents.
func (r *Repository) SetFields(ctx context.Context, ids []primitive.ObjectID, fields bson.M) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{"$set": fields})
	if err != nil {
		return 0, fmt.Errorf("update transactions: %w", err)
	}
	return res.MatchedCount, nil
}

// DistinctDestinations lists the destinations used by truck transactions.
func (r *Repository) DistinctDestinations(ctx context.Context) ([]string, error) {
	raw, err := r.coll.Distinct(ctx, "destination", bson.M{"transactionType": models.TransactionTypeTruck})
	if err != nil {
		return nil, fmt.Errorf("distinct destinations: %w", err)
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}
