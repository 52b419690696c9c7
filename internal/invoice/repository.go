package invoice

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomthedeveloper11/trucking/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		coll:     db.Collection(models.InvoiceCollection),
		counters: db.Collection(models.CounterCollection),
	}
}

// NextSequence atomically increments the invoice counter for year and
// returns the new value. The first call of a year returns 1.
func (r *Repository) NextSequence(ctx context.Context, year int) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": fmt.Sprintf("invoice-%d", year)},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return counter.Seq, nil
}

func (r *Repository) Insert(ctx context.Context, inv models.Invoice) (models.Invoice, error) {
	res, err := r.coll.InsertOne(ctx, inv)
	if mongo.IsDuplicateKeyError(err) {
		return models.Invoice{}, fmt.Errorf("%w: invoice %s already exists", models.ErrConflict, inv.InvoiceNo)
	}
	if err != nil {
		return models.Invoice{}, fmt.Errorf("insert invoice: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		inv.ID = oid
	}
	return inv, nil
}

func (r *Repository) List(ctx context.Context, rng models.DateRange) ([]models.Invoice, error) {
	cur, err := r.coll.Find(ctx,
		bson.M{"date": bson.M{"$gte": rng.Start, "$lte": rng.End}},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "invoiceNo", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find invoices: %w", err)
	}

	out := make([]models.Invoice, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode invoices: %w", err)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, id primitive.ObjectID) (models.Invoice, error) {
	var inv models.Invoice
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Invoice{}, fmt.Errorf("invoice %s: %w", id.Hex(), models.ErrNotFound)
	}
	if err != nil {
		return models.Invoice{}, fmt.Errorf("find invoice %s: %w", id.Hex(), err)
	}
	return inv, nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) (models.Invoice, error) {
	var inv models.Invoice
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Invoice{}, fmt.Errorf("invoice %s: %w", id.Hex(), models.ErrNotFound)
	}
	if err != nil {
		return models.Invoice{}, fmt.Errorf("delete invoice %s: %w", id.Hex(), err)
	}
	return inv, nil
}
