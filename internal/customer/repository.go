package customer

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
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(models.CustomerCollection)}
}

func (r *Repository) List(ctx context.Context) ([]models.Customer, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "initial", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find customers: %w", err)
	}

	out := make([]models.Customer, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode customers: %w", err)
	}
	return out, nil
}

func (r *Repository) findOne(ctx context.Context, filter bson.M, what string) (models.Customer, error) {
	var c models.Customer
	err := r.coll.FindOne(ctx, filter).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Customer{}, fmt.Errorf("customer %s: %w", what, models.ErrNotFound)
	}
	if err != nil {
		return models.Customer{}, fmt.Errorf("find customer %s: %w", what, err)
	}
	return c, nil
}

func (r *Repository) Get(ctx context.Context, id primitive.ObjectID) (models.Customer, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id.Hex())
}

// FindByInitial matches the initial exactly.
func (r *Repository) FindByInitial(ctx context.Context, initial string) (models.Customer, error) {
	return r.findOne(ctx, bson.M{"initial": initial}, fmt.Sprintf("%q", initial))
}

func (r *Repository) Initials(ctx context.Context) ([]string, error) {
	raw, err := r.coll.Distinct(ctx, "initial", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct customer initials: %w", err)
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *Repository) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	c.ID = primitive.NilObjectID
	res, err := r.coll.InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return models.Customer{}, fmt.Errorf("%w: initial %q is already used", models.ErrConflict, c.Initial)
	}
	if err != nil {
		return models.Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return c, nil
}

func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, c models.Customer) (models.Customer, error) {
	c.ID = id
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id}, c)
	if mongo.IsDuplicateKeyError(err) {
		return models.Customer{}, fmt.Errorf("%w: initial %q is already used", models.ErrConflict, c.Initial)
	}
	if err != nil {
		return models.Customer{}, fmt.Errorf("update customer %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return models.Customer{}, fmt.Errorf("customer %s: %w", id.Hex(), models.ErrNotFound)
	}
	return c, nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete customer %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("customer %s: %w", id.Hex(), models.ErrNotFound)
	}
	return nil
}
