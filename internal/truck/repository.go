package truck

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
	return &Repository{coll: db.Collection(models.TruckCollection)}
}

// List returns every truck ordered by name, inactive ones included.
func (r *Repository) List(ctx context.Context) ([]models.Truck, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find trucks: %w", err)
	}

	out := make([]models.Truck, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode trucks: %w", err)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, id primitive.ObjectID) (models.Truck, error) {
	var t models.Truck
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Truck{}, fmt.Errorf("truck %s: %w", id.Hex(), models.ErrNotFound)
	}
	if err != nil {
		return models.Truck{}, fmt.Errorf("find truck %s: %w", id.Hex(), err)
	}
	return t, nil
}

func (r *Repository) Create(ctx context.Context, t models.Truck) (models.Truck, error) {
	t.ID = primitive.NilObjectID
	res, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		return models.Truck{}, fmt.Errorf("insert truck: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid
	}
	return t, nil
}

func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, t models.Truck) (models.Truck, error) {
	t.ID = id
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id}, t)
	if err != nil {
		return models.Truck{}, fmt.Errorf("update truck %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return models.Truck{}, fmt.Errorf("truck %s: %w", id.Hex(), models.ErrNotFound)
	}
	return t, nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete truck %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("truck %s: %w", id.Hex(), models.ErrNotFound)
	}
	return nil
}
