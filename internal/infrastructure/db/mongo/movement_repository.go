package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sweetmart/sweetshop/internal/core/domain"
)

const collectionMovements = "stock_movements"

// MovementRepository implements ports.MovementRepository using MongoDB.
type MovementRepository struct {
	col *mongo.Collection
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(db *mongo.Database) *MovementRepository {
	return &MovementRepository{col: db.Collection(collectionMovements)}
}

// Insert persists a stock movement to the audit collection.
func (r *MovementRepository) Insert(ctx context.Context, m *domain.StockMovement) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	doc := bson.M{
		"sweet_id":           m.SweetID,
		"kind":               string(m.Kind),
		"quantity":           m.Quantity,
		"resulting_quantity": m.ResultingQuantity,
		"principal_id":       m.PrincipalID,
		"at":                 m.At.UTC(),
		"recorded_at":        time.Now().UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// EnsureIndexes creates the per-sweet timeline index.
func (r *MovementRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sweet_id", Value: 1}, {Key: "at", Value: 1}},
	})
	return err
}
