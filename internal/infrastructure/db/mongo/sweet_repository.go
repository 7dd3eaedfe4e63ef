package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sweetmart/sweetshop/internal/core/domain"
	"github.com/sweetmart/sweetshop/internal/core/ports"
)

const collectionSweets = "sweets"

type SweetRepository struct {
	col *mongo.Collection
}

func NewSweetRepository(db *mongo.Database) *SweetRepository {
	return &SweetRepository{col: db.Collection(collectionSweets)}
}

type mongoSweet struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Category    string             `bson:"category"`
	Price       float64            `bson:"price"`
	Quantity    int                `bson:"quantity"`
	Image       string             `bson:"image"`
	Description string             `bson:"description"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (m mongoSweet) toDomain() *domain.Sweet {
	return &domain.Sweet{
		ID:          m.ID.Hex(),
		Name:        m.Name,
		Category:    domain.Category(m.Category),
		Price:       m.Price,
		Quantity:    m.Quantity,
		Image:       m.Image,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

// Create inserts a new sweet document.
func (r *SweetRepository) Create(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	doc := mongoSweet{
		ID:          primitive.NewObjectID(),
		Name:        s.Name,
		Category:    string(s.Category),
		Price:       s.Price,
		Quantity:    s.Quantity,
		Image:       s.Image,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert sweet: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID retrieves a sweet. Ids that are not valid ObjectIDs are reported
// as not found.
func (r *SweetRepository) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSweetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc mongoSweet
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSweetNotFound
		}
		return nil, fmt.Errorf("find sweet: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns the sweets matching f, newest first.
func (r *SweetRepository) List(ctx context.Context, f ports.SweetFilter) ([]*domain.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, listFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoSweet
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sweets: %w", err)
	}

	out := make([]*domain.Sweet, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func listFilter(f ports.SweetFilter) bson.M {
	filter := bson.M{}
	if f.Name != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(f.Name), "$options": "i"}
	}
	if f.Category != "" {
		filter["category"] = string(f.Category)
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	return filter
}

// Update sets the non-nil patch fields and returns the updated document.
func (r *SweetRepository) Update(ctx context.Context, id string, p ports.SweetPatch) (*domain.Sweet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSweetNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Category != nil {
		set["category"] = string(*p.Category)
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Image != nil {
		set["image"] = *p.Image
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
}

func (r *SweetRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrSweetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSweetNotFound
	}
	return nil
}

// adjustAttempts bounds how often a rejected decrement is retried after the
// re-read shows enough stock, which happens when a restock lands in between.
const adjustAttempts = 3

// AdjustQuantity applies $inc in a single conditional FindOneAndUpdate. The
// filter bounds the result to [0, domain.MaxQuantity], so two concurrent
// purchases can never overdraw the same document and a restock can never
// overflow it.
func (r *SweetRepository) AdjustQuantity(ctx context.Context, id string, delta int) (*domain.Sweet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSweetNotFound
	}

	filter := bson.M{"_id": oid}
	switch {
	case delta < 0:
		filter["quantity"] = bson.M{"$gte": -delta}
	case delta > 0:
		filter["quantity"] = bson.M{"$lte": domain.MaxQuantity - delta}
	}

	for attempt := 0; attempt < adjustAttempts; attempt++ {
		update := bson.M{
			"$inc": bson.M{"quantity": delta},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		}
		updated, err := r.findOneAndUpdate(ctx, filter, update)
		if !errors.Is(err, domain.ErrSweetNotFound) || delta == 0 {
			return updated, err
		}

		// The filter missed: the sweet is gone or its quantity is out of
		// bounds. Nothing was written in either case.
		current, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if delta > 0 {
			if current.Quantity > domain.MaxQuantity-delta {
				return nil, domain.ErrQuantityLimit
			}
			continue
		}
		if current.Quantity < -delta {
			return nil, &domain.InsufficientStockError{Available: current.Quantity, Requested: -delta}
		}
	}
	if delta > 0 {
		return nil, fmt.Errorf("adjust sweet %s: quantity kept changing", id)
	}
	return nil, fmt.Errorf("adjust sweet %s: %w", id, domain.ErrInsufficientStock)
}

func (r *SweetRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoSweet
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSweetNotFound
		}
		return nil, fmt.Errorf("update sweet: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates necessary indexes on the sweets collection.
func (r *SweetRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
