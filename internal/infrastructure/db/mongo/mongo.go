package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	connectTimeout = 10 * time.Second
	queryTimeout   = 5 * time.Second
)

// Config holds the connection settings for the catalog database.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// clientOptions pins writes to majority acknowledgement and reads to the
// primary so a purchase never observes a stale quantity.
func clientOptions(uri string) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetAppName("sweetshop").
		SetWriteConcern(writeconcern.Majority()).
		SetReadPreference(readpref.Primary())
}

// Connect dials MongoDB, pings the primary and returns the client together
// with the configured database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = connectTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}

// Repositories bundles every Mongo-backed store the service uses.
type Repositories struct {
	Sweets    *SweetRepository
	Users     *UserRepository
	Movements *MovementRepository
}

// NewRepositories builds the repositories over db.
func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Sweets:    NewSweetRepository(db),
		Users:     NewUserRepository(db),
		Movements: NewMovementRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	if err := r.Sweets.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("sweets indexes: %w", err)
	}
	if err := r.Users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := r.Movements.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("stock_movements indexes: %w", err)
	}
	return nil
}
