package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	HistoryCollection = "history"
	UsersCollection   = "users"
)

// Mongo lazily connects to a MongoDB deployment on first use.
type Mongo struct {
	uri     string
	name    string
	timeout time.Duration

	mu        sync.Mutex
	client    *mongo.Client
	db        *mongo.Database
	connected atomic.Bool
}

func NewMongo(uri, name string, timeout time.Duration) *Mongo {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Mongo{uri: uri, name: name, timeout: timeout}
}

// Timeout bounds every round trip to the server.
func (m *Mongo) Timeout() time.Duration {
	return m.timeout
}

// Connected reports whether a connection has been established at least once.
// It never blocks.
func (m *Mongo) Connected() bool {
	return m.connected.Load()
}

// Database returns the configured database, connecting and creating indexes on the
// first call. Failures leave the connector unconnected so the next call retries.
func (m *Mongo) Database(ctx context.Context) (*mongo.Database, error) {
	if m.connected.Load() {
		return m.db, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db != nil {
		return m.db, nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(m.uri).
		SetServerSelectionTimeout(m.timeout).
		SetConnectTimeout(m.timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(m.name)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	m.client = client
	m.db = db
	m.connected.Store(true)
	slog.Info("Connected to MongoDB", "database", m.name)
	return db, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = db.Collection(HistoryCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "time", Value: -1}},
		Options: options.Index().SetName("time_desc"),
	})
	if err != nil {
		return fmt.Errorf("failed to create history index: %w", err)
	}
	return nil
}
