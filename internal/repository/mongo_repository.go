package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chemibot/backend/internal/database"
	"chemibot/backend/internal/model"
)

type mongoRepository struct {
	store *database.Mongo
}

func NewMongoRepository(store *database.Mongo) Repository {
	return &mongoRepository{store: store}
}

func (r *mongoRepository) Connect(ctx context.Context) error {
	_, err := r.store.Database(ctx)
	return err
}

func (r *mongoRepository) Connected() bool {
	return r.store.Connected()
}

func (r *mongoRepository) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := r.store.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (r *mongoRepository) InsertPrediction(ctx context.Context, p *model.Prediction) error {
	coll, err := r.collection(ctx, database.HistoryCollection)
	if err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(ctx, r.store.Timeout())
	defer cancel()
	if _, err := coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("could not insert prediction: %w", err)
	}
	return nil
}

func (r *mongoRepository) ListRecentPredictions(ctx context.Context, limit int) ([]model.Prediction, error) {
	coll, err := r.collection(ctx, database.HistoryCollection)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.store.Timeout())
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}}).SetLimit(int64(limit))
	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	predictions := make([]model.Prediction, 0, limit)
	if err := cursor.All(ctx, &predictions); err != nil {
		return nil, err
	}
	return predictions, nil
}

func (r *mongoRepository) CreateUser(ctx context.Context, u *model.User) error {
	coll, err := r.collection(ctx, database.UsersCollection)
	if err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(ctx, r.store.Timeout())
	defer cancel()
	if _, err := coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("could not insert user: %w", err)
	}
	return nil
}

func (r *mongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	coll, err := r.collection(ctx, database.UsersCollection)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.store.Timeout())
	defer cancel()

	var u model.User
	if err := coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *mongoRepository) Close(ctx context.Context) error {
	return r.store.Close(ctx)
}
