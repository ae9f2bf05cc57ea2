package bids

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("bids")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "itemId", Value: 1}, {Key: "amount", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	})

	return &Repository{collection: collection}
}

func (r *Repository) Create(ctx context.Context, bid *Bid) error {
	bid.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, bid)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		bid.ID = oid
	}
	return nil
}

// TopBid returns the highest bid on an item, or (nil, nil) when none exist
func (r *Repository) TopBid(ctx context.Context, itemID string) (*Bid, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "amount", Value: -1}})

	var bid Bid
	err := r.collection.FindOne(ctx, bson.M{"itemId": itemID}, opts).Decode(&bid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &bid, nil
}

// ListByItem returns bids on an item, highest first
func (r *Repository) ListByItem(ctx context.Context, itemID string, limit int) ([]Bid, error) {
	opts := options.Find().SetSort(bson.D{{Key: "amount", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"itemId": itemID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bids []Bid
	if err := cursor.All(ctx, &bids); err != nil {
		return nil, err
	}
	if bids == nil {
		bids = []Bid{}
	}
	return bids, nil
}

// DeleteByItem removes every bid on an item
func (r *Repository) DeleteByItem(ctx context.Context, itemID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"itemId": itemID})
	return err
}
