package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository handles database interactions for users and magic links
type Repository struct {
	collection *mongo.Collection
}

// NewRepository initializes the repository and creates necessary indexes
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("users")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "tagId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "magicLinkToken", Value: 1}},
		},
	})

	return &Repository{collection: collection}
}

// CreateUser inserts a new user into the database
func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user duplicate key error: %w", err)
		}
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// GetUserByEmail finds a user by email. Not found is (nil, nil).
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByTagID finds a user by tag id. Not found is (nil, nil).
func (r *Repository) GetUserByTagID(ctx context.Context, tagID string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"tagId": tagID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByMagicToken finds a user holding the given pending magic-link token
func (r *Repository) GetUserByMagicToken(ctx context.Context, token string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"magicLinkToken": token}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateNames sets the display name fields on an existing user
func (r *Repository) UpdateNames(ctx context.Context, id primitive.ObjectID, firstName, surname string) error {
	update := bson.M{"updatedAt": time.Now()}
	if firstName != "" {
		update["firstName"] = firstName
	}
	if surname != "" {
		update["surname"] = surname
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

// SetMagicLink stores a fresh single-use token, replacing any pending one
func (r *Repository) SetMagicLink(ctx context.Context, id primitive.ObjectID, token string, expires time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"magicLinkToken":   token,
		"magicLinkExpires": expires,
		"updatedAt":        time.Now(),
	}})
	return err
}

// ListUsers returns all users, newest first
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

// GetUserByID finds a user by id. Not found is (nil, nil).
func (r *Repository) GetUserByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var user User
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// SetTagID reassigns the tag identifier on a user
func (r *Repository) SetTagID(ctx context.Context, id primitive.ObjectID, tagID string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"tagId":     tagID,
		"updatedAt": time.Now(),
	}})
	return err
}

// ClearMagicLink removes the token fields so the same link cannot be replayed
func (r *Repository) ClearMagicLink(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$unset": bson.M{"magicLinkToken": "", "magicLinkExpires": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	})
	return err
}
