package bids

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bid is an accepted offer on an auction item. Bids are never mutated;
// resetAuction deletes them en masse. The bidder's email and tag are
// denormalized so outbid and winner notices need no extra lookup.
type Bid struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ItemID    string             `bson:"itemId" json:"itemId"`
	UserID    string             `bson:"userId" json:"userId"`
	UserEmail string             `bson:"userEmail" json:"-"`
	TagID     string             `bson:"tagId,omitempty" json:"tagId,omitempty"`
	Amount    float64            `bson:"amount" json:"amount"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// PlaceBidRequest is the bid submission payload
type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}
