package items

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuctionItem is a lot open for bidding inside its time window.
// CurrentBid is a projection: max(bid amount) or StartingBid when no bids
// exist. Only the bid engine and reset write it.
type AuctionItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	StartingBid float64            `bson:"startingBid" json:"startingBid"`
	CurrentBid  float64            `bson:"currentBid" json:"currentBid"`
	StartTime   time.Time          `bson:"startTime" json:"startTime"`
	EndTime     time.Time          `bson:"endTime" json:"endTime"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ItemInput carries the editable fields for create and update
type ItemInput struct {
	Title       string
	Description string
	ImageURL    string
	StartingBid float64
	StartTime   time.Time
	EndTime     time.Time
}

// BidRecord is the slice of a bid the lifecycle manager needs: enough to
// determine and notify a winner.
type BidRecord struct {
	UserID    string    `json:"userId"`
	UserEmail string    `json:"-"`
	TagID     string    `json:"tagId,omitempty"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// ItemDetail is the storefront detail view
type ItemDetail struct {
	AuctionItem
	Bids []BidRecord `json:"bids"`
}
