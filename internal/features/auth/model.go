package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered user. Regular users sign in through a magic
// link; admins additionally carry a bcrypt password hash.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	FirstName string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	Surname   string             `bson:"surname,omitempty" json:"surname,omitempty"`
	Role      string             `bson:"role" json:"role"`

	// TagID is the short human-facing badge code (paddle number), unique
	// across users when set.
	TagID string `bson:"tagId,omitempty" json:"tagId,omitempty"`

	// Password holds the bcrypt hash for admin accounts, empty otherwise.
	Password string `bson:"password,omitempty" json:"-"`

	MagicLinkToken   *string    `bson:"magicLinkToken,omitempty" json:"-"`
	MagicLinkExpires *time.Time `bson:"magicLinkExpires,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// LoginRequest is the magic-link issuance payload
type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName"`
	Surname   string `json:"surname"`
}

// LoginResponse reports issuance; DebugLink is only echoed outside production
type LoginResponse struct {
	Success   bool   `json:"success"`
	DebugLink string `json:"debugLink,omitempty"`
}

// AdminLoginRequest is the password login payload for admins
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
