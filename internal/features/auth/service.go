package auth

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/mhk-dev/bidhaus/internal/pkg/logger"
	"github.com/mhk-dev/bidhaus/internal/pkg/mailer"
	"github.com/mhk-dev/bidhaus/internal/pkg/session"
	apperrors "github.com/mhk-dev/bidhaus/pkg/errors"
)

const (
	magicLinkTTL = 15 * time.Minute

	// tagAttempts bounds rejection sampling of the 3-digit tag space.
	tagAttempts = 10
)

// UserStore is the persistence surface the auth service needs
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByTagID(ctx context.Context, tagID string) (*User, error)
	GetUserByMagicToken(ctx context.Context, token string) (*User, error)
	UpdateNames(ctx context.Context, id primitive.ObjectID, firstName, surname string) error
	SetMagicLink(ctx context.Context, id primitive.ObjectID, token string, expires time.Time) error
	ClearMagicLink(ctx context.Context, id primitive.ObjectID) error
}

// Service implements the identity flow: magic-link issuance and consumption
// plus the separate admin password login.
type Service struct {
	users  UserStore
	mail   mailer.Sender
	codec  *session.Codec
	appURL string

	// production suppresses the debug link echoed in API responses.
	production bool
}

func NewService(users UserStore, mail mailer.Sender, codec *session.Codec, appURL string, production bool) *Service {
	return &Service{
		users:      users,
		mail:       mail,
		codec:      codec,
		appURL:     appURL,
		production: production,
	}
}

// RequestMagicLink finds or creates the user for the email, stores a fresh
// single-use token and mails the login link. Email delivery failure does not
// fail the request; the link is logged as a fallback. The returned debug link
// is empty in production.
func (s *Service) RequestMagicLink(ctx context.Context, email, firstName, surname string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("auth: failed to look up user: %w", err)
	}

	if user == nil {
		tagID, err := s.generateTagID(ctx)
		if err != nil {
			return "", err
		}

		user = &User{
			Email:     email,
			FirstName: firstName,
			Surname:   surname,
			Role:      session.RoleUser,
			TagID:     tagID,
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return "", fmt.Errorf("auth: failed to create user: %w", err)
		}
	} else if firstName != "" || surname != "" {
		if err := s.users.UpdateNames(ctx, user.ID, firstName, surname); err != nil {
			return "", fmt.Errorf("auth: failed to update names: %w", err)
		}
	}

	token := uuid.NewString()
	expires := time.Now().Add(magicLinkTTL)
	if err := s.users.SetMagicLink(ctx, user.ID, token, expires); err != nil {
		return "", fmt.Errorf("auth: failed to store magic link: %w", err)
	}

	link := s.appURL + "/api/auth/verify?token=" + token

	if s.mail == nil {
		logger.Warn("mailer not configured, magic link not sent", map[string]any{
			"email": email, "link": link,
		})
	} else if err := s.mail.SendMagicLink(ctx, email, link); err != nil {
		logger.Error("failed to send magic link email", map[string]any{
			"email": email, "link": link, "error": err.Error(),
		})
	}

	if s.production {
		return "", nil
	}
	return link, nil
}

// VerifyMagicLink consumes a token: it must exist, be pending and unexpired.
// On success a session is issued and the token is cleared so the same link
// cannot be replayed.
func (s *Service) VerifyMagicLink(ctx context.Context, token string) (string, *session.Payload, error) {
	if token == "" {
		return "", nil, fmt.Errorf("%w: missing token", apperrors.ErrValidation)
	}

	user, err := s.users.GetUserByMagicToken(ctx, token)
	if err != nil {
		return "", nil, fmt.Errorf("auth: failed to look up token: %w", err)
	}
	if user == nil || user.MagicLinkExpires == nil || user.MagicLinkExpires.Before(time.Now()) {
		return "", nil, fmt.Errorf("%w: invalid or expired token", apperrors.ErrUnauthorized)
	}

	cookie, payload, err := s.issueSession(user)
	if err != nil {
		return "", nil, err
	}

	if err := s.users.ClearMagicLink(ctx, user.ID); err != nil {
		return "", nil, fmt.Errorf("auth: failed to clear magic link: %w", err)
	}

	return cookie, payload, nil
}

// AdminLogin verifies admin credentials against the stored bcrypt hash and
// issues a session.
func (s *Service) AdminLogin(ctx context.Context, email, password string) (string, *session.Payload, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: missing credentials", apperrors.ErrValidation)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("auth: failed to look up user: %w", err)
	}
	if user == nil || user.Role != session.RoleAdmin {
		return "", nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	return s.issueSession(user)
}

func (s *Service) issueSession(user *User) (string, *session.Payload, error) {
	payload := session.Payload{
		ID:      user.ID.Hex(),
		Email:   user.Email,
		Role:    user.Role,
		TagID:   user.TagID,
		Expires: time.Now().Add(session.TTL),
	}

	cookie, err := s.codec.Encrypt(payload)
	if err != nil {
		return "", nil, fmt.Errorf("auth: failed to sign session: %w", err)
	}
	return cookie, &payload, nil
}

// generateTagID draws 3-digit tags until one is free or the attempt bound is
// exhausted.
func (s *Service) generateTagID(ctx context.Context) (string, error) {
	for i := 0; i < tagAttempts; i++ {
		tagID := strconv.Itoa(100 + rand.Intn(900))

		existing, err := s.users.GetUserByTagID(ctx, tagID)
		if err != nil {
			return "", fmt.Errorf("auth: failed to check tag id: %w", err)
		}
		if existing == nil {
			return tagID, nil
		}
	}
	return "", fmt.Errorf("%w: system busy, try again", apperrors.ErrInternal)
}
