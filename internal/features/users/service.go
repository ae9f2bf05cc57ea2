package users

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mhk-dev/bidhaus/internal/features/auth"
	"github.com/mhk-dev/bidhaus/internal/pkg/session"
	apperrors "github.com/mhk-dev/bidhaus/pkg/errors"
)

// Store is the user persistence surface the admin operations need
type Store interface {
	ListUsers(ctx context.Context) ([]auth.User, error)
	GetUserByID(ctx context.Context, id string) (*auth.User, error)
	GetUserByTagID(ctx context.Context, tagID string) (*auth.User, error)
	SetTagID(ctx context.Context, id primitive.ObjectID, tagID string) error
}

// Service implements admin user management
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func requireAdmin(actor *session.Payload) error {
	if actor == nil || actor.Role != session.RoleAdmin {
		return fmt.Errorf("%w: admin access required", apperrors.ErrUnauthorized)
	}
	return nil
}

// List returns all registered users
func (s *Service) List(ctx context.Context, actor *session.Payload) ([]auth.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

// UpdateTagID reassigns a user's tag identifier. Fails when another user
// already holds the tag; re-assigning a user their own tag is a no-op.
func (s *Service) UpdateTagID(ctx context.Context, actor *session.Payload, userID, newTagID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if newTagID == "" {
		return fmt.Errorf("%w: tag id is required", apperrors.ErrValidation)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("users: failed to load user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
	}

	existing, err := s.store.GetUserByTagID(ctx, newTagID)
	if err != nil {
		return fmt.Errorf("users: failed to check tag id: %w", err)
	}
	if existing != nil && existing.ID != user.ID {
		return fmt.Errorf("%w: tag id already taken", apperrors.ErrConflict)
	}

	if err := s.store.SetTagID(ctx, user.ID, newTagID); err != nil {
		return fmt.Errorf("users: failed to set tag id: %w", err)
	}
	return nil
}
