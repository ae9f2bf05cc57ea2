package items

import (
	"context"
	"fmt"
	"time"

	"github.com/mhk-dev/bidhaus/internal/pkg/logger"
	"github.com/mhk-dev/bidhaus/internal/pkg/mailer"
	"github.com/mhk-dev/bidhaus/internal/pkg/session"
	apperrors "github.com/mhk-dev/bidhaus/pkg/errors"
)

// ItemStore is the persistence surface for auction items
type ItemStore interface {
	Create(ctx context.Context, item *AuctionItem) error
	GetByID(ctx context.Context, id string) (*AuctionItem, error)
	List(ctx context.Context) ([]AuctionItem, error)
	Update(ctx context.Context, id string, update map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	SetEndTime(ctx context.Context, id string, endTime time.Time) error
	SetCurrentBid(ctx context.Context, id string, amount float64) error
}

// BidStore gives the lifecycle manager access to a lot's bids
type BidStore interface {
	TopBid(ctx context.Context, itemID string) (*BidRecord, error)
	ListByItem(ctx context.Context, itemID string, limit int) ([]BidRecord, error)
	DeleteByItem(ctx context.Context, itemID string) error
}

// Service implements the admin auction lifecycle: create, update, delete,
// close and reset. Every operation requires an ADMIN actor.
type Service struct {
	items ItemStore
	bids  BidStore
	mail  mailer.Sender
}

func NewService(items ItemStore, bids BidStore, mail mailer.Sender) *Service {
	return &Service{items: items, bids: bids, mail: mail}
}

func requireAdmin(actor *session.Payload) error {
	if actor == nil || actor.Role != session.RoleAdmin {
		return fmt.Errorf("%w: admin access required", apperrors.ErrUnauthorized)
	}
	return nil
}

func validateInput(in ItemInput) error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if in.Description == "" {
		return fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if in.StartingBid < 0 {
		return fmt.Errorf("%w: starting bid must be positive", apperrors.ErrValidation)
	}
	if !in.EndTime.After(in.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", apperrors.ErrValidation)
	}
	return nil
}

// Create stores a new item with the current price initialized to the
// starting bid.
func (s *Service) Create(ctx context.Context, actor *session.Payload, in ItemInput) (*AuctionItem, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	item := &AuctionItem{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		StartingBid: in.StartingBid,
		CurrentBid:  in.StartingBid,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("items: failed to create item: %w", err)
	}
	return item, nil
}

// Update edits all fields, including the window and starting bid, regardless
// of existing bids. Admins may edit ended auctions, e.g. to extend time.
func (s *Service) Update(ctx context.Context, actor *session.Payload, id string, in ItemInput) (*AuctionItem, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("items: failed to load item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item not found", apperrors.ErrNotFound)
	}

	if in.ImageURL == "" {
		in.ImageURL = item.ImageURL
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	update := map[string]interface{}{
		"title":       in.Title,
		"description": in.Description,
		"imageUrl":    in.ImageURL,
		"startingBid": in.StartingBid,
		"startTime":   in.StartTime,
		"endTime":     in.EndTime,
	}
	if err := s.items.Update(ctx, id, update); err != nil {
		return nil, fmt.Errorf("items: failed to update item: %w", err)
	}

	return s.items.GetByID(ctx, id)
}

// Delete hard-deletes the item and its bids
func (s *Service) Delete(ctx context.Context, actor *session.Payload, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("items: failed to load item: %w", err)
	}
	if item == nil {
		return fmt.Errorf("%w: item not found", apperrors.ErrNotFound)
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("items: failed to delete item: %w", err)
	}
	if err := s.bids.DeleteByItem(ctx, id); err != nil {
		return fmt.Errorf("items: failed to delete bids: %w", err)
	}
	return nil
}

// Close ends bidding now and notifies the winner, if any. Notification
// failure is logged and swallowed.
func (s *Service) Close(ctx context.Context, actor *session.Payload, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("items: failed to load item: %w", err)
	}
	if item == nil {
		return fmt.Errorf("%w: item not found", apperrors.ErrNotFound)
	}

	winner, err := s.bids.TopBid(ctx, id)
	if err != nil {
		return fmt.Errorf("items: failed to load winning bid: %w", err)
	}

	if err := s.items.SetEndTime(ctx, id, time.Now()); err != nil {
		return fmt.Errorf("items: failed to close auction: %w", err)
	}

	if winner != nil && winner.UserEmail != "" && s.mail != nil {
		if err := s.mail.SendWinner(ctx, winner.UserEmail, item.Title, winner.Amount); err != nil {
			logger.Error("failed to send winner email", map[string]any{
				"item": id, "email": winner.UserEmail, "error": err.Error(),
			})
		} else {
			logger.Info("winner email sent", map[string]any{
				"item": id, "email": winner.UserEmail,
			})
		}
	}
	return nil
}

// Reset wipes all bids and restores the current price to the starting bid,
// leaving the window untouched. Administrative error recovery.
func (s *Service) Reset(ctx context.Context, actor *session.Payload, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("items: failed to load item: %w", err)
	}
	if item == nil {
		return fmt.Errorf("%w: item not found", apperrors.ErrNotFound)
	}

	if err := s.bids.DeleteByItem(ctx, id); err != nil {
		return fmt.Errorf("items: failed to delete bids: %w", err)
	}
	if err := s.items.SetCurrentBid(ctx, id, item.StartingBid); err != nil {
		return fmt.Errorf("items: failed to reset current bid: %w", err)
	}
	return nil
}

// List returns all items for the storefront and admin dashboard
func (s *Service) List(ctx context.Context) ([]AuctionItem, error) {
	return s.items.List(ctx)
}

// Get returns an item with its recent bids
func (s *Service) Get(ctx context.Context, id string) (*ItemDetail, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("items: failed to load item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item not found", apperrors.ErrNotFound)
	}

	bids, err := s.bids.ListByItem(ctx, id, 10)
	if err != nil {
		return nil, fmt.Errorf("items: failed to load bids: %w", err)
	}

	return &ItemDetail{AuctionItem: *item, Bids: bids}, nil
}
