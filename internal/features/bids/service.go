package bids

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mhk-dev/bidhaus/internal/pkg/logger"
	"github.com/mhk-dev/bidhaus/internal/pkg/mailer"
	"github.com/mhk-dev/bidhaus/internal/pkg/session"
	apperrors "github.com/mhk-dev/bidhaus/pkg/errors"
)

// ItemInfo is the slice of an auction item the bid engine needs
type ItemInfo struct {
	ID          string
	Title       string
	StartingBid float64
	StartTime   time.Time
	EndTime     time.Time
}

// ItemStore reads items and maintains their current-price projection
type ItemStore interface {
	GetItem(ctx context.Context, id string) (*ItemInfo, error)
	SetCurrentBid(ctx context.Context, id string, amount float64) error
}

// BidStore is the persistence surface for bids
type BidStore interface {
	Create(ctx context.Context, bid *Bid) error
	TopBid(ctx context.Context, itemID string) (*Bid, error)
}

// Service validates and records bids. Concurrent bids on the same item are
// serialized through a per-item mutex so the precondition check always runs
// against a consistent snapshot; the currentBid projection is written only
// inside that critical section.
type Service struct {
	bids   BidStore
	items  ItemStore
	mail   mailer.Sender
	appURL string

	locks sync.Map // item id -> *sync.Mutex
}

func NewService(bids BidStore, items ItemStore, mail mailer.Sender, appURL string) *Service {
	return &Service{bids: bids, items: items, mail: mail, appURL: appURL}
}

func (s *Service) itemLock(itemID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(itemID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// PlaceBid validates the bid against the item's window and current high bid,
// records it, and updates the current price. The previous top bidder gets a
// best-effort outbid notice after the mutation commits.
func (s *Service) PlaceBid(ctx context.Context, actor *session.Payload, itemID string, amount float64) (*Bid, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: you must be logged in to place a bid", apperrors.ErrUnauthorized)
	}

	bid, outbid, err := s.record(ctx, actor, itemID, amount)
	if err != nil {
		return nil, err
	}

	if outbid != nil && outbid.UserID != actor.ID {
		s.notifyOutbid(ctx, outbid, bid)
	}

	return bid, nil
}

// record runs the serialized read-check-insert-project sequence.
func (s *Service) record(ctx context.Context, actor *session.Payload, itemID string, amount float64) (*Bid, *Bid, error) {
	mu := s.itemLock(itemID)
	mu.Lock()
	defer mu.Unlock()

	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, nil, fmt.Errorf("bids: failed to load item: %w", err)
	}
	if item == nil {
		return nil, nil, fmt.Errorf("%w: item not found", apperrors.ErrNotFound)
	}

	now := time.Now()
	if now.Before(item.StartTime) {
		return nil, nil, fmt.Errorf("%w: auction has not started yet", apperrors.ErrConflict)
	}
	if now.After(item.EndTime) {
		return nil, nil, fmt.Errorf("%w: auction has ended", apperrors.ErrConflict)
	}

	top, err := s.bids.TopBid(ctx, itemID)
	if err != nil {
		return nil, nil, fmt.Errorf("bids: failed to load current high bid: %w", err)
	}

	if top != nil && amount <= top.Amount {
		return nil, nil, fmt.Errorf("%w: bid must be higher than the current bid", apperrors.ErrConflict)
	}
	if amount < item.StartingBid {
		return nil, nil, fmt.Errorf("%w: bid must be at least the starting bid", apperrors.ErrConflict)
	}

	bid := &Bid{
		ItemID:    itemID,
		UserID:    actor.ID,
		UserEmail: actor.Email,
		TagID:     actor.TagID,
		Amount:    amount,
	}
	if err := s.bids.Create(ctx, bid); err != nil {
		return nil, nil, fmt.Errorf("bids: failed to record bid: %w", err)
	}

	// The sole mutator of the current-price projection besides reset.
	if err := s.items.SetCurrentBid(ctx, itemID, amount); err != nil {
		return nil, nil, fmt.Errorf("bids: failed to update current bid: %w", err)
	}

	return bid, top, nil
}

// notifyOutbid is fire-and-forget; a delivery failure never blocks the bid.
func (s *Service) notifyOutbid(ctx context.Context, previous, fresh *Bid) {
	if s.mail == nil || previous.UserEmail == "" {
		return
	}

	item, err := s.items.GetItem(ctx, fresh.ItemID)
	if err != nil || item == nil {
		logger.Error("failed to load item for outbid notice", map[string]any{
			"item": fresh.ItemID,
		})
		return
	}

	link := s.appURL + "/auction/items/" + fresh.ItemID
	if err := s.mail.SendOutbid(ctx, previous.UserEmail, item.Title, link, fresh.Amount, previous.Amount); err != nil {
		logger.Error("failed to send outbid notification", map[string]any{
			"item": fresh.ItemID, "email": previous.UserEmail, "error": err.Error(),
		})
	}
}
