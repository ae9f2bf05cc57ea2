package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mhk-dev/bidhaus/internal/config"
	"github.com/mhk-dev/bidhaus/internal/features/auth"
	"github.com/mhk-dev/bidhaus/internal/features/bids"
	"github.com/mhk-dev/bidhaus/internal/features/items"
	"github.com/mhk-dev/bidhaus/internal/features/users"
	"github.com/mhk-dev/bidhaus/internal/pkg/blob"
	"github.com/mhk-dev/bidhaus/internal/pkg/logger"
	"github.com/mhk-dev/bidhaus/internal/pkg/mailer"
	"github.com/mhk-dev/bidhaus/internal/pkg/session"
)

// itemsBidStoreAdapter adapts bids.Repository to items.BidStore
type itemsBidStoreAdapter struct {
	repo *bids.Repository
}

func toBidRecord(b *bids.Bid) *items.BidRecord {
	return &items.BidRecord{
		UserID:    b.UserID,
		UserEmail: b.UserEmail,
		TagID:     b.TagID,
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt,
	}
}

func (a *itemsBidStoreAdapter) TopBid(ctx context.Context, itemID string) (*items.BidRecord, error) {
	bid, err := a.repo.TopBid(ctx, itemID)
	if err != nil || bid == nil {
		return nil, err
	}
	return toBidRecord(bid), nil
}

func (a *itemsBidStoreAdapter) ListByItem(ctx context.Context, itemID string, limit int) ([]items.BidRecord, error) {
	list, err := a.repo.ListByItem(ctx, itemID, limit)
	if err != nil {
		return nil, err
	}

	records := make([]items.BidRecord, 0, len(list))
	for i := range list {
		records = append(records, *toBidRecord(&list[i]))
	}
	return records, nil
}

func (a *itemsBidStoreAdapter) DeleteByItem(ctx context.Context, itemID string) error {
	return a.repo.DeleteByItem(ctx, itemID)
}

// bidsItemStoreAdapter adapts items.Repository to bids.ItemStore
type bidsItemStoreAdapter struct {
	repo *items.Repository
}

func (a *bidsItemStoreAdapter) GetItem(ctx context.Context, id string) (*bids.ItemInfo, error) {
	item, err := a.repo.GetByID(ctx, id)
	if err != nil || item == nil {
		return nil, err
	}
	return &bids.ItemInfo{
		ID:          item.ID.Hex(),
		Title:       item.Title,
		StartingBid: item.StartingBid,
		StartTime:   item.StartTime,
		EndTime:     item.EndTime,
	}, nil
}

func (a *bidsItemStoreAdapter) SetCurrentBid(ctx context.Context, id string, amount float64) error {
	return a.repo.SetCurrentBid(ctx, id, amount)
}

func SetupRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config, codec *session.Codec) {
	authRepo := auth.NewRepository(db)
	itemsRepo := items.NewRepository(db)
	bidsRepo := bids.NewRepository(db)

	var mail mailer.Sender
	if rs, err := mailer.NewResend(cfg.ResendAPIKey); err == nil {
		mail = rs
	} else {
		logger.Warn("email disabled", map[string]any{"reason": err.Error()})
	}

	var uploader blob.Uploader
	if cfg.HasCloudinary() {
		cld, err := blob.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, "bidhaus")
		if err != nil {
			logger.Warn("cloudinary unavailable, using local uploads", map[string]any{"error": err.Error()})
			uploader = blob.NewLocal(cfg.UploadDir)
		} else {
			uploader = cld
		}
	} else {
		uploader = blob.NewLocal(cfg.UploadDir)
	}

	auth.RegisterRoutes(router, db, cfg, codec, mail)
	items.RegisterRoutes(router, itemsRepo, &itemsBidStoreAdapter{repo: bidsRepo}, mail, uploader)
	bids.RegisterRoutes(router, bidsRepo, &bidsItemStoreAdapter{repo: itemsRepo}, mail, cfg.AppURL)
	users.RegisterRoutes(router, authRepo)
}
