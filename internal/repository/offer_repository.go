package repository

import (
	"context"

	"github.com/listtra/listtra/internal/model"
	"gorm.io/gorm"
)

type OfferRepository interface {
	Create(ctx context.Context, o *model.Offer) error
	FindByID(ctx context.Context, id string) (*model.Offer, error)
	FindPendingByConversation(ctx context.Context, convID uint64) (*model.Offer, error)
	FindAcceptedByListingAndBuyer(ctx context.Context, listingID uint64, buyerUID string) (*model.Offer, error)
	UpdateStatus(ctx context.Context, id string, status model.OfferStatus) error
	ListByConversation(ctx context.Context, convID uint64) ([]model.Offer, error)
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(ctx context.Context, o *model.Offer) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *offerRepository) FindByID(ctx context.Context, id string) (*model.Offer, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var o model.Offer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *offerRepository) FindPendingByConversation(ctx context.Context, convID uint64) (*model.Offer, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var o model.Offer
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND status = ?", convID, model.OfferStatusPending).
		Order("created_at DESC").
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *offerRepository) FindAcceptedByListingAndBuyer(ctx context.Context, listingID uint64, buyerUID string) (*model.Offer, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var o model.Offer
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND buyer_uid = ? AND status = ?", listingID, buyerUID, model.OfferStatusAccepted).
		Order("updated_at DESC").
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *offerRepository) UpdateStatus(ctx context.Context, id string, status model.OfferStatus) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.Offer{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *offerRepository) ListByConversation(ctx context.Context, convID uint64) ([]model.Offer, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var offers []model.Offer
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at ASC").
		Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}
