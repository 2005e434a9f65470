package repository

import (
	"context"

	"github.com/listtra/listtra/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *model.Review) error
	Exists(ctx context.Context, reviewerUID string, listingID uint64) (bool, error)
	ListByReviewedUID(ctx context.Context, reviewedUID string) ([]model.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *model.Review) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *reviewRepository) Exists(ctx context.Context, reviewerUID string, listingID uint64) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("reviewer_uid = ? AND listing_id = ?", reviewerUID, listingID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *reviewRepository) ListByReviewedUID(ctx context.Context, reviewedUID string) ([]model.Review, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var reviews []model.Review
	if err := r.db.WithContext(ctx).
		Where("reviewed_uid = ?", reviewedUID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
