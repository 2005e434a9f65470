package repository

import (
	"context"

	"github.com/listtra/listtra/internal/model"
	"gorm.io/gorm"
)

type ListingRepository interface {
	Create(ctx context.Context, l *model.Listing) error
	FindByID(ctx context.Context, id uint64) (*model.Listing, error)
	List(ctx context.Context, limit, offset int, categorySlug string) ([]model.Listing, int64, error)
	Search(ctx context.Context, query string, limit int) ([]model.Listing, error)
	Update(ctx context.Context, l *model.Listing) error
	Delete(ctx context.Context, id uint64) error
	Like(ctx context.Context, listingID uint64, userUID string) error
	Unlike(ctx context.Context, listingID uint64, userUID string) error
	ListLiked(ctx context.Context, userUID string) ([]model.Listing, error)
	LikedIDs(ctx context.Context, userUID string, listingIDs []uint64) (map[uint64]bool, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, l *model.Listing) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id uint64) (*model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var l model.Listing
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listingRepository) List(ctx context.Context, limit, offset int, categorySlug string) ([]model.Listing, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	var (
		listings []model.Listing
		total    int64
	)
	q := r.db.WithContext(ctx).Model(&model.Listing{})
	if categorySlug != "" {
		q = q.Where("category_slug = ?", categorySlug)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *listingRepository) Search(ctx context.Context, query string, limit int) ([]model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var listings []model.Listing
	pattern := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("title LIKE ? OR description LIKE ?", pattern, pattern).
		Order("created_at desc").
		Limit(limit).
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) Update(ctx context.Context, l *model.Listing) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *listingRepository) Delete(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Delete(&model.Listing{}, id).Error
}

func (r *listingRepository) Like(ctx context.Context, listingID uint64, userUID string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	like := model.Like{ListingID: listingID, UserUID: userUID}
	return r.db.WithContext(ctx).
		Where("listing_id = ? AND user_uid = ?", listingID, userUID).
		FirstOrCreate(&like).Error
}

func (r *listingRepository) Unlike(ctx context.Context, listingID uint64, userUID string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Where("listing_id = ? AND user_uid = ?", listingID, userUID).
		Delete(&model.Like{}).Error
}

func (r *listingRepository) ListLiked(ctx context.Context, userUID string) ([]model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var listings []model.Listing
	if err := r.db.WithContext(ctx).
		Joins("JOIN likes ON likes.listing_id = listings.id").
		Where("likes.user_uid = ?", userUID).
		Order("likes.created_at desc").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) LikedIDs(ctx context.Context, userUID string, listingIDs []uint64) (map[uint64]bool, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	liked := make(map[uint64]bool, len(listingIDs))
	if len(listingIDs) == 0 {
		return liked, nil
	}
	var likes []model.Like
	if err := r.db.WithContext(ctx).
		Where("user_uid = ? AND listing_id IN ?", userUID, listingIDs).
		Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, lk := range likes {
		liked[lk.ListingID] = true
	}
	return liked, nil
}

func (r *listingRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var cats []model.Category
	if err := r.db.WithContext(ctx).Order("id asc").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}
