package service

import (
	"context"
	"errors"
	"strings"

	"github.com/listtra/listtra/internal/model"
	"github.com/listtra/listtra/internal/repository"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrForbidden = errors.New("forbidden")

type ListingService interface {
	Create(ctx context.Context, sellerUID, title, description string, price int64, categorySlug string, imageURL *string) (*model.Listing, error)
	Get(ctx context.Context, id uint64) (*model.Listing, error)
	List(ctx context.Context, limit, offset int, categorySlug string) ([]model.Listing, int64, error)
	Search(ctx context.Context, query string, limit int) ([]model.Listing, error)
	Update(ctx context.Context, id uint64, sellerUID, title, description string, price int64, imageURL *string) (*model.Listing, error)
	Delete(ctx context.Context, id uint64, sellerUID string) error
	Like(ctx context.Context, id uint64, userUID string) error
	Unlike(ctx context.Context, id uint64, userUID string) error
	ListLiked(ctx context.Context, userUID string) ([]model.Listing, error)
	LikedIDs(ctx context.Context, userUID string, listingIDs []uint64) (map[uint64]bool, error)
	Categories(ctx context.Context) ([]model.Category, error)
}

type listingService struct {
	repo repository.ListingRepository
}

func NewListingService(repo repository.ListingRepository) ListingService {
	return &listingService{repo: repo}
}

func (s *listingService) Create(ctx context.Context, sellerUID, title, description string, price int64, categorySlug string, imageURL *string) (*model.Listing, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	categorySlug = strings.TrimSpace(categorySlug)
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	if title == "" || len(title) > 120 {
		return nil, errors.New("invalid title")
	}
	if description == "" {
		return nil, errors.New("invalid description")
	}
	if price <= 0 {
		return nil, errors.New("invalid price")
	}
	if imageURL != nil && strings.HasPrefix(strings.TrimSpace(*imageURL), "data:") {
		return nil, errors.New("imageUrl must be a URL, not data URI")
	}

	l := &model.Listing{
		SellerUID:    sellerUID,
		Title:        title,
		Description:  description,
		Price:        price,
		CategorySlug: categorySlug,
		ImageURL:     imageURL,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *listingService) Get(ctx context.Context, id uint64) (*model.Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *listingService) List(ctx context.Context, limit, offset int, categorySlug string) ([]model.Listing, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset, strings.TrimSpace(categorySlug))
}

func (s *listingService) Search(ctx context.Context, query string, limit int) ([]model.Listing, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Listing{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.Search(ctx, query, limit)
}

func (s *listingService) Update(ctx context.Context, id uint64, sellerUID, title, description string, price int64, imageURL *string) (*model.Listing, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.SellerUID != sellerUID {
		return nil, ErrForbidden
	}
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 120 {
		return nil, errors.New("invalid title")
	}
	if price <= 0 {
		return nil, errors.New("invalid price")
	}
	l.Title = title
	l.Description = strings.TrimSpace(description)
	l.Price = price
	if imageURL != nil {
		l.ImageURL = imageURL
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *listingService) Delete(ctx context.Context, id uint64, sellerUID string) error {
	l, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if l.SellerUID != sellerUID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *listingService) Like(ctx context.Context, id uint64, userUID string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Like(ctx, id, userUID)
}

func (s *listingService) Unlike(ctx context.Context, id uint64, userUID string) error {
	return s.repo.Unlike(ctx, id, userUID)
}

func (s *listingService) ListLiked(ctx context.Context, userUID string) ([]model.Listing, error) {
	return s.repo.ListLiked(ctx, userUID)
}

func (s *listingService) LikedIDs(ctx context.Context, userUID string, listingIDs []uint64) (map[uint64]bool, error) {
	return s.repo.LikedIDs(ctx, userUID, listingIDs)
}

func (s *listingService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}
