package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/listtra/listtra/internal/model"
	"github.com/listtra/listtra/internal/repository"
	"gorm.io/gorm"
)

var ErrAlreadyReviewed = errors.New("already_reviewed")

type ReviewService interface {
	Create(ctx context.Context, reviewerUID string, listingID uint64, rating int, text string) (*model.Review, error)
	HasReviewed(ctx context.Context, reviewerUID string, listingID uint64) (bool, error)
	ListForUser(ctx context.Context, uid string) ([]model.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	offerRepo   repository.OfferRepository
	listingRepo repository.ListingRepository
	notifier    NotificationService
}

func NewReviewService(reviewRepo repository.ReviewRepository, offerRepo repository.OfferRepository, listingRepo repository.ListingRepository, notifier NotificationService) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, offerRepo: offerRepo, listingRepo: listingRepo, notifier: notifier}
}

func (s *reviewService) Create(ctx context.Context, reviewerUID string, listingID uint64, rating int, text string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}
	l, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if l.SellerUID == reviewerUID {
		return nil, ErrForbidden
	}
	// Only the buyer of an accepted offer may review the seller.
	if _, err := s.offerRepo.FindAcceptedByListingAndBuyer(ctx, listingID, reviewerUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if exists, err := s.reviewRepo.Exists(ctx, reviewerUID, listingID); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrAlreadyReviewed
	}

	rv := &model.Review{
		ReviewerUID: reviewerUID,
		ReviewedUID: l.SellerUID,
		ListingID:   listingID,
		Rating:      rating,
		Text:        text,
	}
	if err := s.reviewRepo.Create(ctx, rv); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	s.notifier.Notify(ctx, l.SellerUID, "review", fmt.Sprintf("New %d-star review", rating), text, &listingID, nil)
	return rv, nil
}

func (s *reviewService) HasReviewed(ctx context.Context, reviewerUID string, listingID uint64) (bool, error) {
	return s.reviewRepo.Exists(ctx, reviewerUID, listingID)
}

func (s *reviewService) ListForUser(ctx context.Context, uid string) ([]model.Review, error) {
	return s.reviewRepo.ListByReviewedUID(ctx, uid)
}
