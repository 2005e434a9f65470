package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/listtra/listtra/internal/model"
	"github.com/listtra/listtra/internal/repository"
	"gorm.io/gorm"
)

var ErrOfferNotPending = errors.New("offer_not_pending")

type OfferService interface {
	Accept(ctx context.Context, offerID, uid string) (*model.Offer, error)
	Reject(ctx context.Context, offerID, uid string) (*model.Offer, error)
	Cancel(ctx context.Context, offerID, uid string) (*model.Offer, error)
}

type offerService struct {
	offerRepo repository.OfferRepository
	convRepo  repository.ConversationRepository
	notifier  NotificationService
}

func NewOfferService(offerRepo repository.OfferRepository, convRepo repository.ConversationRepository, notifier NotificationService) OfferService {
	return &offerService{offerRepo: offerRepo, convRepo: convRepo, notifier: notifier}
}

func (s *offerService) Accept(ctx context.Context, offerID, uid string) (*model.Offer, error) {
	return s.transition(ctx, offerID, uid, model.OfferStatusAccepted)
}

func (s *offerService) Reject(ctx context.Context, offerID, uid string) (*model.Offer, error) {
	return s.transition(ctx, offerID, uid, model.OfferStatusRejected)
}

func (s *offerService) Cancel(ctx context.Context, offerID, uid string) (*model.Offer, error) {
	return s.transition(ctx, offerID, uid, model.OfferStatusCancelled)
}

// transition applies a single pending→terminal step. Accept and reject belong
// to the seller, cancel to the buyer who created the offer.
func (s *offerService) transition(ctx context.Context, offerID, uid string, to model.OfferStatus) (*model.Offer, error) {
	o, err := s.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	cv, err := s.convRepo.FindByID(ctx, o.ConversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch to {
	case model.OfferStatusAccepted, model.OfferStatusRejected:
		if uid != cv.SellerUID {
			return nil, ErrForbidden
		}
	case model.OfferStatusCancelled:
		if uid != o.BuyerUID {
			return nil, ErrForbidden
		}
	default:
		return nil, errors.New("invalid transition")
	}
	if o.Status != model.OfferStatusPending {
		return nil, ErrOfferNotPending
	}

	if err := s.offerRepo.UpdateStatus(ctx, offerID, to); err != nil {
		return nil, err
	}
	o.Status = to

	// Status changes do not add offer cards, but the transcript still needs a
	// visible trace, and the poller only re-ingests when the list grows.
	body := fmt.Sprintf("Offer of ₹%d has been %s", o.Price, to)
	_ = s.convRepo.CreateMessage(ctx, &model.Message{
		ConversationID: cv.ID,
		SenderUID:      uid,
		Body:           body,
	})

	other := cv.BuyerUID
	if uid == cv.BuyerUID {
		other = cv.SellerUID
	}
	s.notifier.Notify(ctx, other, "offer_"+string(to), "Offer "+string(to), body, &cv.ListingID, &cv.ID)

	return o, nil
}
