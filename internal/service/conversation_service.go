package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/listtra/listtra/internal/model"
	"github.com/listtra/listtra/internal/repository"
	"gorm.io/gorm"
)

var ErrOfferPending = errors.New("offer_pending")

type MessageWithOffer struct {
	Message model.Message
	Offer   *model.Offer
}

type ConversationDetail struct {
	Conversation     model.Conversation
	Listing          *model.Listing
	OtherParticipant *model.User
	HasUnread        bool
	ReviewedByBuyer  bool
}

type ConversationService interface {
	CreateOrGet(ctx context.Context, listingID uint64, buyerUID string) (*model.Conversation, error)
	ListByUser(ctx context.Context, uid string) ([]ConversationDetail, error)
	Get(ctx context.Context, convID uint64, uid string) (*ConversationDetail, error)
	ListMessages(ctx context.Context, convID uint64, uid string) ([]MessageWithOffer, error)
	CreateMessage(ctx context.Context, convID uint64, uid, body string, isOffer bool, price int64) (*MessageWithOffer, error)
	MarkRead(ctx context.Context, convID uint64, uid string) error
}

type conversationService struct {
	convRepo    repository.ConversationRepository
	listingRepo repository.ListingRepository
	offerRepo   repository.OfferRepository
	reviewRepo  repository.ReviewRepository
	userRepo    repository.UserRepository
	notifier    NotificationService
}

func NewConversationService(
	convRepo repository.ConversationRepository,
	listingRepo repository.ListingRepository,
	offerRepo repository.OfferRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
) ConversationService {
	return &conversationService{
		convRepo:    convRepo,
		listingRepo: listingRepo,
		offerRepo:   offerRepo,
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

func (s *conversationService) CreateOrGet(ctx context.Context, listingID uint64, buyerUID string) (*model.Conversation, error) {
	l, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if l.SellerUID == "" {
		return nil, errors.New("listing has no seller")
	}
	if l.SellerUID == buyerUID {
		return nil, errors.New("cannot chat with yourself")
	}
	return s.convRepo.FindOrCreate(ctx, listingID, l.SellerUID, buyerUID)
}

func (s *conversationService) ListByUser(ctx context.Context, uid string) ([]ConversationDetail, error) {
	convs, err := s.convRepo.FindByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	out := make([]ConversationDetail, 0, len(convs))
	for _, cv := range convs {
		detail := ConversationDetail{Conversation: cv}
		if l, err := s.listingRepo.FindByID(ctx, cv.ListingID); err == nil {
			detail.Listing = l
		}
		otherUID := cv.SellerUID
		if uid == cv.SellerUID {
			otherUID = cv.BuyerUID
		}
		if u, err := s.userRepo.FindByUID(ctx, otherUID); err == nil {
			detail.OtherParticipant = u
		}
		detail.HasUnread = s.hasUnread(ctx, cv.ID, uid)
		out = append(out, detail)
	}
	return out, nil
}

func (s *conversationService) hasUnread(ctx context.Context, convID uint64, uid string) bool {
	lastMsg, err := s.convRepo.LastMessageAt(ctx, convID)
	if err != nil || lastMsg == nil {
		return false
	}
	lastRead, err := s.convRepo.LastReadAt(ctx, convID, uid)
	if err != nil {
		return false
	}
	return lastRead == nil || lastMsg.After(*lastRead)
}

func (s *conversationService) Get(ctx context.Context, convID uint64, uid string) (*ConversationDetail, error) {
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cv.BuyerUID != uid && cv.SellerUID != uid {
		return nil, ErrForbidden
	}
	detail := &ConversationDetail{Conversation: *cv}
	if l, err := s.listingRepo.FindByID(ctx, cv.ListingID); err == nil {
		detail.Listing = l
	}
	otherUID := cv.SellerUID
	if uid == cv.SellerUID {
		otherUID = cv.BuyerUID
	}
	if u, err := s.userRepo.FindByUID(ctx, otherUID); err == nil {
		detail.OtherParticipant = u
	}
	if reviewed, err := s.reviewRepo.Exists(ctx, cv.BuyerUID, cv.ListingID); err == nil {
		detail.ReviewedByBuyer = reviewed
	}
	return detail, nil
}

func (s *conversationService) ListMessages(ctx context.Context, convID uint64, uid string) ([]MessageWithOffer, error) {
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cv.BuyerUID != uid && cv.SellerUID != uid {
		return nil, ErrForbidden
	}
	msgs, err := s.convRepo.ListMessages(ctx, convID)
	if err != nil {
		return nil, err
	}
	offers, err := s.offerRepo.ListByConversation(ctx, convID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Offer, len(offers))
	for i := range offers {
		byID[offers[i].ID] = &offers[i]
	}
	out := make([]MessageWithOffer, 0, len(msgs))
	for _, m := range msgs {
		mo := MessageWithOffer{Message: m}
		if m.OfferID != nil {
			mo.Offer = byID[*m.OfferID]
		}
		out = append(out, mo)
	}
	return out, nil
}

func (s *conversationService) CreateMessage(ctx context.Context, convID uint64, uid, body string, isOffer bool, price int64) (*MessageWithOffer, error) {
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cv.BuyerUID != uid && cv.SellerUID != uid {
		return nil, ErrForbidden
	}

	msg := &model.Message{
		ConversationID: convID,
		SenderUID:      uid,
		Body:           body,
		IsOffer:        isOffer,
	}
	var offer *model.Offer
	if isOffer {
		if uid != cv.BuyerUID {
			return nil, ErrForbidden
		}
		if price <= 0 {
			return nil, errors.New("invalid offer amount")
		}
		if _, err := s.offerRepo.FindPendingByConversation(ctx, convID); err == nil {
			return nil, ErrOfferPending
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		offer = &model.Offer{
			ID:             uuid.NewString(),
			ConversationID: convID,
			ListingID:      cv.ListingID,
			BuyerUID:       uid,
			Price:          price,
			Status:         model.OfferStatusPending,
		}
		if err := s.offerRepo.Create(ctx, offer); err != nil {
			return nil, err
		}
		msg.OfferID = &offer.ID
		if msg.Body == "" {
			msg.Body = fmt.Sprintf("Made offer: ₹%d", price)
		}
	} else if body == "" {
		return nil, errors.New("body is required")
	}

	if err := s.convRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	other := cv.SellerUID
	if uid == cv.SellerUID {
		other = cv.BuyerUID
	}
	typ := "message"
	title := "New message"
	if isOffer {
		typ = "offer"
		title = fmt.Sprintf("New offer: ₹%d", price)
	}
	s.notifier.Notify(ctx, other, typ, title, msg.Body, &cv.ListingID, &convID)

	return &MessageWithOffer{Message: *msg, Offer: offer}, nil
}

func (s *conversationService) MarkRead(ctx context.Context, convID uint64, uid string) error {
	return s.convRepo.MarkRead(ctx, convID, uid)
}
