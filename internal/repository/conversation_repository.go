package repository

import (
	"context"
	"time"

	"github.com/listtra/listtra/internal/model"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	FindOrCreate(ctx context.Context, listingID uint64, sellerUID, buyerUID string) (*model.Conversation, error)
	FindByUser(ctx context.Context, uid string) ([]model.Conversation, error)
	FindByID(ctx context.Context, id uint64) (*model.Conversation, error)
	CreateMessage(ctx context.Context, msg *model.Message) error
	ListMessages(ctx context.Context, convID uint64) ([]model.Message, error)
	LastMessageAt(ctx context.Context, convID uint64) (*time.Time, error)
	MarkRead(ctx context.Context, convID uint64, uid string) error
	LastReadAt(ctx context.Context, convID uint64, uid string) (*time.Time, error)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) FindOrCreate(ctx context.Context, listingID uint64, sellerUID, buyerUID string) (*model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	cv := model.Conversation{ListingID: listingID, SellerUID: sellerUID, BuyerUID: buyerUID}
	if err := r.db.WithContext(ctx).
		Where("listing_id = ? AND buyer_uid = ?", listingID, buyerUID).
		FirstOrCreate(&cv).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *conversationRepository) FindByUser(ctx context.Context, uid string) ([]model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Conversation
	if err := r.db.WithContext(ctx).
		Where("seller_uid = ? OR buyer_uid = ?", uid, uid).
		Order("updated_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id uint64) (*model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var cv model.Conversation
	if err := r.db.WithContext(ctx).First(&cv, id).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *conversationRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", msg.ConversationID).
		Update("updated_at", msg.CreatedAt).Error
}

func (r *conversationRepository) ListMessages(ctx context.Context, convID uint64) ([]model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *conversationRepository) LastMessageAt(ctx context.Context, convID uint64) (*time.Time, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msg model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("id DESC").
		First(&msg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	t := msg.CreatedAt
	return &t, nil
}

func (r *conversationRepository) MarkRead(ctx context.Context, convID uint64, uid string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	st := model.ConversationState{ConversationID: convID, UID: uid}
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND uid = ?", convID, uid).
		FirstOrCreate(&st).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&model.ConversationState{}).
		Where("id = ?", st.ID).
		Update("last_read_at", time.Now()).Error
}

func (r *conversationRepository) LastReadAt(ctx context.Context, convID uint64, uid string) (*time.Time, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var st model.ConversationState
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND uid = ?", convID, uid).
		First(&st).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	t := st.LastReadAt
	return &t, nil
}
