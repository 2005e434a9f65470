package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/listtra/listtra/internal/model"
	"gorm.io/gorm"
)

// In-memory implementations used when no database is configured and by the
// end-to-end tests. Behavior mirrors the gorm implementations, including
// returning gorm.ErrRecordNotFound so the services stay backend-agnostic.

type MemoryUserRepository struct {
	mu    sync.Mutex
	seq   uint64
	users []model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

func (r *MemoryUserRepository) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.UID == u.UID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.seq++
	u.ID = r.seq
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users = append(r.users, *u)
	return nil
}

func (r *MemoryUserRepository) FindByUID(_ context.Context, uid string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].UID == uid {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].Email == email {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) FindByRefreshToken(_ context.Context, token string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range r.users {
		if r.users[i].RefreshToken == token {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) UpdateRefreshToken(_ context.Context, uid, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].UID == uid {
			r.users[i].RefreshToken = token
			r.users[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type MemoryListingRepository struct {
	mu         sync.Mutex
	seq        uint64
	listings   []model.Listing
	likes      map[uint64]map[string]time.Time
	categories []model.Category
}

func NewMemoryListingRepository() *MemoryListingRepository {
	return &MemoryListingRepository{likes: make(map[uint64]map[string]time.Time)}
}

func (r *MemoryListingRepository) Create(_ context.Context, l *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	l.ID = r.seq
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	r.listings = append(r.listings, *l)
	return nil
}

func (r *MemoryListingRepository) FindByID(_ context.Context, id uint64) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.listings {
		if r.listings[i].ID == id {
			l := r.listings[i]
			return &l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryListingRepository) List(_ context.Context, limit, offset int, categorySlug string) ([]model.Listing, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var filtered []model.Listing
	for _, l := range r.listings {
		if categorySlug == "" || l.CategorySlug == categorySlug {
			filtered = append(filtered, l)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	total := int64(len(filtered))
	if offset >= len(filtered) {
		return []model.Listing{}, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return append([]model.Listing(nil), filtered[offset:end]...), total, nil
}

func (r *MemoryListingRepository) Search(_ context.Context, query string, limit int) ([]model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []model.Listing
	for _, l := range r.listings {
		if strings.Contains(strings.ToLower(l.Title), q) || strings.Contains(strings.ToLower(l.Description), q) {
			out = append(out, l)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *MemoryListingRepository) Update(_ context.Context, l *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.listings {
		if r.listings[i].ID == l.ID {
			l.UpdatedAt = time.Now()
			r.listings[i] = *l
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *MemoryListingRepository) Delete(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.listings {
		if r.listings[i].ID == id {
			r.listings = append(r.listings[:i], r.listings[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *MemoryListingRepository) Like(_ context.Context, listingID uint64, userUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.likes[listingID] == nil {
		r.likes[listingID] = make(map[string]time.Time)
	}
	if _, ok := r.likes[listingID][userUID]; !ok {
		r.likes[listingID][userUID] = time.Now()
	}
	return nil
}

func (r *MemoryListingRepository) Unlike(_ context.Context, listingID uint64, userUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.likes[listingID]; m != nil {
		delete(m, userUID)
	}
	return nil
}

func (r *MemoryListingRepository) ListLiked(_ context.Context, userUID string) ([]model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Listing
	for _, l := range r.listings {
		if m := r.likes[l.ID]; m != nil {
			if _, ok := m[userUID]; ok {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

func (r *MemoryListingRepository) LikedIDs(_ context.Context, userUID string, listingIDs []uint64) (map[uint64]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	liked := make(map[uint64]bool, len(listingIDs))
	for _, id := range listingIDs {
		if m := r.likes[id]; m != nil {
			if _, ok := m[userUID]; ok {
				liked[id] = true
			}
		}
	}
	return liked, nil
}

func (r *MemoryListingRepository) ListCategories(_ context.Context) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Category(nil), r.categories...), nil
}

func (r *MemoryListingRepository) SeedCategories(cats []model.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = append([]model.Category(nil), cats...)
}

type MemoryConversationRepository struct {
	mu     sync.Mutex
	seq    uint64
	msgSeq uint64
	convs  []model.Conversation
	msgs   []model.Message
	reads  map[string]time.Time // key: convID/uid
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{reads: make(map[string]time.Time)}
}

func readKey(convID uint64, uid string) string {
	return strconv.FormatUint(convID, 10) + "/" + uid
}

func (r *MemoryConversationRepository) FindOrCreate(_ context.Context, listingID uint64, sellerUID, buyerUID string) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.convs {
		if r.convs[i].ListingID == listingID && r.convs[i].BuyerUID == buyerUID {
			cv := r.convs[i]
			return &cv, nil
		}
	}
	r.seq++
	cv := model.Conversation{
		ID:        r.seq,
		ListingID: listingID,
		SellerUID: sellerUID,
		BuyerUID:  buyerUID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.convs = append(r.convs, cv)
	return &cv, nil
}

func (r *MemoryConversationRepository) FindByUser(_ context.Context, uid string) ([]model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Conversation
	for _, cv := range r.convs {
		if cv.SellerUID == uid || cv.BuyerUID == uid {
			out = append(out, cv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *MemoryConversationRepository) FindByID(_ context.Context, id uint64) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.convs {
		if r.convs[i].ID == id {
			cv := r.convs[i]
			return &cv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryConversationRepository) CreateMessage(_ context.Context, msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgSeq++
	msg.ID = r.msgSeq
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	r.msgs = append(r.msgs, *msg)
	for i := range r.convs {
		if r.convs[i].ID == msg.ConversationID {
			r.convs[i].UpdatedAt = msg.CreatedAt
		}
	}
	return nil
}

func (r *MemoryConversationRepository) ListMessages(_ context.Context, convID uint64) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Message
	for _, m := range r.msgs {
		if m.ConversationID == convID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemoryConversationRepository) LastMessageAt(_ context.Context, convID uint64) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *time.Time
	for _, m := range r.msgs {
		if m.ConversationID == convID {
			t := m.CreatedAt
			last = &t
		}
	}
	return last, nil
}

func (r *MemoryConversationRepository) MarkRead(_ context.Context, convID uint64, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads[readKey(convID, uid)] = time.Now()
	return nil
}

func (r *MemoryConversationRepository) LastReadAt(_ context.Context, convID uint64, uid string) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.reads[readKey(convID, uid)]; ok {
		return &t, nil
	}
	return nil, nil
}

type MemoryOfferRepository struct {
	mu     sync.Mutex
	offers []model.Offer
}

func NewMemoryOfferRepository() *MemoryOfferRepository {
	return &MemoryOfferRepository{}
}

func (r *MemoryOfferRepository) Create(_ context.Context, o *model.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	r.offers = append(r.offers, *o)
	return nil
}

func (r *MemoryOfferRepository) FindByID(_ context.Context, id string) (*model.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.offers {
		if r.offers[i].ID == id {
			o := r.offers[i]
			return &o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryOfferRepository) FindPendingByConversation(_ context.Context, convID uint64) (*model.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.offers) - 1; i >= 0; i-- {
		if r.offers[i].ConversationID == convID && r.offers[i].Status == model.OfferStatusPending {
			o := r.offers[i]
			return &o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryOfferRepository) FindAcceptedByListingAndBuyer(_ context.Context, listingID uint64, buyerUID string) (*model.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.offers) - 1; i >= 0; i-- {
		o := r.offers[i]
		if o.ListingID == listingID && o.BuyerUID == buyerUID && o.Status == model.OfferStatusAccepted {
			return &o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryOfferRepository) UpdateStatus(_ context.Context, id string, status model.OfferStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.offers {
		if r.offers[i].ID == id {
			r.offers[i].Status = status
			r.offers[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *MemoryOfferRepository) ListByConversation(_ context.Context, convID uint64) ([]model.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Offer
	for _, o := range r.offers {
		if o.ConversationID == convID {
			out = append(out, o)
		}
	}
	return out, nil
}

type MemoryReviewRepository struct {
	mu      sync.Mutex
	seq     uint64
	reviews []model.Review
}

func NewMemoryReviewRepository() *MemoryReviewRepository {
	return &MemoryReviewRepository{}
}

func (r *MemoryReviewRepository) Create(_ context.Context, rv *model.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.ReviewerUID == rv.ReviewerUID && existing.ListingID == rv.ListingID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.seq++
	rv.ID = r.seq
	rv.CreatedAt = time.Now()
	r.reviews = append(r.reviews, *rv)
	return nil
}

func (r *MemoryReviewRepository) Exists(_ context.Context, reviewerUID string, listingID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.ReviewerUID == reviewerUID && rv.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryReviewRepository) ListByReviewedUID(_ context.Context, reviewedUID string) ([]model.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Review
	for _, rv := range r.reviews {
		if rv.ReviewedUID == reviewedUID {
			out = append(out, rv)
		}
	}
	return out, nil
}

type MemoryNotificationRepository struct {
	mu   sync.Mutex
	seq  uint64
	list []model.Notification
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{}
}

func (r *MemoryNotificationRepository) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	n.ID = r.seq
	n.CreatedAt = time.Now()
	r.list = append(r.list, *n)
	return nil
}

func (r *MemoryNotificationRepository) ListByUser(_ context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	var out []model.Notification
	for i := len(r.list) - 1; i >= 0 && len(out) < limit; i-- {
		n := r.list[i]
		if n.UserUID != userUID {
			continue
		}
		if unreadOnly && n.ReadAt != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *MemoryNotificationRepository) MarkAllRead(_ context.Context, userUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for i := range r.list {
		if r.list[i].UserUID == userUID && r.list[i].ReadAt == nil {
			t := now
			r.list[i].ReadAt = &t
		}
	}
	return nil
}

func (r *MemoryNotificationRepository) CountUnread(_ context.Context, userUID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cnt int64
	for _, n := range r.list {
		if n.UserUID == userUID && n.ReadAt == nil {
			cnt++
		}
	}
	return cnt, nil
}
