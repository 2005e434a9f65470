package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/listtra/listtra/internal/service"
)

type ConversationHandler struct {
	svc service.ConversationService
}

func NewConversationHandler(svc service.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

type ListingSummary struct {
	ID       uint64  `json:"id"`
	Title    string  `json:"title"`
	Price    int64   `json:"price"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

type ParticipantSummary struct {
	UID      string  `json:"uid"`
	Nickname string  `json:"nickname"`
	IconURL  *string `json:"iconUrl,omitempty"`
}

type ConversationResponse struct {
	ConversationID   uint64              `json:"conversationId"`
	ListingID        uint64              `json:"listingId"`
	SellerUID        string              `json:"sellerUid"`
	BuyerUID         string              `json:"buyerUid"`
	HasUnread        bool                `json:"hasUnread,omitempty"`
	ReviewedByBuyer  bool                `json:"reviewedByBuyer,omitempty"`
	Listing          *ListingSummary     `json:"listing,omitempty"`
	OtherParticipant *ParticipantSummary `json:"otherParticipant,omitempty"`
}

type OfferPayload struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Status   string `json:"status"`
	BuyerUID string `json:"buyerUid"`
}

type MessageResponse struct {
	ID             uint64        `json:"id"`
	ConversationID uint64        `json:"conversationId"`
	SenderUID      string        `json:"senderUid"`
	Body           string        `json:"body"`
	IsOffer        bool          `json:"isOffer"`
	Offer          *OfferPayload `json:"offer,omitempty"`
	CreatedAt      string        `json:"createdAt"`
}

type SendMessageRequest struct {
	ConversationID uint64 `json:"conversationId"`
	Body           string `json:"body"`
	IsOffer        bool   `json:"isOffer"`
	Price          int64  `json:"price"`
}

func toConversationResponse(d *service.ConversationDetail) ConversationResponse {
	resp := ConversationResponse{
		ConversationID:  d.Conversation.ID,
		ListingID:       d.Conversation.ListingID,
		SellerUID:       d.Conversation.SellerUID,
		BuyerUID:        d.Conversation.BuyerUID,
		HasUnread:       d.HasUnread,
		ReviewedByBuyer: d.ReviewedByBuyer,
	}
	if d.Listing != nil {
		resp.Listing = &ListingSummary{
			ID:       d.Listing.ID,
			Title:    d.Listing.Title,
			Price:    d.Listing.Price,
			ImageURL: d.Listing.ImageURL,
		}
	}
	if d.OtherParticipant != nil {
		resp.OtherParticipant = &ParticipantSummary{
			UID:      d.OtherParticipant.UID,
			Nickname: d.OtherParticipant.Nickname,
			IconURL:  d.OtherParticipant.IconURL,
		}
	}
	return resp
}

func toMessageResponse(mo service.MessageWithOffer) MessageResponse {
	resp := MessageResponse{
		ID:             mo.Message.ID,
		ConversationID: mo.Message.ConversationID,
		SenderUID:      mo.Message.SenderUID,
		Body:           mo.Message.Body,
		IsOffer:        mo.Message.IsOffer,
		CreatedAt:      mo.Message.CreatedAt.Format(time.RFC3339),
	}
	if mo.Offer != nil {
		resp.Offer = &OfferPayload{
			ID:       mo.Offer.ID,
			Price:    mo.Offer.Price,
			Status:   string(mo.Offer.Status),
			BuyerUID: mo.Offer.BuyerUID,
		}
	}
	return resp
}

func (h *ConversationHandler) CreateFromListing(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	cv, err := h.svc.CreateOrGet(c.Request().Context(), listingID, uid)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, ConversationResponse{
		ConversationID: cv.ID,
		ListingID:      cv.ListingID,
		SellerUID:      cv.SellerUID,
		BuyerUID:       cv.BuyerUID,
	})
}

func (h *ConversationHandler) List(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	details, err := h.svc.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch conversations"))
	}
	resp := make([]ConversationResponse, 0, len(details))
	for i := range details {
		resp = append(resp, toConversationResponse(&details[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ConversationHandler) Get(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	detail, err := h.svc.Get(c.Request().Context(), convID, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch conversation"))
	}
	return c.JSON(http.StatusOK, toConversationResponse(detail))
}

func (h *ConversationHandler) ListMessages(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	msgs, err := h.svc.ListMessages(c.Request().Context(), convID, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch messages"))
	}
	resp := make([]MessageResponse, 0, len(msgs))
	for _, mo := range msgs {
		resp = append(resp, toMessageResponse(mo))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ConversationHandler) CreateMessage(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.ConversationID == 0 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "conversationId is required"))
	}
	mo, err := h.svc.CreateMessage(c.Request().Context(), req.ConversationID, uid, req.Body, req.IsOffer, req.Price)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
		case service.ErrOfferPending:
			return c.JSON(http.StatusConflict, NewErrorResponse("offer_pending", "an offer is already pending"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toMessageResponse(*mo))
}

func (h *ConversationHandler) MarkRead(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	if err := h.svc.MarkRead(c.Request().Context(), convID, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to mark read"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
