package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/listtra/listtra/internal/model"
	"github.com/listtra/listtra/internal/service"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type CreateReviewRequest struct {
	ListingID uint64 `json:"listingId"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
}

type ReviewResponse struct {
	ID          uint64 `json:"id"`
	ReviewerUID string `json:"reviewerUid"`
	ReviewedUID string `json:"reviewedUid"`
	ListingID   uint64 `json:"listingId"`
	Rating      int    `json:"rating"`
	Text        string `json:"text,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

func toReviewResponse(rv *model.Review) ReviewResponse {
	return ReviewResponse{
		ID:          rv.ID,
		ReviewerUID: rv.ReviewerUID,
		ReviewedUID: rv.ReviewedUID,
		ListingID:   rv.ListingID,
		Rating:      rv.Rating,
		Text:        rv.Text,
		CreatedAt:   rv.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ReviewHandler) Create(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	rv, err := h.svc.Create(c.Request().Context(), uid, req.ListingID, req.Rating, req.Text)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "no completed negotiation for this listing"))
		case service.ErrAlreadyReviewed:
			return c.JSON(http.StatusConflict, NewErrorResponse("already_reviewed", "review already submitted"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toReviewResponse(rv))
}

func (h *ReviewHandler) Check(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	listingID, err := strconv.ParseUint(c.QueryParam("listingId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	reviewed, err := h.svc.HasReviewed(c.Request().Context(), uid, listingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to check review"))
	}
	return c.JSON(http.StatusOK, map[string]bool{"reviewed": reviewed})
}

func (h *ReviewHandler) ListForUser(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid uid"))
	}
	reviews, err := h.svc.ListForUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch reviews"))
	}
	resp := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, toReviewResponse(&reviews[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
