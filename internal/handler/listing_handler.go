package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/listtra/listtra/internal/model"
	"github.com/listtra/listtra/internal/service"
)

type ListingHandler struct {
	svc service.ListingService
}

func NewListingHandler(svc service.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

type ListingResponse struct {
	ID           uint64  `json:"id"`
	SellerUID    string  `json:"sellerUid"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        int64   `json:"price"`
	CategorySlug string  `json:"categorySlug,omitempty"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	Liked        bool    `json:"liked,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type ListingListResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int64             `json:"total"`
}

type CreateListingRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        int64   `json:"price"`
	CategorySlug string  `json:"categorySlug"`
	ImageURL     *string `json:"imageUrl"`
}

type CategoryResponse struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func toListingResponse(l *model.Listing) ListingResponse {
	return ListingResponse{
		ID:           l.ID,
		SellerUID:    l.SellerUID,
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price,
		CategorySlug: l.CategorySlug,
		ImageURL:     l.ImageURL,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    l.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *ListingHandler) Create(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	l, err := h.svc.Create(c.Request().Context(), uid, req.Title, req.Description, req.Price, req.CategorySlug, req.ImageURL)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toListingResponse(l))
}

func (h *ListingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	l, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listing"))
	}
	resp := toListingResponse(l)
	if uid, _ := c.Get("uid").(string); uid != "" {
		if liked, err := h.svc.LikedIDs(c.Request().Context(), uid, []uint64{l.ID}); err == nil {
			resp.Liked = liked[l.ID]
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	category := c.QueryParam("category")
	listings, total, err := h.svc.List(c.Request().Context(), limit, offset, category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listings"))
	}
	return c.JSON(http.StatusOK, toListingListResponse(listings, total))
}

func (h *ListingHandler) Search(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	listings, err := h.svc.Search(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "search failed"))
	}
	return c.JSON(http.StatusOK, toListingListResponse(listings, int64(len(listings))))
}

func (h *ListingHandler) Update(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	l, err := h.svc.Update(c.Request().Context(), id, uid, req.Title, req.Description, req.Price, req.ImageURL)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not the seller"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, toListingResponse(l))
}

func (h *ListingHandler) Delete(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id, uid); err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not the seller"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to delete listing"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ListingHandler) Like(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Like(c.Request().Context(), id, uid); err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to like"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ListingHandler) Unlike(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Unlike(c.Request().Context(), id, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to unlike"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ListingHandler) ListLiked(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	listings, err := h.svc.ListLiked(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch liked listings"))
	}
	return c.JSON(http.StatusOK, toListingListResponse(listings, int64(len(listings))))
}

func (h *ListingHandler) Categories(c echo.Context) error {
	cats, err := h.svc.Categories(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch categories"))
	}
	resp := make([]CategoryResponse, 0, len(cats))
	for _, cat := range cats {
		resp = append(resp, CategoryResponse{Slug: cat.Slug, Name: cat.Name})
	}
	return c.JSON(http.StatusOK, resp)
}

func toListingListResponse(listings []model.Listing, total int64) ListingListResponse {
	resp := ListingListResponse{
		Listings: make([]ListingResponse, 0, len(listings)),
		Total:    total,
	}
	for i := range listings {
		resp.Listings = append(resp.Listings, toListingResponse(&listings[i]))
	}
	return resp
}
