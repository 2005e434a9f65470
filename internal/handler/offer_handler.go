package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/listtra/listtra/internal/model"
	"github.com/listtra/listtra/internal/service"
)

type OfferHandler struct {
	svc service.OfferService
}

func NewOfferHandler(svc service.OfferService) *OfferHandler {
	return &OfferHandler{svc: svc}
}

func (h *OfferHandler) Accept(c echo.Context) error {
	return h.respond(c, h.svc.Accept)
}

func (h *OfferHandler) Reject(c echo.Context) error {
	return h.respond(c, h.svc.Reject)
}

func (h *OfferHandler) Cancel(c echo.Context) error {
	return h.respond(c, h.svc.Cancel)
}

func (h *OfferHandler) respond(c echo.Context, transition func(ctx context.Context, offerID, uid string) (*model.Offer, error)) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	offerID := c.Param("id")
	if offerID == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid offer id"))
	}
	o, err := transition(c.Request().Context(), offerID, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "offer not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "wrong role for this action"))
		case service.ErrOfferNotPending:
			return c.JSON(http.StatusConflict, NewErrorResponse("offer_not_pending", "offer is no longer pending"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to update offer"))
	}
	return c.JSON(http.StatusOK, OfferPayload{
		ID:       o.ID,
		Price:    o.Price,
		Status:   string(o.Status),
		BuyerUID: o.BuyerUID,
	})
}
