package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/listtra/listtra/internal/service"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type ProfileResponse struct {
	UID      string  `json:"uid"`
	Email    string  `json:"email"`
	Nickname string  `json:"nickname"`
	IconURL  *string `json:"iconUrl,omitempty"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	u, err := h.svc.Register(c.Request().Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		if err == service.ErrEmailTaken {
			return c.JSON(http.StatusConflict, NewErrorResponse("email_taken", "email already registered"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, ProfileResponse{
		UID:      u.UID,
		Email:    u.Email,
		Nickname: u.Nickname,
		IconURL:  u.IconURL,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	_, pair, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return c.JSON(http.StatusUnauthorized, NewErrorResponse("invalid_credentials", "wrong email or password"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "login failed"))
	}
	return c.JSON(http.StatusOK, TokenResponse{Access: pair.Access, Refresh: pair.Refresh})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	access, err := h.svc.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return c.JSON(http.StatusUnauthorized, NewErrorResponse("invalid_refresh", "refresh token rejected"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "refresh failed"))
	}
	return c.JSON(http.StatusOK, TokenResponse{Access: access})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	uid, ok := uidFromContext(c)
	if !ok {
		return nil
	}
	u, err := h.svc.Profile(c.Request().Context(), uid)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "user not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch profile"))
	}
	return c.JSON(http.StatusOK, ProfileResponse{
		UID:      u.UID,
		Email:    u.Email,
		Nickname: u.Nickname,
		IconURL:  u.IconURL,
	})
}
