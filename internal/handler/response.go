package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// uidFromContext returns the uid stored by the auth middleware, or writes a
// 401 and returns false.
func uidFromContext(c echo.Context) (string, bool) {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		_ = c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
		return "", false
	}
	return uid, true
}
