package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// problemDetails mirrors the RFC 7807 body the handlers write, so clients
// parse middleware rejections the same way
type problemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

const (
	errorTypeUnauthorized = "https://fintrack.app/errors/unauthorized"
	errorTypeRateLimit    = "https://fintrack.app/errors/rate-limit"
)

func writeProblem(c echo.Context, status int, problemType, title, detail string) error {
	return c.JSON(status, problemDetails{
		Type:     problemType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

func unauthorizedError(c echo.Context, detail string) error {
	return writeProblem(c, http.StatusUnauthorized, errorTypeUnauthorized, "Unauthorized", detail)
}

func tooManyRequestsError(c echo.Context, detail string) error {
	return writeProblem(c, http.StatusTooManyRequests, errorTypeRateLimit, "Rate Limit Exceeded", detail)
}
