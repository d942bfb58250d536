package ratelimit

import (
	xhttp "ViralGen/pkg/http"

	"github.com/labstack/echo/v4"
)

// Middleware rejects requests with 429 once the caller's bucket is empty.
// Callers are keyed by route and client IP.
func Middleware(l *Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.Path() + "|" + c.RealIP()) {
				return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("Too many requests, slow down."))
			}
			return next(c)
		}
	}
}
