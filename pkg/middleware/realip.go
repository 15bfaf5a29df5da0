package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// RealIP sets the request remote address to the real client IP.
func RealIP(next http.Handler) http.Handler {
	return middleware.RealIP(next)
}
