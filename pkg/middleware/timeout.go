package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Timeout cancels request contexts after a minute.
func Timeout(next http.Handler) http.Handler {
	return middleware.Timeout(60 * time.Second)(next)
}
