package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/harborstay/harborstay/internal/service"
	"github.com/harborstay/harborstay/pkg/auth"
	"github.com/harborstay/harborstay/pkg/config"
	"github.com/harborstay/harborstay/pkg/logger"
)

type Handlers struct {
	accounts service.AccountService
	listings service.ListingService
	bookings service.BookingService
	reviews  service.ReviewService
	config   *config.Config
}

func New(
	accounts service.AccountService,
	listings service.ListingService,
	bookings service.BookingService,
	reviews service.ReviewService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		accounts: accounts,
		listings: listings,
		bookings: bookings,
		reviews:  reviews,
		config:   cfg,
	}
}

type ctxKey string

const claimsKey ctxKey = "claims"

// RequireJWT authenticates the request and stores the claims in the
// context. Authorization beyond "is logged in" is the services' job.
func (h *Handlers) RequireJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing or invalid authorization header", CodeUnauthorized)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.Parse(token, h.config.Auth.JWTSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token", CodeUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), logger.UserIDKey, claims.Sub)
		ctx = context.WithValue(ctx, claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actorID returns the authenticated user's ID. Zero means the route was
// mounted without RequireJWT, which is a wiring bug.
func actorID(r *http.Request) int64 {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	if claims == nil {
		return 0
	}
	return claims.Sub
}

func parseID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	return id, err == nil && id > 0
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
