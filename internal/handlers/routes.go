package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the /v1 API surface. The limiter middlewares guard the
// abuse-prone endpoints (credential handling and booking creation); pass
// nil to mount without them.
func (h *Handlers) Routes(r chi.Router, authLimit, bookingLimit func(http.Handler) http.Handler) {
	if authLimit == nil {
		authLimit = passthrough
	}
	if bookingLimit == nil {
		bookingLimit = passthrough
	}

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimit)
			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)
		})

		// Public catalog
		r.Get("/listings", h.SearchListings)
		r.Get("/listings/{id}", h.GetListing)
		r.Get("/listings/{id}/reviews", h.ListListingReviews)

		// Authenticated surface
		r.Group(func(r chi.Router) {
			r.Use(h.RequireJWT)

			r.Get("/auth/me", h.Me)
			r.Patch("/auth/me", h.UpdateMe)

			r.Post("/listings", h.CreateListing)
			r.Patch("/listings/{id}", h.UpdateListing)
			r.Delete("/listings/{id}", h.DeactivateListing)
			r.Post("/listings/{id}/images", h.AddListingImage)

			r.With(bookingLimit).Post("/listings/{id}/bookings", h.CreateBooking)
			r.Get("/bookings", h.ListMyBookings)
			r.Get("/bookings/host", h.ListHostBookings)
			r.Get("/bookings/{id}", h.GetBooking)
			r.Post("/bookings/{id}/confirm", h.ConfirmBooking)
			r.Post("/bookings/{id}/cancel", h.CancelBooking)
			r.Post("/bookings/{id}/reviews", h.CreateReview)
			r.Post("/reviews/{id}/response", h.RespondToReview)

			r.Get("/host/listings", h.ListMyListings)
		})
	})
}

func passthrough(next http.Handler) http.Handler { return next }
