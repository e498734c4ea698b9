package service

import (
	"context"
	"time"

	"github.com/harborstay/harborstay/internal/domain"
	"github.com/harborstay/harborstay/internal/mailer"
	"github.com/harborstay/harborstay/internal/repository"
	"github.com/harborstay/harborstay/pkg/events"
	"github.com/harborstay/harborstay/pkg/logger"
)

type BookingService interface {
	Create(ctx context.Context, guestID, listingID int64, req *domain.CreateBookingRequest) (*domain.Booking, error)
	Get(ctx context.Context, actorID, id int64) (*domain.Booking, error)
	ListMine(ctx context.Context, guestID int64, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error)
	ListForHost(ctx context.Context, hostID int64, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error)
	Confirm(ctx context.Context, actorID, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, actorID, id int64) (*domain.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	eventBus    events.Publisher
	mail        mailer.Service
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	eventBus events.Publisher,
	mail mailer.Service,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		eventBus:    eventBus,
		mail:        mail,
	}
}

// Create requests a stay. The total price is always computed server-side
// from the listing's nightly rate; anything the client sends is ignored.
func (s *bookingService) Create(ctx context.Context, guestID, listingID int64, req *domain.CreateBookingRequest) (*domain.Booking, error) {
	checkIn, checkOut, err := req.Dates()
	if err != nil {
		return nil, err
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil || !listing.IsActive {
		return nil, domain.NotFoundf("listing %d not found", listingID)
	}
	if listing.IsOwnedBy(guestID) {
		return nil, domain.Permissionf("hosts cannot book their own listing")
	}
	if req.Guests < 1 {
		return nil, domain.Validationf("guests must be at least 1")
	}
	if req.Guests > listing.Guests {
		return nil, domain.Validationf("this listing sleeps at most %d guests", listing.Guests)
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	booking := &domain.Booking{
		ListingID:       listingID,
		GuestID:         guestID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		TotalPrice:      float64(nights) * listing.PricePerNight,
		SpecialRequests: req.SpecialRequests,
	}

	created, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		return nil, err
	}

	event := events.BookingRequestedEvent{
		BookingID:  created.ID,
		ListingID:  created.ListingID,
		GuestID:    created.GuestID,
		HostID:     listing.HostID,
		CheckIn:    created.CheckIn.Format(domain.DateLayout),
		CheckOut:   created.CheckOut.Format(domain.DateLayout),
		Guests:     created.Guests,
		TotalPrice: created.TotalPrice,
		CreatedAt:  created.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.BookingRequested, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking requested event", "error", err, "booking_id", created.ID)
	}

	if host, err := s.userRepo.FindByID(ctx, listing.HostID); err == nil && host != nil {
		if err := s.mail.SendBookingRequested(host.Email, host.Username, listing.Title, created); err != nil {
			logger.ErrorContext(ctx, "Failed to send booking request email", "error", err, "booking_id", created.ID)
		}
	}

	logger.InfoContext(ctx, "Booking requested",
		"booking_id", created.ID,
		"listing_id", listingID,
		"check_in", req.CheckIn,
		"check_out", req.CheckOut,
	)

	return created, nil
}

func (s *bookingService) Get(ctx context.Context, actorID, id int64) (*domain.Booking, error) {
	booking, listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != actorID && !listing.IsOwnedBy(actorID) {
		return nil, domain.Permissionf("you are not part of this booking")
	}
	return booking, nil
}

func (s *bookingService) ListMine(ctx context.Context, guestID int64, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	return s.bookingRepo.ListByGuest(ctx, guestID, status, limit, offset)
}

func (s *bookingService) ListForHost(ctx context.Context, hostID int64, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	return s.bookingRepo.ListByHost(ctx, hostID, status, limit, offset)
}

// Confirm moves a pending booking to confirmed. Only the listing's host
// may confirm.
func (s *bookingService) Confirm(ctx context.Context, actorID, id int64) (*domain.Booking, error) {
	booking, listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.IsOwnedBy(actorID) {
		return nil, domain.Permissionf("only the listing's host can confirm a booking")
	}
	if booking.Status != domain.BookingPending {
		return nil, domain.Statef("only pending bookings can be confirmed (current status: %s)", booking.Status)
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, id, domain.BookingPending, domain.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.Statef("booking %d is no longer pending", id)
	}
	booking.Status = domain.BookingConfirmed

	event := events.BookingConfirmedEvent{
		BookingID:   booking.ID,
		ListingID:   booking.ListingID,
		GuestID:     booking.GuestID,
		ConfirmedAt: time.Now().UTC(),
	}
	if err := s.eventBus.Publish(ctx, events.BookingConfirmed, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking confirmed event", "error", err, "booking_id", booking.ID)
	}

	if guest, err := s.userRepo.FindByID(ctx, booking.GuestID); err == nil && guest != nil {
		if err := s.mail.SendBookingConfirmed(guest.Email, guest.Username, listing.Title, booking); err != nil {
			logger.ErrorContext(ctx, "Failed to send booking confirmation email", "error", err, "booking_id", booking.ID)
		}
	}

	logger.InfoContext(ctx, "Booking confirmed", "booking_id", booking.ID)

	return booking, nil
}

// Cancel lets the guest withdraw a pending or confirmed booking before
// check-in.
func (s *bookingService) Cancel(ctx context.Context, actorID, id int64) (*domain.Booking, error) {
	booking, listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != actorID {
		return nil, domain.Permissionf("only the guest can cancel a booking")
	}
	if !booking.Blocks() {
		return nil, domain.Statef("only pending or confirmed bookings can be cancelled (current status: %s)", booking.Status)
	}
	if !booking.IsUpcoming() {
		return nil, domain.Statef("the stay has already started")
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, id, booking.Status, domain.BookingCancelled)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.Statef("booking %d changed state, try again", id)
	}
	booking.Status = domain.BookingCancelled

	event := events.BookingCancelledEvent{
		BookingID:   booking.ID,
		ListingID:   booking.ListingID,
		GuestID:     booking.GuestID,
		CancelledAt: time.Now().UTC(),
	}
	if err := s.eventBus.Publish(ctx, events.BookingCancelled, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking cancelled event", "error", err, "booking_id", booking.ID)
	}

	if host, err := s.userRepo.FindByID(ctx, listing.HostID); err == nil && host != nil {
		if err := s.mail.SendBookingCancelled(host.Email, host.Username, listing.Title, booking); err != nil {
			logger.ErrorContext(ctx, "Failed to send cancellation email", "error", err, "booking_id", booking.ID)
		}
	}

	logger.InfoContext(ctx, "Booking cancelled", "booking_id", booking.ID)

	return booking, nil
}

func (s *bookingService) load(ctx context.Context, id int64) (*domain.Booking, *domain.Listing, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if booking == nil {
		return nil, nil, domain.NotFoundf("booking %d not found", id)
	}

	listing, err := s.listingRepo.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, nil, err
	}
	if listing == nil {
		return nil, nil, domain.NotFoundf("listing %d not found", booking.ListingID)
	}
	return booking, listing, nil
}
