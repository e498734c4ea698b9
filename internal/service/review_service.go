package service

import (
	"context"

	"github.com/harborstay/harborstay/internal/domain"
	"github.com/harborstay/harborstay/internal/repository"
	"github.com/harborstay/harborstay/pkg/events"
	"github.com/harborstay/harborstay/pkg/logger"
)

type ReviewService interface {
	Create(ctx context.Context, reviewerID, bookingID int64, req *domain.CreateReviewRequest) (*domain.Review, error)
	ListForListing(ctx context.Context, listingID int64) ([]domain.Review, error)
	AddHostResponse(ctx context.Context, actorID, reviewID int64, req *domain.HostResponseRequest) (*domain.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	bookingRepo repository.BookingRepository
	listingRepo repository.ListingRepository
	eventBus    events.Publisher
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookingRepo repository.BookingRepository,
	listingRepo repository.ListingRepository,
	eventBus events.Publisher,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		eventBus:    eventBus,
	}
}

// Create files a review for a completed stay. One review per booking;
// only the guest who stayed can write it.
func (s *reviewService) Create(ctx context.Context, reviewerID, bookingID int64, req *domain.CreateReviewRequest) (*domain.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.NotFoundf("booking %d not found", bookingID)
	}
	if booking.GuestID != reviewerID {
		return nil, domain.Permissionf("only the guest who stayed can review this booking")
	}
	if booking.Status != domain.BookingCompleted {
		return nil, domain.Statef("only completed stays can be reviewed (current status: %s)", booking.Status)
	}
	if booking.CheckOut.After(domain.Today()) {
		return nil, domain.Statef("the stay has not ended yet")
	}

	// The booking_id UNIQUE constraint backstops this under races.
	existing, err := s.reviewRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflictf("this booking has already been reviewed")
	}

	review := &domain.Review{
		BookingID:     bookingID,
		ListingID:     booking.ListingID,
		ReviewerID:    reviewerID,
		Rating:        req.Rating,
		Cleanliness:   req.Cleanliness,
		Communication: req.Communication,
		CheckIn:       req.CheckIn,
		Accuracy:      req.Accuracy,
		Location:      req.Location,
		Value:         req.Value,
		Comment:       req.Comment,
	}

	created, err := s.reviewRepo.Create(ctx, review)
	if err != nil {
		return nil, err
	}

	event := events.ReviewCreatedEvent{
		ReviewID:   created.ID,
		BookingID:  created.BookingID,
		ListingID:  created.ListingID,
		ReviewerID: created.ReviewerID,
		Rating:     created.Rating,
		CreatedAt:  created.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.ReviewCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish review created event", "error", err, "review_id", created.ID)
	}

	logger.InfoContext(ctx, "Review created", "review_id", created.ID, "listing_id", created.ListingID)

	return created, nil
}

func (s *reviewService) ListForListing(ctx context.Context, listingID int64) ([]domain.Review, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, domain.NotFoundf("listing %d not found", listingID)
	}
	return s.reviewRepo.ListByListing(ctx, listingID)
}

// AddHostResponse attaches (or replaces) the host's public reply.
func (s *reviewService) AddHostResponse(ctx context.Context, actorID, reviewID int64, req *domain.HostResponseRequest) (*domain.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, domain.NotFoundf("review %d not found", reviewID)
	}

	listing, err := s.listingRepo.GetByID(ctx, review.ListingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, domain.NotFoundf("listing %d not found", review.ListingID)
	}
	if !listing.IsOwnedBy(actorID) {
		return nil, domain.Permissionf("only the listing's host can respond to a review")
	}

	return s.reviewRepo.SetHostResponse(ctx, reviewID, req.Response)
}
