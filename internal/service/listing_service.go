package service

import (
	"context"

	"github.com/harborstay/harborstay/internal/domain"
	"github.com/harborstay/harborstay/internal/repository"
	"github.com/harborstay/harborstay/pkg/events"
	"github.com/harborstay/harborstay/pkg/logger"
)

type ListingService interface {
	Create(ctx context.Context, hostID int64, req *domain.CreateListingRequest) (*domain.Listing, error)
	Get(ctx context.Context, id int64) (*domain.Listing, error)
	Search(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, error)
	ListMine(ctx context.Context, hostID int64) ([]domain.Listing, error)
	Update(ctx context.Context, actorID, id int64, patch domain.ListingPatch) (*domain.Listing, error)
	Deactivate(ctx context.Context, actorID, id int64) error
	AddImage(ctx context.Context, actorID, listingID int64, req *domain.AddImageRequest) (*domain.ListingImage, error)
}

type listingService struct {
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	eventBus    events.Publisher
}

func NewListingService(listingRepo repository.ListingRepository, userRepo repository.UserRepository, eventBus events.Publisher) ListingService {
	return &listingService{
		listingRepo: listingRepo,
		userRepo:    userRepo,
		eventBus:    eventBus,
	}
}

func (s *listingService) Create(ctx context.Context, hostID int64, req *domain.CreateListingRequest) (*domain.Listing, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	host, err := s.userRepo.FindByID(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if host == nil {
		return nil, domain.NotFoundf("user %d not found", hostID)
	}
	if !host.Role.CanHost() {
		return nil, domain.Permissionf("only hosts can publish listings")
	}

	listing, err := s.listingRepo.Create(ctx, hostID, req)
	if err != nil {
		return nil, err
	}

	event := events.ListingCreatedEvent{
		ListingID: listing.ID,
		HostID:    listing.HostID,
		Title:     listing.Title,
		City:      listing.City,
		CreatedAt: listing.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.ListingCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish listing created event", "error", err, "listing_id", listing.ID)
	}

	logger.InfoContext(ctx, "Listing created", "listing_id", listing.ID, "host_id", hostID)

	return listing, nil
}

// Get returns the public detail view. Deactivated listings are hidden
// here; their host still sees them through ListMine.
func (s *listingService) Get(ctx context.Context, id int64) (*domain.Listing, error) {
	listing, err := s.listingRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil || !listing.IsActive {
		return nil, domain.NotFoundf("listing %d not found", id)
	}
	return listing, nil
}

func (s *listingService) Search(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, error) {
	return s.listingRepo.Search(ctx, f)
}

func (s *listingService) ListMine(ctx context.Context, hostID int64) ([]domain.Listing, error) {
	return s.listingRepo.ListByHost(ctx, hostID)
}

func (s *listingService) Update(ctx context.Context, actorID, id int64, patch domain.ListingPatch) (*domain.Listing, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	if err := s.requireOwner(ctx, actorID, id); err != nil {
		return nil, err
	}

	return s.listingRepo.Update(ctx, id, patch)
}

func (s *listingService) Deactivate(ctx context.Context, actorID, id int64) error {
	if err := s.requireOwner(ctx, actorID, id); err != nil {
		return err
	}

	deactivated, err := s.listingRepo.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if !deactivated {
		return domain.Statef("listing %d is already inactive", id)
	}

	event := events.ListingDeactivatedEvent{ListingID: id, HostID: actorID}
	if err := s.eventBus.Publish(ctx, events.ListingDeactivated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish listing deactivated event", "error", err, "listing_id", id)
	}

	return nil
}

func (s *listingService) AddImage(ctx context.Context, actorID, listingID int64, req *domain.AddImageRequest) (*domain.ListingImage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.requireOwner(ctx, actorID, listingID); err != nil {
		return nil, err
	}

	return s.listingRepo.AddImage(ctx, listingID, req)
}

func (s *listingService) requireOwner(ctx context.Context, actorID, listingID int64) error {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing == nil {
		return domain.NotFoundf("listing %d not found", listingID)
	}
	if !listing.IsOwnedBy(actorID) {
		return domain.Permissionf("only the listing's host can do that")
	}
	return nil
}
