package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/harborstay/harborstay/internal/domain"
)

// ---------- Mocks ----------

type mockPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) published(subject string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subjects {
		if s == subject {
			return true
		}
	}
	return false
}

type mockMailer struct {
	mu        sync.Mutex
	welcomes  []string
	requested []string
	confirmed []string
	cancelled []string
}

func (m *mockMailer) SendWelcomeEmail(toEmail, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, toEmail)
	return nil
}

func (m *mockMailer) SendBookingRequested(hostEmail, _, _ string, _ *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested = append(m.requested, hostEmail)
	return nil
}

func (m *mockMailer) SendBookingConfirmed(guestEmail, _, _ string, _ *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmed = append(m.confirmed, guestEmail)
	return nil
}

func (m *mockMailer) SendBookingCancelled(toEmail, _, _ string, _ *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled = append(m.cancelled, toEmail)
	return nil
}

type mockUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{nextID: 1, users: make(map[int64]*domain.User)}
}

func (m *mockUserRepo) add(u domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.nextID
	m.nextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = &u
	return &u
}

func (m *mockUserRepo) Create(_ context.Context, req *domain.RegisterRequest, passwordHash string) (*domain.User, error) {
	m.mu.Lock()
	for _, u := range m.users {
		if u.Email == req.Email {
			m.mu.Unlock()
			return nil, domain.Conflictf("a user with this email already exists")
		}
	}
	m.mu.Unlock()
	return m.add(domain.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		Role:         domain.UserRole(req.Role),
		Phone:        req.Phone,
		Bio:          req.Bio,
	}), nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) Update(_ context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Bio != nil {
		u.Bio = *patch.Bio
	}
	if patch.ProfilePicture != nil {
		u.ProfilePicture = *patch.ProfilePicture
	}
	if patch.DateOfBirth != nil {
		dob, err := domain.ParseDate(*patch.DateOfBirth)
		if err != nil {
			return nil, err
		}
		u.DateOfBirth = &dob
	}
	copied := *u
	return &copied, nil
}

type mockListingRepo struct {
	mu       sync.Mutex
	nextID   int64
	listings map[int64]*domain.Listing
	images   map[int64][]domain.ListingImage
}

func newMockListingRepo() *mockListingRepo {
	return &mockListingRepo{
		nextID:   1,
		listings: make(map[int64]*domain.Listing),
		images:   make(map[int64][]domain.ListingImage),
	}
}

func (m *mockListingRepo) add(l domain.Listing) *domain.Listing {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = m.nextID
	m.nextID++
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	m.listings[l.ID] = &l
	return &l
}

func (m *mockListingRepo) Create(_ context.Context, hostID int64, req *domain.CreateListingRequest) (*domain.Listing, error) {
	return m.add(domain.Listing{
		HostID:        hostID,
		Title:         req.Title,
		Description:   req.Description,
		PropertyType:  domain.PropertyType(req.PropertyType),
		City:          req.City,
		State:         req.State,
		Country:       req.Country,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		Guests:        req.Guests,
		PricePerNight: req.PricePerNight,
		IsActive:      true,
	}), nil
}

func (m *mockListingRepo) GetByID(_ context.Context, id int64) (*domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (m *mockListingRepo) GetDetail(ctx context.Context, id int64) (*domain.Listing, error) {
	l, err := m.GetByID(ctx, id)
	if err != nil || l == nil {
		return l, err
	}
	m.mu.Lock()
	l.Images = m.images[id]
	m.mu.Unlock()
	return l, nil
}

func (m *mockListingRepo) Search(_ context.Context, f domain.ListingFilter) ([]domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Listing
	for _, l := range m.listings {
		if !l.IsActive {
			continue
		}
		if f.Guests > 0 && l.Guests < f.Guests {
			continue
		}
		if f.PropertyType != "" && l.PropertyType != f.PropertyType {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (m *mockListingRepo) ListByHost(_ context.Context, hostID int64) ([]domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Listing
	for _, l := range m.listings {
		if l.HostID == hostID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockListingRepo) Update(_ context.Context, id int64, patch domain.ListingPatch) (*domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, nil
	}
	if patch.Title != nil {
		l.Title = *patch.Title
	}
	if patch.PricePerNight != nil {
		l.PricePerNight = *patch.PricePerNight
	}
	if patch.Guests != nil {
		l.Guests = *patch.Guests
	}
	if patch.IsActive != nil {
		l.IsActive = *patch.IsActive
	}
	copied := *l
	return &copied, nil
}

func (m *mockListingRepo) Deactivate(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok || !l.IsActive {
		return false, nil
	}
	l.IsActive = false
	return true, nil
}

func (m *mockListingRepo) AddImage(_ context.Context, listingID int64, req *domain.AddImageRequest) (*domain.ListingImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img := domain.ListingImage{
		ID:         int64(len(m.images[listingID]) + 1),
		ListingID:  listingID,
		URL:        req.URL,
		Caption:    req.Caption,
		IsPrimary:  req.IsPrimary,
		UploadedAt: time.Now(),
	}
	m.images[listingID] = append(m.images[listingID], img)
	return &img, nil
}

func (m *mockListingRepo) ListImages(_ context.Context, listingID int64) ([]domain.ListingImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.images[listingID], nil
}

// mockBookingRepo reproduces the repository's check-then-insert atomicity
// with a mutex, so concurrency tests behave like the real transaction.
type mockBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*domain.Booking
	listings *mockListingRepo
}

func newMockBookingRepo(listings *mockListingRepo) *mockBookingRepo {
	return &mockBookingRepo{nextID: 1, bookings: make(map[int64]*domain.Booking), listings: listings}
}

func (m *mockBookingRepo) add(b domain.Booking) *domain.Booking {
	b.ID = m.nextID
	m.nextID++
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.bookings[b.ID] = &b
	copied := b
	return &copied
}

func (m *mockBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.bookings {
		if existing.ListingID != b.ListingID || !existing.Blocks() {
			continue
		}
		if existing.Overlaps(b.CheckIn, b.CheckOut) {
			return nil, domain.Conflictf("listing is not available from %s to %s",
				b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout))
		}
	}

	copied := *b
	copied.Status = domain.BookingPending
	return m.add(copied), nil
}

// backdate shifts a stored booking's stay window, so tests can fabricate
// stays that already ended without going through Create's date checks.
func (m *mockBookingRepo) backdate(id int64, checkIn, checkOut time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bookings[id]; ok {
		b.CheckIn = checkIn
		b.CheckOut = checkOut
	}
}

func (m *mockBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookingRepo) ListByGuest(_ context.Context, guestID int64, status domain.BookingStatus, _, _ int) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.GuestID != guestID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBookingRepo) ListByHost(ctx context.Context, hostID int64, status domain.BookingStatus, _, _ int) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		l, _ := m.listings.GetByID(ctx, b.ListingID)
		if l == nil || l.HostID != hostID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, id int64, from, to domain.BookingStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockBookingRepo) CompleteElapsed(_ context.Context, today time.Time) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.Status == domain.BookingConfirmed && !b.CheckOut.After(today) {
			b.Status = domain.BookingCompleted
			b.UpdatedAt = time.Now()
			out = append(out, *b)
		}
	}
	return out, nil
}

type mockReviewRepo struct {
	mu      sync.Mutex
	nextID  int64
	reviews map[int64]*domain.Review
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{nextID: 1, reviews: make(map[int64]*domain.Review)}
}

func (m *mockReviewRepo) Create(_ context.Context, rev *domain.Review) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.BookingID == rev.BookingID {
			return nil, domain.Conflictf("this booking has already been reviewed")
		}
	}
	copied := *rev
	copied.ID = m.nextID
	m.nextID++
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	m.reviews[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (m *mockReviewRepo) GetByID(_ context.Context, id int64) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rev, ok := m.reviews[id]
	if !ok {
		return nil, nil
	}
	copied := *rev
	return &copied, nil
}

func (m *mockReviewRepo) GetByBookingID(_ context.Context, bookingID int64) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rev := range m.reviews {
		if rev.BookingID == bookingID {
			copied := *rev
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockReviewRepo) ListByListing(_ context.Context, listingID int64) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Review
	for _, rev := range m.reviews {
		if rev.ListingID == listingID {
			out = append(out, *rev)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) SetHostResponse(_ context.Context, id int64, response string) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rev, ok := m.reviews[id]
	if !ok {
		return nil, nil
	}
	rev.HostResponse = response
	rev.UpdatedAt = time.Now()
	copied := *rev
	return &copied, nil
}
