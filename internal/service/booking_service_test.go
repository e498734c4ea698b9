package service_test

import (
	"context"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/harborstay/harborstay/internal/domain"
	"github.com/harborstay/harborstay/internal/service"
	"github.com/harborstay/harborstay/pkg/events"
)

type bookingFixture struct {
	svc      service.BookingService
	bookings *mockBookingRepo
	users    *mockUserRepo
	bus      *mockPublisher
	mail     *mockMailer
	host     *domain.User
	guest    *domain.User
	listing  *domain.Listing
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	users := newMockUserRepo()
	listings := newMockListingRepo()
	bookings := newMockBookingRepo(listings)
	bus := &mockPublisher{}
	mail := &mockMailer{}

	host := users.add(domain.User{Email: "host@example.com", Username: "hannah", Role: domain.RoleHost})
	guest := users.add(domain.User{Email: "guest@example.com", Username: "gus", Role: domain.RoleGuest})
	listing := listings.add(domain.Listing{
		HostID:        host.ID,
		Title:         "Harbor View Loft",
		PropertyType:  domain.PropertyApartment,
		City:          "Lisbon",
		Country:       "Portugal",
		Guests:        4,
		PricePerNight: 100.00,
		IsActive:      true,
	})

	return &bookingFixture{
		svc:      service.NewBookingService(bookings, listings, users, bus, mail),
		bookings: bookings,
		users:    users,
		bus:      bus,
		mail:     mail,
		host:     host,
		guest:    guest,
		listing:  listing,
	}
}

// futureDate returns today+days as a wire-format date string.
func futureDate(days int) string {
	return domain.Today().AddDate(0, 0, days).Format(domain.DateLayout)
}

func TestCreateBookingComputesPrice(t *testing.T) {
	f := newBookingFixture(t)

	req := &domain.CreateBookingRequest{
		CheckIn:  futureDate(10),
		CheckOut: futureDate(13),
		Guests:   2,
	}

	b, err := f.svc.Create(context.Background(), f.guest.ID, f.listing.ID, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if b.Status != domain.BookingPending {
		t.Errorf("status = %s, want pending", b.Status)
	}
	if b.Nights() != 3 {
		t.Errorf("nights = %d, want 3", b.Nights())
	}
	// 3 nights at $100.00/night
	if b.TotalPrice != 300.00 {
		t.Errorf("total_price = %.2f, want 300.00", b.TotalPrice)
	}
	if !f.bus.published(events.BookingRequested) {
		t.Error("booking.requested event was not published")
	}
	if len(f.mail.requested) != 1 || f.mail.requested[0] != f.host.Email {
		t.Errorf("host notification went to %v, want [%s]", f.mail.requested, f.host.Email)
	}
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	first := &domain.CreateBookingRequest{CheckIn: futureDate(10), CheckOut: futureDate(13), Guests: 2}
	if _, err := f.svc.Create(ctx, f.guest.ID, f.listing.ID, first); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	second := stayRequest(futureDate(12), futureDate(14))
	_, err := f.svc.Create(ctx, f.guest.ID, f.listing.ID, second)
	if domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("overlapping Create: got %v, want conflict", err)
	}
}

func stayRequest(checkIn, checkOut string) *domain.CreateBookingRequest {
	return &domain.CreateBookingRequest{CheckIn: checkIn, CheckOut: checkOut, Guests: 1}
}

func TestCreateBookingAllowsBackToBack(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	first := stayRequest(futureDate(10), futureDate(13))
	if _, err := f.svc.Create(ctx, f.guest.ID, f.listing.ID, first); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	// Check-in on the previous guest's check-out day is allowed.
	second := stayRequest(futureDate(13), futureDate(15))
	if _, err := f.svc.Create(ctx, f.guest.ID, f.listing.ID, second); err != nil {
		t.Fatalf("back-to-back Create: %v", err)
	}
}

func TestCancelledBookingFreesDates(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.guest.ID, f.listing.ID, stayRequest(futureDate(10), futureDate(13)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Cancel(ctx, f.guest.ID, first.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if _, err := f.svc.Create(ctx, f.guest.ID, f.listing.ID, stayRequest(futureDate(10), futureDate(13))); err != nil {
		t.Fatalf("Create over cancelled dates: %v", err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		guestID int64
		req     *domain.CreateBookingRequest
		kind    domain.Kind
	}{
		{
			name:    "check_out before check_in",
			guestID: f.guest.ID,
			req:     &domain.CreateBookingRequest{CheckIn: futureDate(13), CheckOut: futureDate(10), Guests: 1},
			kind:    domain.KindValidation,
		},
		{
			name:    "same-day range",
			guestID: f.guest.ID,
			req:     &domain.CreateBookingRequest{CheckIn: futureDate(10), CheckOut: futureDate(10), Guests: 1},
			kind:    domain.KindValidation,
		},
		{
			name:    "check_in in the past",
			guestID: f.guest.ID,
			req:     &domain.CreateBookingRequest{CheckIn: futureDate(-2), CheckOut: futureDate(2), Guests: 1},
			kind:    domain.KindValidation,
		},
		{
			name:    "malformed date",
			guestID: f.guest.ID,
			req:     &domain.CreateBookingRequest{CheckIn: "June 1st", CheckOut: futureDate(10), Guests: 1},
			kind:    domain.KindValidation,
		},
		{
			name:    "over capacity",
			guestID: f.guest.ID,
			req:     &domain.CreateBookingRequest{CheckIn: futureDate(10), CheckOut: futureDate(12), Guests: 5},
			kind:    domain.KindValidation,
		},
		{
			name:    "host books own listing",
			guestID: f.host.ID,
			req:     stayRequest(futureDate(10), futureDate(12)),
			kind:    domain.KindPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.guestID, f.listing.ID, tt.req)
			if domain.KindOf(err) != tt.kind {
				t.Fatalf("got %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestCreateBookingInactiveListing(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	active := false
	if _, err := f.bookings.listings.Update(ctx, f.listing.ID, domain.ListingPatch{IsActive: &active}); err != nil {
		t.Fatalf("deactivate listing: %v", err)
	}

	// A deactivated listing is indistinguishable from a missing one.
	_, err := f.svc.Create(ctx, f.guest.ID, f.listing.ID, stayRequest(futureDate(10), futureDate(12)))
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestConfirmBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.guest.ID, f.listing.ID, stayRequest(futureDate(10), futureDate(12)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The guest cannot confirm their own request.
	if _, err := f.svc.Confirm(ctx, f.guest.ID, b.ID); domain.KindOf(err) != domain.KindPermission {
		t.Fatalf("guest Confirm: got %v, want permission error", err)
	}

	confirmed, err := f.svc.Confirm(ctx, f.host.ID, b.ID)
	if err != nil {
		t.Fatalf("host Confirm: %v", err)
	}
	if confirmed.Status != domain.BookingConfirmed {
		t.Errorf("status = %s, want confirmed", confirmed.Status)
	}
	if !f.bus.published(events.BookingConfirmed) {
		t.Error("booking.confirmed event was not published")
	}
	if len(f.mail.confirmed) != 1 || f.mail.confirmed[0] != f.guest.Email {
		t.Errorf("confirmation email went to %v, want [%s]", f.mail.confirmed, f.guest.Email)
	}

	// Confirming twice is a state conflict.
	if _, err := f.svc.Confirm(ctx, f.host.ID, b.ID); domain.KindOf(err) != domain.KindState {
		t.Fatalf("second Confirm: got %v, want state error", err)
	}
}

func TestCancelBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.guest.ID, f.listing.ID, stayRequest(futureDate(10), futureDate(12)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Only the guest may cancel, not the host.
	if _, err := f.svc.Cancel(ctx, f.host.ID, b.ID); domain.KindOf(err) != domain.KindPermission {
		t.Fatalf("host Cancel: got %v, want permission error", err)
	}

	cancelled, err := f.svc.Cancel(ctx, f.guest.ID, b.ID)
	if err != nil {
		t.Fatalf("guest Cancel: %v", err)
	}
	if cancelled.Status != domain.BookingCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}
	if !f.bus.published(events.BookingCancelled) {
		t.Error("booking.cancelled event was not published")
	}

	// A cancelled booking stays cancelled.
	if _, err := f.svc.Cancel(ctx, f.guest.ID, b.ID); domain.KindOf(err) != domain.KindState {
		t.Fatalf("second Cancel: got %v, want state error", err)
	}
}

func TestGetBookingAccess(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.guest.ID, f.listing.ID, stayRequest(futureDate(10), futureDate(12)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.svc.Get(ctx, f.guest.ID, b.ID); err != nil {
		t.Errorf("guest Get: %v", err)
	}
	if _, err := f.svc.Get(ctx, f.host.ID, b.ID); err != nil {
		t.Errorf("host Get: %v", err)
	}

	stranger := f.users.add(domain.User{Email: "other@example.com", Username: "otto", Role: domain.RoleGuest})
	if _, err := f.svc.Get(ctx, stranger.ID, b.ID); domain.KindOf(err) != domain.KindPermission {
		t.Errorf("stranger Get: got %v, want permission error", err)
	}
}

// Racing requests for the same range must produce exactly one booking.
func TestConcurrentCreateSingleWinner(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	const attempts = 8
	results := make([]error, attempts)

	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		i := i
		g.Go(func() error {
			_, err := f.svc.Create(ctx, f.guest.ID, f.listing.ID, stayRequest(futureDate(10), futureDate(13)))
			results[i] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case domain.KindOf(err) == domain.KindConflict:
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1 (conflicts = %d)", wins, conflicts)
	}
}

func TestCompleteElapsedSweep(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.guest.ID, f.listing.ID, stayRequest(futureDate(2), futureDate(4)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Confirm(ctx, f.host.ID, b.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	// Nothing to sweep yet: check-out is still in the future.
	swept, err := f.bookings.CompleteElapsed(ctx, domain.Today())
	if err != nil {
		t.Fatalf("CompleteElapsed: %v", err)
	}
	if len(swept) != 0 {
		t.Fatalf("swept %d bookings before check-out", len(swept))
	}

	// After check-out day the stay completes.
	swept, err = f.bookings.CompleteElapsed(ctx, domain.Today().AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("CompleteElapsed: %v", err)
	}
	if len(swept) != 1 || swept[0].Status != domain.BookingCompleted {
		t.Fatalf("swept = %+v, want one completed booking", swept)
	}
}
