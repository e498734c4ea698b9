package sweeper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/harborstay/harborstay/internal/domain"
	"github.com/harborstay/harborstay/internal/repository"
	"github.com/harborstay/harborstay/pkg/events"
	"github.com/harborstay/harborstay/pkg/logger"
)

// Sweeper moves confirmed bookings whose check-out date has passed to
// completed, on a schedule. Completed stays become reviewable.
type Sweeper struct {
	bookingRepo repository.BookingRepository
	eventBus    events.Publisher
	schedule    string
	cron        *cron.Cron
}

func New(bookingRepo repository.BookingRepository, eventBus events.Publisher, schedule string) *Sweeper {
	return &Sweeper{
		bookingRepo: bookingRepo,
		eventBus:    eventBus,
		schedule:    schedule,
		cron:        cron.New(),
	}
}

func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.Run(ctx)
	}); err != nil {
		return err
	}
	s.cron.Start()
	logger.Info("Completion sweeper started", "schedule", s.schedule)
	return nil
}

func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Run performs one sweep. Exposed so an operator (or a test) can trigger
// it outside the schedule.
func (s *Sweeper) Run(ctx context.Context) {
	completed, err := s.bookingRepo.CompleteElapsed(ctx, domain.Today())
	if err != nil {
		logger.ErrorContext(ctx, "Completion sweep failed", "error", err)
		return
	}
	if len(completed) == 0 {
		return
	}

	for i := range completed {
		b := &completed[i]
		event := events.BookingCompletedEvent{
			BookingID:   b.ID,
			ListingID:   b.ListingID,
			CompletedAt: time.Now().UTC(),
		}
		if err := s.eventBus.Publish(ctx, events.BookingCompleted, event); err != nil {
			logger.ErrorContext(ctx, "Failed to publish booking completed event", "error", err, "booking_id", b.ID)
		}
	}

	logger.InfoContext(ctx, "Completion sweep finished", "completed", len(completed))
}
