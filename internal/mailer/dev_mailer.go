package mailer

import (
	"fmt"

	"github.com/harborstay/harborstay/internal/domain"
	"github.com/harborstay/harborstay/pkg/logger"
)

// DevMailer prints mail to stdout instead of sending it.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendWelcomeEmail(toEmail, toName string) error {
	logger.Info("📧 [DEV MAIL] Welcome Email", "to", toEmail, "name", toName)

	fmt.Printf("\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"📧 WELCOME EMAIL (DEV MODE)\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"To: %s (%s)\n"+
		"Subject: Welcome to HarborStay\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n",
		toEmail, toName)

	return nil
}

func (d *DevMailer) SendBookingRequested(hostEmail, hostName, listingTitle string, b *domain.Booking) error {
	logger.Info("📧 [DEV MAIL] Booking Requested",
		"to", hostEmail,
		"listing", listingTitle,
		"booking_id", b.ID,
	)

	fmt.Printf("\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"📧 BOOKING REQUEST (DEV MODE)\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"To: %s (%s)\n"+
		"Subject: New booking request for %s\n"+
		"\n"+
		"Dates: %s → %s (%d nights, %d guests)\n"+
		"Total: $%.2f\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n",
		hostEmail, hostName, listingTitle,
		b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout),
		b.Nights(), b.Guests, b.TotalPrice)

	return nil
}

func (d *DevMailer) SendBookingConfirmed(guestEmail, guestName, listingTitle string, b *domain.Booking) error {
	logger.Info("📧 [DEV MAIL] Booking Confirmed",
		"to", guestEmail,
		"listing", listingTitle,
		"booking_id", b.ID,
	)

	fmt.Printf("\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"📧 BOOKING CONFIRMED (DEV MODE)\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"To: %s (%s)\n"+
		"Subject: Your stay at %s is confirmed\n"+
		"\n"+
		"Dates: %s → %s\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n",
		guestEmail, guestName, listingTitle,
		b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout))

	return nil
}

func (d *DevMailer) SendBookingCancelled(toEmail, toName, listingTitle string, b *domain.Booking) error {
	logger.Info("📧 [DEV MAIL] Booking Cancelled",
		"to", toEmail,
		"listing", listingTitle,
		"booking_id", b.ID,
	)

	fmt.Printf("\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"📧 BOOKING CANCELLED (DEV MODE)\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"To: %s (%s)\n"+
		"Subject: Booking for %s was cancelled\n"+
		"\n"+
		"Dates: %s → %s\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n",
		toEmail, toName, listingTitle,
		b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout))

	return nil
}
