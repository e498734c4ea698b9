package mailer

import "github.com/harborstay/harborstay/internal/domain"

type Service interface {
	SendWelcomeEmail(toEmail, toName string) error
	SendBookingRequested(hostEmail, hostName, listingTitle string, b *domain.Booking) error
	SendBookingConfirmed(guestEmail, guestName, listingTitle string, b *domain.Booking) error
	SendBookingCancelled(toEmail, toName, listingTitle string, b *domain.Booking) error
}
