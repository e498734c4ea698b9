package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"

	"github.com/harborstay/harborstay/internal/domain"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendWelcomeEmail(toEmail, toName string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Welcome to HarborStay"
	text := fmt.Sprintf("Hi %s,\n\nYour HarborStay account is ready. Browse stays or list your own place whenever you like.", toName)
	html := fmt.Sprintf(`
		<h2>Welcome to HarborStay!</h2>
		<p>Hi %s,</p>
		<p>Your account is ready. Browse stays or list your own place whenever you like.</p>
	`, toName)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) SendBookingRequested(hostEmail, hostName, listingTitle string, b *domain.Booking) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := fmt.Sprintf("New booking request for %s", listingTitle)
	text := fmt.Sprintf("You have a new booking request for %s: %s to %s, %d guests, total $%.2f.",
		listingTitle, b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout), b.Guests, b.TotalPrice)
	html := fmt.Sprintf(`
		<h2>New booking request</h2>
		<p>Hi %s,</p>
		<p>A guest requested to stay at <strong>%s</strong> from %s to %s (%d guests, $%.2f total).</p>
		<p>Confirm or decline the request from your host dashboard.</p>
	`, hostName, listingTitle,
		b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout), b.Guests, b.TotalPrice)

	return m.sendEmail(hostEmail, hostName, subject, text, html)
}

func (m *MailerSendClient) SendBookingConfirmed(guestEmail, guestName, listingTitle string, b *domain.Booking) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := fmt.Sprintf("Your stay at %s is confirmed", listingTitle)
	text := fmt.Sprintf("Your booking at %s from %s to %s is confirmed. Total: $%.2f.",
		listingTitle, b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout), b.TotalPrice)
	html := fmt.Sprintf(`
		<h2>Booking confirmed</h2>
		<p>Hi %s,</p>
		<p>Your stay at <strong>%s</strong> from %s to %s is confirmed.</p>
		<p>Total: <strong>$%.2f</strong></p>
	`, guestName, listingTitle,
		b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout), b.TotalPrice)

	return m.sendEmail(guestEmail, guestName, subject, text, html)
}

func (m *MailerSendClient) SendBookingCancelled(toEmail, toName, listingTitle string, b *domain.Booking) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := fmt.Sprintf("Booking for %s was cancelled", listingTitle)
	text := fmt.Sprintf("The booking at %s from %s to %s has been cancelled.",
		listingTitle, b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout))
	html := fmt.Sprintf(`
		<h2>Booking cancelled</h2>
		<p>Hi %s,</p>
		<p>The booking at <strong>%s</strong> from %s to %s has been cancelled.</p>
	`, toName, listingTitle,
		b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout))

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
