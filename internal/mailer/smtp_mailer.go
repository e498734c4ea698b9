package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/harborstay/harborstay/internal/domain"
)

type SMTPMailer struct {
	Host   string
	Port   int
	From   string
	User   string
	Pass   string
	UseTLS bool
}

func NewSMTPMailer(host string, port int, from, user, pass string, useTLS bool) *SMTPMailer {
	return &SMTPMailer{
		Host:   strings.TrimSpace(host),
		Port:   port,
		From:   strings.TrimSpace(from),
		User:   strings.TrimSpace(user),
		Pass:   strings.TrimSpace(pass),
		UseTLS: useTLS,
	}
}

func (s *SMTPMailer) SendWelcomeEmail(toEmail, toName string) error {
	subject := "Welcome to HarborStay"
	text := fmt.Sprintf("Hi %s,\n\nYour HarborStay account is ready. Browse stays or list your own place whenever you like.", toName)
	html := fmt.Sprintf(`
		<h2>Welcome to HarborStay!</h2>
		<p>Hi %s,</p>
		<p>Your account is ready. Browse stays or list your own place whenever you like.</p>
	`, toName)

	return s.sendEmail(toEmail, toName, subject, text, html)
}

func (s *SMTPMailer) SendBookingRequested(hostEmail, hostName, listingTitle string, b *domain.Booking) error {
	subject := fmt.Sprintf("New booking request for %s", listingTitle)
	text := fmt.Sprintf("You have a new booking request for %s: %s to %s, %d guests, total $%.2f.\n\nConfirm or decline it from your host dashboard.",
		listingTitle, b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout), b.Guests, b.TotalPrice)
	html := fmt.Sprintf(`
		<h2>New booking request</h2>
		<p>Hi %s,</p>
		<p>A guest requested to stay at <strong>%s</strong>:</p>
		<ul>
			<li>Check-in: %s</li>
			<li>Check-out: %s</li>
			<li>Guests: %d</li>
			<li>Total: $%.2f</li>
		</ul>
		<p>Confirm or decline the request from your host dashboard.</p>
	`, hostName, listingTitle,
		b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout), b.Guests, b.TotalPrice)

	return s.sendEmail(hostEmail, hostName, subject, text, html)
}

func (s *SMTPMailer) SendBookingConfirmed(guestEmail, guestName, listingTitle string, b *domain.Booking) error {
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

	return s.sendEmail(guestEmail, guestName, subject, text, html)
}

func (s *SMTPMailer) SendBookingCancelled(toEmail, toName, listingTitle string, b *domain.Booking) error {
	subject := fmt.Sprintf("Booking for %s was cancelled", listingTitle)
	text := fmt.Sprintf("The booking at %s from %s to %s has been cancelled.",
		listingTitle, b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout))
	html := fmt.Sprintf(`
		<h2>Booking cancelled</h2>
		<p>Hi %s,</p>
		<p>The booking at <strong>%s</strong> from %s to %s has been cancelled.</p>
	`, toName, listingTitle,
		b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout))

	return s.sendEmail(toEmail, toName, subject, text, html)
}

func (s *SMTPMailer) sendEmail(toEmail, toName, subject, text, html string) error {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return fmt.Errorf("empty recipient email")
	}

	var buf bytes.Buffer
	boundary := "mixed-boundary"

	fmt.Fprintf(&buf, "From: %s\r\n", s.From)
	fmt.Fprintf(&buf, "To: %s\r\n", toEmail)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	// Text part
	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", text)

	// HTML part
	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", html)

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	// Mailpit or development SMTP (no auth, no TLS)
	if !s.UseTLS && s.User == "" {
		return smtp.SendMail(addr, nil, s.From, []string{toEmail}, buf.Bytes())
	}

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}

	// Try plain SMTP first (with STARTTLS if supported)
	if err := smtp.SendMail(addr, auth, s.From, []string{toEmail}, buf.Bytes()); err == nil {
		return nil
	}

	// Fallback to implicit TLS (port 465)
	if s.UseTLS {
		tlsCfg := &tls.Config{ServerName: s.Host, InsecureSkipVerify: false}
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		c, err := smtp.NewClient(conn, s.Host)
		if err != nil {
			return err
		}
		defer c.Quit()

		if s.User != "" {
			if err := c.Auth(auth); err != nil {
				return err
			}
		}

		if err := c.Mail(s.From); err != nil {
			return err
		}
		if err := c.Rcpt(toEmail); err != nil {
			return err
		}

		w, err := c.Data()
		if err != nil {
			return err
		}

		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}

		return w.Close()
	}

	return fmt.Errorf("smtp send failed")
}
