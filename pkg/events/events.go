package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/harborstay/harborstay/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	BookingRequested = "booking.requested"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"

	ListingCreated     = "listing.created"
	ListingDeactivated = "listing.deactivated"

	ReviewCreated  = "review.created"
	UserRegistered = "user.registered"
)

// Event payloads
type BookingRequestedEvent struct {
	BookingID  int64     `json:"booking_id"`
	ListingID  int64     `json:"listing_id"`
	GuestID    int64     `json:"guest_id"`
	HostID     int64     `json:"host_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Guests     int       `json:"guests"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

type BookingConfirmedEvent struct {
	BookingID   int64     `json:"booking_id"`
	ListingID   int64     `json:"listing_id"`
	GuestID     int64     `json:"guest_id"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

type BookingCancelledEvent struct {
	BookingID   int64     `json:"booking_id"`
	ListingID   int64     `json:"listing_id"`
	GuestID     int64     `json:"guest_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

type BookingCompletedEvent struct {
	BookingID   int64     `json:"booking_id"`
	ListingID   int64     `json:"listing_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type ListingCreatedEvent struct {
	ListingID int64     `json:"listing_id"`
	HostID    int64     `json:"host_id"`
	Title     string    `json:"title"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
}

type ListingDeactivatedEvent struct {
	ListingID int64 `json:"listing_id"`
	HostID    int64 `json:"host_id"`
}

type ReviewCreatedEvent struct {
	ReviewID   int64     `json:"review_id"`
	BookingID  int64     `json:"booking_id"`
	ListingID  int64     `json:"listing_id"`
	ReviewerID int64     `json:"reviewer_id"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}

type UserRegisteredEvent struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
