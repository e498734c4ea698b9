package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborstay/harborstay/internal/domain"
)

type BookingRepository interface {
	// Create inserts a pending booking after verifying, inside one
	// transaction, that no pending or confirmed booking overlaps the
	// requested range.
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByGuest(ctx context.Context, guestID int64, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error)
	ListByHost(ctx context.Context, hostID int64, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error)
	// CompleteElapsed marks confirmed bookings whose check-out date has
	// passed as completed and returns them.
	CompleteElapsed(ctx context.Context, today time.Time) ([]domain.Booking, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingCols = `id, listing_id, guest_id, check_in, check_out,
guests, total_price, status, special_requests, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.ListingID, &b.GuestID, &b.CheckIn, &b.CheckOut,
		&b.Guests, &b.TotalPrice, &b.Status, &b.SpecialRequests, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Row lock on the listing serializes concurrent writers for the same
	// property; two racing requests for the same range cannot both pass
	// the overlap check below.
	var listingID int64
	err = tx.QueryRow(ctx, `SELECT id FROM listings WHERE id=$1 FOR UPDATE`, b.ListingID).Scan(&listingID)
	if err == pgx.ErrNoRows {
		return nil, domain.NotFoundf("listing %d not found", b.ListingID)
	}
	if err != nil {
		return nil, err
	}

	// Half-open ranges: check_in < other.check_out AND check_out > other.check_in.
	var taken bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE listing_id=$1
			  AND status IN ('pending', 'confirmed')
			  AND check_in < $3
			  AND check_out > $2
		)`, b.ListingID, b.CheckIn, b.CheckOut).Scan(&taken)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflictf("listing is not available from %s to %s",
			b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout))
	}

	const q = `INSERT INTO bookings (listing_id, guest_id, check_in, check_out, guests, total_price, status, special_requests)
	VALUES ($1,$2,$3,$4,$5,$6,'pending',$7)
	RETURNING ` + bookingCols

	created, err := scanBooking(tx.QueryRow(ctx, q,
		b.ListingID, b.GuestID, b.CheckIn, b.CheckOut, b.Guests, b.TotalPrice, b.SpecialRequests,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanBooking(r.pool.QueryRow(ctx, q, id))
}

func (r *bookingRepository) ListByGuest(ctx context.Context, guestID int64, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	return r.list(ctx, `guest_id=$1`, guestID, status, limit, offset)
}

func (r *bookingRepository) ListByHost(ctx context.Context, hostID int64, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	return r.list(ctx, `listing_id IN (SELECT id FROM listings WHERE host_id=$1)`, hostID, status, limit, offset)
}

func (r *bookingRepository) list(ctx context.Context, ownerClause string, ownerID int64, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + bookingCols + ` FROM bookings WHERE ` + ownerClause
	args := []any{ownerID}
	if status != "" {
		args = append(args, status)
		q += fmt.Sprintf(` AND status=$%d`, len(args))
	}
	args = append(args, limit, offset)
	q += fmt.Sprintf(` ORDER BY check_in DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// UpdateStatus transitions a booking from one status to another. The guard
// on the current status makes the transition idempotent under races; a
// false return means the booking was not in the expected state.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error) {
	const q = `UPDATE bookings SET status=$3, updated_at=now() WHERE id=$1 AND status=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, from, to)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) CompleteElapsed(ctx context.Context, today time.Time) ([]domain.Booking, error) {
	const q = `UPDATE bookings SET status='completed', updated_at=now()
	WHERE status='confirmed' AND check_out <= $1
	RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completed []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		completed = append(completed, *b)
	}
	return completed, rows.Err()
}
