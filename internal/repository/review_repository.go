package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborstay/harborstay/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rev *domain.Review) (*domain.Review, error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Review, error)
	ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error)
	SetHostResponse(ctx context.Context, id int64, response string) (*domain.Review, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

const reviewCols = `id, booking_id, listing_id, reviewer_id, rating,
cleanliness, communication, check_in, accuracy, location, value,
comment, host_response, created_at, updated_at`

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rev domain.Review
	err := row.Scan(
		&rev.ID, &rev.BookingID, &rev.ListingID, &rev.ReviewerID, &rev.Rating,
		&rev.Cleanliness, &rev.Communication, &rev.CheckIn, &rev.Accuracy, &rev.Location, &rev.Value,
		&rev.Comment, &rev.HostResponse, &rev.CreatedAt, &rev.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func collectReviews(rows pgx.Rows) ([]domain.Review, error) {
	var reviews []domain.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *rev)
	}
	return reviews, rows.Err()
}

func (r *reviewRepository) Create(ctx context.Context, rev *domain.Review) (*domain.Review, error) {
	const q = `INSERT INTO reviews (booking_id, listing_id, reviewer_id, rating,
	cleanliness, communication, check_in, accuracy, location, value, comment)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	RETURNING ` + reviewCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanReview(r.pool.QueryRow(ctx, q,
		rev.BookingID, rev.ListingID, rev.ReviewerID, rev.Rating,
		rev.Cleanliness, rev.Communication, rev.CheckIn, rev.Accuracy, rev.Location, rev.Value,
		rev.Comment,
	))
	if isUniqueViolation(err) {
		return nil, domain.Conflictf("this booking has already been reviewed")
	}
	return created, err
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	const q = `SELECT ` + reviewCols + ` FROM reviews WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanReview(r.pool.QueryRow(ctx, q, id))
}

func (r *reviewRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Review, error) {
	const q = `SELECT ` + reviewCols + ` FROM reviews WHERE booking_id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanReview(r.pool.QueryRow(ctx, q, bookingID))
}

func (r *reviewRepository) ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error) {
	const q = `SELECT ` + reviewCols + ` FROM reviews WHERE listing_id=$1 ORDER BY created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReviews(rows)
}

func (r *reviewRepository) SetHostResponse(ctx context.Context, id int64, response string) (*domain.Review, error) {
	const q = `UPDATE reviews SET host_response=$2, updated_at=now() WHERE id=$1
	RETURNING ` + reviewCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanReview(r.pool.QueryRow(ctx, q, id, response))
}
