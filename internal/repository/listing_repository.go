package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborstay/harborstay/internal/domain"
)

type ListingRepository interface {
	Create(ctx context.Context, hostID int64, req *domain.CreateListingRequest) (*domain.Listing, error)
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	GetDetail(ctx context.Context, id int64) (*domain.Listing, error)
	Search(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, error)
	ListByHost(ctx context.Context, hostID int64) ([]domain.Listing, error)
	Update(ctx context.Context, id int64, patch domain.ListingPatch) (*domain.Listing, error)
	Deactivate(ctx context.Context, id int64) (bool, error)
	AddImage(ctx context.Context, listingID int64, req *domain.AddImageRequest) (*domain.ListingImage, error)
	ListImages(ctx context.Context, listingID int64) ([]domain.ListingImage, error)
}

type listingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) ListingRepository {
	return &listingRepository{pool: pool}
}

// avg over the stored overall rating of each review; recomputed on every read
const listingCols = `listings.id, listings.host_id, listings.title, listings.description, listings.property_type,
listings.street_address, listings.city, listings.state, listings.country, listings.zip_code,
listings.latitude, listings.longitude,
listings.bedrooms, listings.bathrooms, listings.guests, listings.price_per_night,
listings.wifi, listings.kitchen, listings.parking, listings.air_conditioning,
listings.heating, listings.tv, listings.pool, listings.gym,
listings.is_active, listings.created_at, listings.updated_at,
COALESCE((SELECT AVG(r.rating) FROM reviews r WHERE r.listing_id = listings.id), 0)`

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(
		&l.ID, &l.HostID, &l.Title, &l.Description, &l.PropertyType,
		&l.StreetAddress, &l.City, &l.State, &l.Country, &l.ZipCode,
		&l.Latitude, &l.Longitude,
		&l.Bedrooms, &l.Bathrooms, &l.Guests, &l.PricePerNight,
		&l.Wifi, &l.Kitchen, &l.Parking, &l.AirConditioning,
		&l.Heating, &l.TV, &l.Pool, &l.Gym,
		&l.IsActive, &l.CreatedAt, &l.UpdatedAt,
		&l.AverageRating,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listingRepository) Create(ctx context.Context, hostID int64, req *domain.CreateListingRequest) (*domain.Listing, error) {
	const q = `INSERT INTO listings (
		host_id, title, description, property_type,
		street_address, city, state, country, zip_code, latitude, longitude,
		bedrooms, bathrooms, guests, price_per_night,
		wifi, kitchen, parking, air_conditioning, heating, tv, pool, gym
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
	RETURNING ` + listingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanListing(r.pool.QueryRow(ctx, q,
		hostID, req.Title, req.Description, req.PropertyType,
		req.StreetAddress, req.City, req.State, req.Country, req.ZipCode, req.Latitude, req.Longitude,
		req.Bedrooms, req.Bathrooms, req.Guests, req.PricePerNight,
		req.Wifi, req.Kitchen, req.Parking, req.AirConditioning, req.Heating, req.TV, req.Pool, req.Gym,
	))
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	const q = `SELECT ` + listingCols + ` FROM listings WHERE listings.id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanListing(r.pool.QueryRow(ctx, q, id))
}

func (r *listingRepository) GetDetail(ctx context.Context, id int64) (*domain.Listing, error) {
	l, err := r.GetByID(ctx, id)
	if err != nil || l == nil {
		return l, err
	}

	if l.Images, err = r.ListImages(ctx, id); err != nil {
		return nil, err
	}
	if l.Reviews, err = r.listReviews(ctx, id); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *listingRepository) Search(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + listingCols + ` FROM listings WHERE listings.is_active`
	var args []any

	if f.Location != "" {
		args = append(args, "%"+f.Location+"%")
		n := len(args)
		q += fmt.Sprintf(` AND (city ILIKE $%d OR state ILIKE $%d OR country ILIKE $%d OR title ILIKE $%d)`, n, n, n, n)
	}
	if f.Guests > 0 {
		args = append(args, f.Guests)
		q += fmt.Sprintf(` AND guests >= $%d`, len(args))
	}
	if f.Bedrooms > 0 {
		args = append(args, f.Bedrooms)
		q += fmt.Sprintf(` AND bedrooms >= $%d`, len(args))
	}
	if f.Bathrooms > 0 {
		args = append(args, f.Bathrooms)
		q += fmt.Sprintf(` AND bathrooms >= $%d`, len(args))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		q += fmt.Sprintf(` AND price_per_night >= $%d`, len(args))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		q += fmt.Sprintf(` AND price_per_night <= $%d`, len(args))
	}
	if f.PropertyType != "" {
		args = append(args, f.PropertyType)
		q += fmt.Sprintf(` AND property_type = $%d`, len(args))
	}

	args = append(args, limit, offset)
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectListings(rows)
}

func (r *listingRepository) ListByHost(ctx context.Context, hostID int64) ([]domain.Listing, error) {
	const q = `SELECT ` + listingCols + ` FROM listings WHERE listings.host_id=$1 ORDER BY created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectListings(rows)
}

func collectListings(rows pgx.Rows) ([]domain.Listing, error) {
	var listings []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

func (r *listingRepository) Update(ctx context.Context, id int64, patch domain.ListingPatch) (*domain.Listing, error) {
	const q = `
		UPDATE listings
		SET
			title           = COALESCE($2, title),
			description     = COALESCE($3, description),
			property_type   = COALESCE($4, property_type),
			street_address  = COALESCE($5, street_address),
			city            = COALESCE($6, city),
			state           = COALESCE($7, state),
			country         = COALESCE($8, country),
			zip_code        = COALESCE($9, zip_code),
			bedrooms        = COALESCE($10, bedrooms),
			bathrooms       = COALESCE($11, bathrooms),
			guests          = COALESCE($12, guests),
			price_per_night = COALESCE($13, price_per_night),
			wifi             = COALESCE($14, wifi),
			kitchen          = COALESCE($15, kitchen),
			parking          = COALESCE($16, parking),
			air_conditioning = COALESCE($17, air_conditioning),
			heating          = COALESCE($18, heating),
			tv               = COALESCE($19, tv),
			pool             = COALESCE($20, pool),
			gym              = COALESCE($21, gym),
			is_active        = COALESCE($22, is_active),
			updated_at       = now()
		WHERE listings.id=$1
		RETURNING ` + listingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanListing(r.pool.QueryRow(ctx, q,
		id, patch.Title, patch.Description, patch.PropertyType,
		patch.StreetAddress, patch.City, patch.State, patch.Country, patch.ZipCode,
		patch.Bedrooms, patch.Bathrooms, patch.Guests, patch.PricePerNight,
		patch.Wifi, patch.Kitchen, patch.Parking, patch.AirConditioning,
		patch.Heating, patch.TV, patch.Pool, patch.Gym,
		patch.IsActive,
	))
}

func (r *listingRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	const q = `UPDATE listings SET is_active=false, updated_at=now() WHERE id=$1 AND is_active`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

const imageCols = `id, listing_id, url, caption, is_primary, uploaded_at`

func (r *listingRepository) AddImage(ctx context.Context, listingID int64, req *domain.AddImageRequest) (*domain.ListingImage, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if req.IsPrimary {
		if _, err := tx.Exec(ctx, `UPDATE listing_images SET is_primary=false WHERE listing_id=$1 AND is_primary`, listingID); err != nil {
			return nil, err
		}
	}

	const q = `INSERT INTO listing_images (listing_id, url, caption, is_primary)
	VALUES ($1,$2,$3,$4) RETURNING ` + imageCols

	var img domain.ListingImage
	err = tx.QueryRow(ctx, q, listingID, req.URL, req.Caption, req.IsPrimary).Scan(
		&img.ID, &img.ListingID, &img.URL, &img.Caption, &img.IsPrimary, &img.UploadedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *listingRepository) ListImages(ctx context.Context, listingID int64) ([]domain.ListingImage, error) {
	const q = `SELECT ` + imageCols + ` FROM listing_images WHERE listing_id=$1 ORDER BY is_primary DESC, uploaded_at`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []domain.ListingImage
	for rows.Next() {
		var img domain.ListingImage
		if err := rows.Scan(&img.ID, &img.ListingID, &img.URL, &img.Caption, &img.IsPrimary, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *listingRepository) listReviews(ctx context.Context, listingID int64) ([]domain.Review, error) {
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
