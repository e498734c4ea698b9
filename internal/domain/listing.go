package domain

import (
	"strings"
	"time"
)

type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
	PropertyVilla     PropertyType = "villa"
	PropertyCottage   PropertyType = "cottage"
	PropertyCabin     PropertyType = "cabin"
	PropertyStudio    PropertyType = "studio"
	PropertyOther     PropertyType = "other"
)

func ParsePropertyType(s string) (PropertyType, bool) {
	switch PropertyType(s) {
	case PropertyApartment, PropertyHouse, PropertyVilla, PropertyCottage,
		PropertyCabin, PropertyStudio, PropertyOther:
		return PropertyType(s), true
	default:
		return "", false
	}
}

type Listing struct {
	ID            int64        `json:"id"`
	HostID        int64        `json:"host_id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	PropertyType  PropertyType `json:"property_type"`
	StreetAddress string       `json:"street_address"`
	City          string       `json:"city"`
	State         string       `json:"state"`
	Country       string       `json:"country"`
	ZipCode       string       `json:"zip_code"`
	Latitude      *float64     `json:"latitude,omitempty"`
	Longitude     *float64     `json:"longitude,omitempty"`

	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     float64 `json:"bathrooms"`
	Guests        int     `json:"guests"`
	PricePerNight float64 `json:"price_per_night"`

	Wifi            bool `json:"wifi"`
	Kitchen         bool `json:"kitchen"`
	Parking         bool `json:"parking"`
	AirConditioning bool `json:"air_conditioning"`
	Heating         bool `json:"heating"`
	TV              bool `json:"tv"`
	Pool            bool `json:"pool"`
	Gym             bool `json:"gym"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Recomputed on read, never stored.
	AverageRating float64        `json:"average_rating"`
	Images        []ListingImage `json:"images,omitempty"`
	Reviews       []Review       `json:"reviews,omitempty"`
}

// IsOwnedBy reports whether userID is the listing's host.
func (l *Listing) IsOwnedBy(userID int64) bool {
	return l.HostID == userID
}

type ListingImage struct {
	ID         int64     `json:"id"`
	ListingID  int64     `json:"listing_id"`
	URL        string    `json:"url"`
	Caption    string    `json:"caption"`
	IsPrimary  bool      `json:"is_primary"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type CreateListingRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	PropertyType  string   `json:"property_type"`
	StreetAddress string   `json:"street_address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Country       string   `json:"country"`
	ZipCode       string   `json:"zip_code"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     float64  `json:"bathrooms"`
	Guests        int      `json:"guests"`
	PricePerNight float64  `json:"price_per_night"`

	Wifi            bool `json:"wifi"`
	Kitchen         bool `json:"kitchen"`
	Parking         bool `json:"parking"`
	AirConditioning bool `json:"air_conditioning"`
	Heating         bool `json:"heating"`
	TV              bool `json:"tv"`
	Pool            bool `json:"pool"`
	Gym             bool `json:"gym"`
}

func (r *CreateListingRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.City = strings.TrimSpace(r.City)
	r.State = strings.TrimSpace(r.State)
	r.Country = strings.TrimSpace(r.Country)
}

func (r *CreateListingRequest) Validate() error {
	if r.Title == "" {
		return Validationf("title is required")
	}
	if _, ok := ParsePropertyType(r.PropertyType); !ok {
		return Validationf("invalid property_type %q", r.PropertyType)
	}
	if r.City == "" || r.Country == "" {
		return Validationf("city and country are required")
	}
	if r.Guests < 1 {
		return Validationf("guests capacity must be at least 1")
	}
	if r.Bedrooms < 0 || r.Bathrooms < 0 {
		return Validationf("bedrooms and bathrooms cannot be negative")
	}
	if r.PricePerNight <= 0 {
		return Validationf("price_per_night must be positive")
	}
	return nil
}

// ListingPatch updates a listing; nil fields are left untouched.
type ListingPatch struct {
	Title         *string  `json:"title,omitempty"`
	Description   *string  `json:"description,omitempty"`
	PropertyType  *string  `json:"property_type,omitempty"`
	StreetAddress *string  `json:"street_address,omitempty"`
	City          *string  `json:"city,omitempty"`
	State         *string  `json:"state,omitempty"`
	Country       *string  `json:"country,omitempty"`
	ZipCode       *string  `json:"zip_code,omitempty"`
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *float64 `json:"bathrooms,omitempty"`
	Guests        *int     `json:"guests,omitempty"`
	PricePerNight *float64 `json:"price_per_night,omitempty"`

	Wifi            *bool `json:"wifi,omitempty"`
	Kitchen         *bool `json:"kitchen,omitempty"`
	Parking         *bool `json:"parking,omitempty"`
	AirConditioning *bool `json:"air_conditioning,omitempty"`
	Heating         *bool `json:"heating,omitempty"`
	TV              *bool `json:"tv,omitempty"`
	Pool            *bool `json:"pool,omitempty"`
	Gym             *bool `json:"gym,omitempty"`

	IsActive *bool `json:"is_active,omitempty"`
}

func (p *ListingPatch) Validate() error {
	if p.PropertyType != nil {
		if _, ok := ParsePropertyType(*p.PropertyType); !ok {
			return Validationf("invalid property_type %q", *p.PropertyType)
		}
	}
	if p.Guests != nil && *p.Guests < 1 {
		return Validationf("guests capacity must be at least 1")
	}
	if p.PricePerNight != nil && *p.PricePerNight <= 0 {
		return Validationf("price_per_night must be positive")
	}
	return nil
}

// ListingFilter narrows a listing search. Zero values mean "no filter".
type ListingFilter struct {
	Location     string
	Guests       int
	Bedrooms     int
	Bathrooms    float64
	MinPrice     *float64
	MaxPrice     *float64
	PropertyType PropertyType
	Limit        int
	Offset       int
}

type AddImageRequest struct {
	URL       string `json:"url"`
	Caption   string `json:"caption"`
	IsPrimary bool   `json:"is_primary"`
}

func (r *AddImageRequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return Validationf("image url is required")
	}
	return nil
}
