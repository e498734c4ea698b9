package domain

import (
	"strings"
	"time"
)

type Review struct {
	ID         int64 `json:"id"`
	BookingID  int64 `json:"booking_id"`
	ListingID  int64 `json:"listing_id"`
	ReviewerID int64 `json:"reviewer_id"`

	// Overall rating, stored independently of the category sub-ratings.
	Rating int `json:"rating"`

	Cleanliness   int `json:"cleanliness"`
	Communication int `json:"communication"`
	CheckIn       int `json:"check_in"`
	Accuracy      int `json:"accuracy"`
	Location      int `json:"location"`
	Value         int `json:"value"`

	Comment      string `json:"comment"`
	HostResponse string `json:"host_response"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AverageRating is the unweighted mean of the six category sub-ratings.
// It is distinct from the stored overall Rating.
func (r *Review) AverageRating() float64 {
	return float64(r.Cleanliness+r.Communication+r.CheckIn+r.Accuracy+r.Location+r.Value) / 6
}

type CreateReviewRequest struct {
	Rating        int    `json:"rating"`
	Cleanliness   int    `json:"cleanliness"`
	Communication int    `json:"communication"`
	CheckIn       int    `json:"check_in"`
	Accuracy      int    `json:"accuracy"`
	Location      int    `json:"location"`
	Value         int    `json:"value"`
	Comment       string `json:"comment"`
}

func (r *CreateReviewRequest) Validate() error {
	ratings := map[string]int{
		"rating":        r.Rating,
		"cleanliness":   r.Cleanliness,
		"communication": r.Communication,
		"check_in":      r.CheckIn,
		"accuracy":      r.Accuracy,
		"location":      r.Location,
		"value":         r.Value,
	}
	for name, v := range ratings {
		if v < 1 || v > 5 {
			return Validationf("%s must be between 1 and 5", name)
		}
	}
	if strings.TrimSpace(r.Comment) == "" {
		return Validationf("comment is required")
	}
	return nil
}

type HostResponseRequest struct {
	Response string `json:"response"`
}

func (r *HostResponseRequest) Validate() error {
	if strings.TrimSpace(r.Response) == "" {
		return Validationf("response text is required")
	}
	return nil
}
