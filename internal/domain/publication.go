package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Publication validation errors
var (
	ErrPublicationUserIDEmpty      = errors.New("publication user ID cannot be empty")
	ErrPublicationTitleEmpty       = errors.New("publication title cannot be empty")
	ErrPublicationTitleTooLong     = errors.New("publication title must be at most 200 characters")
	ErrPublicationSummaryEmpty     = errors.New("publication short description cannot be empty")
	ErrPublicationDescriptionEmpty = errors.New("publication description cannot be empty")
	ErrPublicationYearInvalid      = errors.New("vehicle year is out of range")
	ErrPublicationCategoryEmpty    = errors.New("publication category cannot be empty")
	ErrPublicationBrandEmpty       = errors.New("publication brand cannot be empty")
)

// Bounds for the vehicle year. The upper bound is relative to the current year
// so next-year models can be listed.
const (
	MinVehicleYear       = 1886
	maxTitleLength       = 200
	vehicleYearLookahead = 1
)

// PublicationInput holds the editable fields of a publication.
type PublicationInput struct {
	Title            string
	ShortDescription string
	Description      string
	Detail           string
	URL              string
	VehicleYear      int
	CategoryID       uuid.UUID
	BrandID          uuid.UUID
}

// Publication is a vehicle listing owned by one user.
type Publication struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
	Detail           string    `json:"detail"`
	URL              string    `json:"url,omitempty"`
	VehicleYear      int       `json:"vehicle_year"`
	CategoryID       uuid.UUID `json:"category_id"`
	BrandID          uuid.UUID `json:"brand_id"`
	PublishedAt      time.Time `json:"published_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Version          int       `json:"version"`
}

// NewPublication creates a Publication owned by userID.
// Returns an error if validation fails.
func NewPublication(userID uuid.UUID, input PublicationInput) (*Publication, error) {
	now := time.Now().UTC()
	p := &Publication{
		ID:          uuid.New(),
		UserID:      userID,
		PublishedAt: now,
		UpdatedAt:   now,
		Version:     1,
	}
	p.assign(input)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyInput replaces the editable fields, bumps the version and refreshes UpdatedAt.
// PublishedAt and ownership never change.
func (p *Publication) ApplyInput(input PublicationInput) error {
	next := *p
	next.assign(input)
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()
	next.Version++
	*p = next
	return nil
}

// Touch bumps the version after a change that does not affect the metadata.
func (p *Publication) Touch() {
	p.UpdatedAt = time.Now().UTC()
	p.Version++
}

// IsOwnedBy reports whether userID owns the publication.
func (p *Publication) IsOwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

func (p *Publication) assign(input PublicationInput) {
	p.Title = strings.TrimSpace(input.Title)
	p.ShortDescription = strings.TrimSpace(input.ShortDescription)
	p.Description = strings.TrimSpace(input.Description)
	p.Detail = strings.TrimSpace(input.Detail)
	p.URL = strings.TrimSpace(input.URL)
	p.VehicleYear = input.VehicleYear
	p.CategoryID = input.CategoryID
	p.BrandID = input.BrandID
}

// Validate checks if the Publication has valid data.
func (p *Publication) Validate() error {
	if p.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrPublicationUserIDEmpty)
	}
	if p.Title == "" {
		return NewValidationError("title", "cannot be empty", ErrPublicationTitleEmpty)
	}
	if len([]rune(p.Title)) > maxTitleLength {
		return NewValidationError("title", "is too long", ErrPublicationTitleTooLong)
	}
	if p.ShortDescription == "" {
		return NewValidationError("short_description", "cannot be empty", ErrPublicationSummaryEmpty)
	}
	if p.Description == "" {
		return NewValidationError("description", "cannot be empty", ErrPublicationDescriptionEmpty)
	}
	maxYear := time.Now().UTC().Year() + vehicleYearLookahead
	if p.VehicleYear < MinVehicleYear || p.VehicleYear > maxYear {
		return NewValidationError("vehicle_year", "is out of range", ErrPublicationYearInvalid)
	}
	if p.CategoryID == uuid.Nil {
		return NewValidationError("category_id", "cannot be empty", ErrPublicationCategoryEmpty)
	}
	if p.BrandID == uuid.Nil {
		return NewValidationError("brand_id", "cannot be empty", ErrPublicationBrandEmpty)
	}
	return nil
}

// PublicationSummary is one row of a listing page.
type PublicationSummary struct {
	Publication
	CategoryName string `json:"category_name"`
	BrandName    string `json:"brand_name"`
	CoverURL     string `json:"cover_url,omitempty"`
}

// PublicationDetail is the public view of a publication.
type PublicationDetail struct {
	Publication
	Username     string   `json:"username"`
	CategoryName string   `json:"category_name"`
	BrandName    string   `json:"brand_name"`
	CoverURL     string   `json:"cover_url,omitempty"`
	ImageURLs    []string `json:"images"`
	LikeCount    int      `json:"like_count"`
}

// PublicationEditDetail is the owner's editing view with per-image IDs.
type PublicationEditDetail struct {
	PublicationDetail
	Images ImageSet `json:"image_set"`
}

// NewPublicationEditDetail builds the editing view from the public view and the images.
func NewPublicationEditDetail(detail PublicationDetail, images ImageSet) *PublicationEditDetail {
	ordered := images.sorted()
	detail.ImageURLs = ordered.URLs()
	detail.CoverURL = ""
	if cover, ok := ordered.Cover(); ok {
		detail.CoverURL = cover.URL
	}
	return &PublicationEditDetail{
		PublicationDetail: detail,
		Images:            ordered,
	}
}

// PublicationFilter narrows a listing.
type PublicationFilter struct {
	BrandID    *uuid.UUID
	CategoryID *uuid.UUID
	Year       *int
	Title      string
	Skip       int
	Limit      int
}

// Listing page bounds.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page is an offset window over a listing.
type Page struct {
	Skip  int
	Limit int
}

// Normalize applies the default and maximum page size and clamps Skip.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
	return p
}

// Normalize applies the page bounds and trims the title filter.
func (f PublicationFilter) Normalize() PublicationFilter {
	page := Page{Skip: f.Skip, Limit: f.Limit}.Normalize()
	f.Skip, f.Limit = page.Skip, page.Limit
	f.Title = strings.TrimSpace(f.Title)
	return f
}
