package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Image is a single picture attached to a Publication.
// Position 1 marks the cover image.
type Image struct {
	ID            uuid.UUID `json:"id"`
	PublicationID uuid.UUID `json:"publication_id"`
	URL           string    `json:"url"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewImage creates an Image with a fresh ID. The position is assigned by the
// image-set functions.
func NewImage(publicationID uuid.UUID, url string) Image {
	return Image{
		ID:            uuid.New(),
		PublicationID: publicationID,
		URL:           url,
		CreatedAt:     time.Now().UTC(),
	}
}

// IsCover reports whether the image is the publication's cover.
func (i Image) IsCover() bool {
	return i.Position == 1
}

// MarshalJSON adds the derived is_cover flag.
func (i Image) MarshalJSON() ([]byte, error) {
	type image Image
	return json.Marshal(struct {
		image
		IsCover bool `json:"is_cover"`
	}{image: image(i), IsCover: i.IsCover()})
}

// coverKind enumerates the ways a cover can be requested during an edit.
type coverKind int

const (
	coverNone coverKind = iota
	coverExisting
	coverNew
)

// CoverChoice is the caller's preference for the cover after an edit.
// The zero value means no preference.
type CoverChoice struct {
	kind     coverKind
	imageID  uuid.UUID
	newIndex int
}

// NoCover leaves the cover to the fallback rule.
func NoCover() CoverChoice {
	return CoverChoice{kind: coverNone}
}

// CoverExisting asks for an already stored image to become the cover.
func CoverExisting(id uuid.UUID) CoverChoice {
	return CoverChoice{kind: coverExisting, imageID: id}
}

// CoverNew asks for the new upload at index (0-based, in upload order) to become the cover.
func CoverNew(index int) CoverChoice {
	return CoverChoice{kind: coverNew, newIndex: index}
}

// ExistingID returns the requested existing image, if any.
func (c CoverChoice) ExistingID() (uuid.UUID, bool) {
	return c.imageID, c.kind == coverExisting
}

// NewIndex returns the requested new-upload index, if any.
func (c CoverChoice) NewIndex() (int, bool) {
	return c.newIndex, c.kind == coverNew
}

// IsNone reports whether no cover preference was given.
func (c CoverChoice) IsNone() bool {
	return c.kind == coverNone
}

// ParseCoverChoice builds a CoverChoice from the raw request fields.
// An existing image ID takes precedence over a new-upload index. A malformed ID
// or a negative index is not an error: it is dropped and the fallback rule applies.
func ParseCoverChoice(existingID string, newIndex *int) CoverChoice {
	if existingID != "" {
		if id, err := uuid.Parse(existingID); err == nil {
			return CoverExisting(id)
		}
	}
	if newIndex != nil && *newIndex >= 0 {
		return CoverNew(*newIndex)
	}
	return NoCover()
}
