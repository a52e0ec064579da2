package domain

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ImageSet is the ordered image list of one publication.
//
// The functions in this file are pure: they never touch storage. A set produced
// by them always satisfies two rules:
//   - a non-empty set has exactly one image at position 1 (the cover)
//   - positions are exactly 1..N with no duplicates or gaps
type ImageSet []Image

// InitializeImageSet assigns positions 1..N to the given URLs in input order.
// The first URL becomes the cover. An empty input yields an empty set.
func InitializeImageSet(publicationID uuid.UUID, urls []string) ImageSet {
	set := make(ImageSet, 0, len(urls))
	for _, url := range urls {
		set = append(set, NewImage(publicationID, url))
	}
	return set.renumber()
}

// ApplyEdit computes the image set that results from an edit.
//
// Images not in keepIDs are dropped (an empty keepIDs drops everything), newURLs
// are appended in input order, and the cover is resolved from the choice. An
// invalid or stale choice falls back to the first kept image, then to the first
// new image. The result is ordered cover first, then remaining kept images in
// their original order, then remaining new images in upload order.
func ApplyEdit(
	current ImageSet,
	publicationID uuid.UUID,
	keepIDs map[uuid.UUID]struct{},
	newURLs []string,
	cover CoverChoice,
) ImageSet {
	kept := lo.Filter(current.sorted(), func(img Image, _ int) bool {
		_, ok := keepIDs[img.ID]
		return ok
	})
	added := lo.Map(newURLs, func(url string, _ int) Image {
		return NewImage(publicationID, url)
	})

	coverIdx := -1 // index into kept ++ added
	if id, ok := cover.ExistingID(); ok {
		_, coverIdx, _ = lo.FindIndexOf(kept, func(img Image) bool { return img.ID == id })
	} else if idx, ok := cover.NewIndex(); ok && idx >= 0 && idx < len(added) {
		coverIdx = len(kept) + idx
	}

	merged := make(ImageSet, 0, len(kept)+len(added))
	merged = append(merged, kept...)
	merged = append(merged, added...)

	if coverIdx > 0 {
		chosen := merged[coverIdx]
		copy(merged[1:coverIdx+1], merged[:coverIdx])
		merged[0] = chosen
	}
	// coverIdx <= 0 leaves the fallback in front: first kept, else first new.

	return merged.renumber()
}

// Reorder applies the requested positions to the named images. Images that are
// not named keep their current position. The result must have positions 1..N,
// otherwise a ValidationError is returned. The image at position 1 becomes the cover.
// An empty map is rejected unless the set itself is empty.
func Reorder(current ImageSet, positions map[uuid.UUID]int) (ImageSet, error) {
	if len(current) == 0 && len(positions) == 0 {
		return ImageSet{}, nil
	}
	if len(positions) == 0 {
		return nil, NewValidationError("positions", "cannot be empty", ErrInvalidImageOrder)
	}

	byID := lo.KeyBy(current, func(img Image) uuid.UUID { return img.ID })
	for id := range positions {
		if _, ok := byID[id]; !ok {
			return nil, NewValidationError(
				"positions",
				fmt.Sprintf("references unknown image %s", id),
				ErrInvalidImageOrder,
			)
		}
	}

	next := make(ImageSet, len(current))
	for i, img := range current {
		if pos, ok := positions[img.ID]; ok {
			img.Position = pos
		}
		next[i] = img
	}

	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next.sorted(), nil
}

// Validate checks that positions are exactly 1..N.
func (s ImageSet) Validate() error {
	seen := make(map[int]struct{}, len(s))
	for _, img := range s {
		if img.Position < 1 || img.Position > len(s) {
			return NewValidationError(
				"positions",
				fmt.Sprintf("position %d is outside 1..%d", img.Position, len(s)),
				ErrInvalidImageOrder,
			)
		}
		if _, dup := seen[img.Position]; dup {
			return NewValidationError(
				"positions",
				fmt.Sprintf("position %d is used more than once", img.Position),
				ErrInvalidImageOrder,
			)
		}
		seen[img.Position] = struct{}{}
	}
	return nil
}

// Cover returns the image at position 1.
func (s ImageSet) Cover() (Image, bool) {
	return lo.Find(s, func(img Image) bool { return img.IsCover() })
}

// URLs returns the image URLs in position order.
func (s ImageSet) URLs() []string {
	return lo.Map(s.sorted(), func(img Image, _ int) string { return img.URL })
}

// IDs returns the image IDs in position order.
func (s ImageSet) IDs() []uuid.UUID {
	return lo.Map(s.sorted(), func(img Image, _ int) uuid.UUID { return img.ID })
}

// Dropped returns the images of s that are absent from next.
func (s ImageSet) Dropped(next ImageSet) ImageSet {
	remaining := lo.SliceToMap(next, func(img Image) (uuid.UUID, struct{}) {
		return img.ID, struct{}{}
	})
	return lo.Filter(s, func(img Image, _ int) bool {
		_, ok := remaining[img.ID]
		return !ok
	})
}

// Added returns the images of next that are absent from s.
func (s ImageSet) Added(next ImageSet) ImageSet {
	return next.Dropped(s)
}

// sorted returns a copy ordered by position; ties keep their relative order.
func (s ImageSet) sorted() ImageSet {
	out := make(ImageSet, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// renumber assigns positions 1..N following the current slice order.
func (s ImageSet) renumber() ImageSet {
	for i := range s {
		s[i].Position = i + 1
	}
	return s
}
