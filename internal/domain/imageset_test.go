package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeImages builds [a(1), b(2), c(3)] for one publication.
func threeImages(pubID uuid.UUID) (ImageSet, Image, Image, Image) {
	set := InitializeImageSet(pubID, []string{"a", "b", "c"})
	return set, set[0], set[1], set[2]
}

func keep(ids ...uuid.UUID) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func positions(set ImageSet) []int {
	out := make([]int, len(set))
	for i, img := range set {
		out[i] = img.Position
	}
	return out
}

func assertWellFormed(t *testing.T, set ImageSet) {
	t.Helper()
	require.NoError(t, set.Validate())
	covers := 0
	for _, img := range set {
		if img.IsCover() {
			covers++
		}
	}
	if len(set) == 0 {
		assert.Equal(t, 0, covers)
		return
	}
	assert.Equal(t, 1, covers, "exactly one cover expected")
}

func TestInitializeImageSet(t *testing.T) {
	t.Parallel()
	pubID := uuid.New()

	tests := []struct {
		name string
		urls []string
	}{
		{name: "empty", urls: nil},
		{name: "single", urls: []string{"u1"}},
		{name: "several", urls: []string{"u1", "u2", "u3", "u4"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			set := InitializeImageSet(pubID, tc.urls)

			require.Len(t, set, len(tc.urls))
			assertWellFormed(t, set)
			for i, img := range set {
				assert.Equal(t, tc.urls[i], img.URL)
				assert.Equal(t, i+1, img.Position)
				assert.Equal(t, pubID, img.PublicationID)
				assert.NotEqual(t, uuid.Nil, img.ID)
			}
			if len(tc.urls) > 0 {
				cover, ok := set.Cover()
				require.True(t, ok)
				assert.Equal(t, tc.urls[0], cover.URL)
			} else {
				_, ok := set.Cover()
				assert.False(t, ok)
			}
		})
	}
}

func TestApplyEdit_Scenarios(t *testing.T) {
	t.Parallel()
	pubID := uuid.New()

	t.Run("keep b and c, add d, cover c", func(t *testing.T) {
		t.Parallel()
		set, _, b, c := threeImages(pubID)

		got := ApplyEdit(set, pubID, keep(b.ID, c.ID), []string{"d"}, CoverExisting(c.ID))

		assertWellFormed(t, got)
		assert.Equal(t, []string{"c", "b", "d"}, got.URLs())
		assert.Equal(t, []int{1, 2, 3}, positions(got))
		assert.Equal(t, c.ID, got[0].ID)
		assert.Equal(t, b.ID, got[1].ID)
	})

	t.Run("replace all images", func(t *testing.T) {
		t.Parallel()
		set, _, _, _ := threeImages(pubID)

		got := ApplyEdit(set, pubID, keep(), []string{"e", "f"}, NoCover())

		assertWellFormed(t, got)
		assert.Equal(t, []string{"e", "f"}, got.URLs())
	})

	t.Run("cover points at dropped image", func(t *testing.T) {
		t.Parallel()
		set, a, b, _ := threeImages(pubID)

		got := ApplyEdit(set, pubID, keep(a.ID), nil, CoverExisting(b.ID))

		assertWellFormed(t, got)
		require.Len(t, got, 1)
		assert.Equal(t, a.ID, got[0].ID)
		assert.True(t, got[0].IsCover())
	})
}

func TestApplyEdit_CoverResolution(t *testing.T) {
	t.Parallel()
	pubID := uuid.New()
	set, a, b, c := threeImages(pubID)

	tests := []struct {
		name     string
		keepIDs  map[uuid.UUID]struct{}
		newURLs  []string
		cover    CoverChoice
		expected []string
	}{
		{
			name:     "no choice keeps original order",
			keepIDs:  keep(a.ID, b.ID, c.ID),
			newURLs:  []string{"d", "e"},
			cover:    NoCover(),
			expected: []string{"a", "b", "c", "d", "e"},
		},
		{
			name:     "new image chosen as cover",
			keepIDs:  keep(a.ID, c.ID),
			newURLs:  []string{"d", "e"},
			cover:    CoverNew(1),
			expected: []string{"e", "a", "c", "d"},
		},
		{
			name:     "first new image chosen as cover",
			keepIDs:  keep(b.ID),
			newURLs:  []string{"d"},
			cover:    CoverNew(0),
			expected: []string{"d", "b"},
		},
		{
			name:     "out of range new index falls back to first kept",
			keepIDs:  keep(b.ID, c.ID),
			newURLs:  []string{"d"},
			cover:    CoverNew(5),
			expected: []string{"b", "c", "d"},
		},
		{
			name:     "stale existing id with nothing kept falls back to first new",
			keepIDs:  keep(),
			newURLs:  []string{"x", "y"},
			cover:    CoverExisting(a.ID),
			expected: []string{"x", "y"},
		},
		{
			name:     "unknown existing id falls back",
			keepIDs:  keep(c.ID, b.ID),
			newURLs:  nil,
			cover:    CoverExisting(uuid.New()),
			expected: []string{"b", "c"},
		},
		{
			name:     "last kept image promoted",
			keepIDs:  keep(a.ID, b.ID, c.ID),
			newURLs:  nil,
			cover:    CoverExisting(c.ID),
			expected: []string{"c", "a", "b"},
		},
		{
			name:     "everything removed",
			keepIDs:  keep(),
			newURLs:  nil,
			cover:    CoverExisting(a.ID),
			expected: []string{},
		},
		{
			name:     "keep ids that do not belong are ignored",
			keepIDs:  keep(uuid.New(), b.ID),
			newURLs:  nil,
			cover:    NoCover(),
			expected: []string{"b"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ApplyEdit(set, pubID, tc.keepIDs, tc.newURLs, tc.cover)

			assertWellFormed(t, got)
			assert.Equal(t, tc.expected, got.URLs())
		})
	}
}

func TestApplyEdit_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	pubID := uuid.New()
	set, a, _, c := threeImages(pubID)
	before := append(ImageSet(nil), set...)

	_ = ApplyEdit(set, pubID, keep(a.ID, c.ID), []string{"d"}, CoverExisting(c.ID))

	assert.Equal(t, before, set)
}

func TestApplyEdit_UnsortedInput(t *testing.T) {
	t.Parallel()
	pubID := uuid.New()
	set, a, b, c := threeImages(pubID)
	shuffled := ImageSet{set[2], set[0], set[1]}

	got := ApplyEdit(shuffled, pubID, keep(a.ID, b.ID, c.ID), nil, NoCover())

	assert.Equal(t, []string{"a", "b", "c"}, got.URLs())
}

func TestApplyEdit_NewImagesBelongToPublication(t *testing.T) {
	t.Parallel()
	pubID := uuid.New()

	got := ApplyEdit(nil, pubID, keep(), []string{"n1", "n2"}, NoCover())

	for _, img := range got {
		assert.Equal(t, pubID, img.PublicationID)
		assert.NotEqual(t, uuid.Nil, img.ID)
	}
}

// Every combination of kept subset, number of uploads and cover choice must
// produce a well-formed set whose non-cover part keeps kept-then-new order.
func TestApplyEdit_OrderPreservation(t *testing.T) {
	t.Parallel()
	pubID := uuid.New()
	set, a, b, c := threeImages(pubID)
	all := []Image{a, b, c}

	for mask := 0; mask < 8; mask++ {
		var kept []uuid.UUID
		var keptURLs []string
		for i, img := range all {
			if mask&(1<<i) != 0 {
				kept = append(kept, img.ID)
				keptURLs = append(keptURLs, img.URL)
			}
		}
		for uploads := 0; uploads <= 2; uploads++ {
			newURLs := make([]string, uploads)
			for i := range newURLs {
				newURLs[i] = fmt.Sprintf("n%d", i)
			}
			want := append(append([]string{}, keptURLs...), newURLs...)

			t.Run(fmt.Sprintf("mask=%03b uploads=%d", mask, uploads), func(t *testing.T) {
				got := ApplyEdit(set, pubID, keep(kept...), newURLs, NoCover())

				assertWellFormed(t, got)
				assert.Len(t, got, len(want))
				if len(want) == 0 {
					assert.Empty(t, got)
					return
				}
				assert.Equal(t, want, got.URLs())
			})
		}
	}
}

func TestReorder(t *testing.T) {
	t.Parallel()
	pubID := uuid.New()
	set, a, b, c := threeImages(pubID)

	t.Run("swap first two", func(t *testing.T) {
		t.Parallel()
		got, err := Reorder(set, map[uuid.UUID]int{a.ID: 2, b.ID: 1, c.ID: 3})

		require.NoError(t, err)
		assertWellFormed(t, got)
		assert.Equal(t, []string{"b", "a", "c"}, got.URLs())
		assert.Equal(t, b.ID, got[0].ID)
		assert.True(t, got[0].IsCover())
	})

	t.Run("partial map keeps unnamed positions", func(t *testing.T) {
		t.Parallel()
		got, err := Reorder(set, map[uuid.UUID]int{a.ID: 3, c.ID: 1})

		require.NoError(t, err)
		assert.Equal(t, []string{"c", "b", "a"}, got.URLs())
	})

	errorCases := []struct {
		name      string
		positions map[uuid.UUID]int
	}{
		{name: "empty map", positions: map[uuid.UUID]int{}},
		{name: "duplicate position", positions: map[uuid.UUID]int{a.ID: 1, b.ID: 1, c.ID: 3}},
		{name: "gap", positions: map[uuid.UUID]int{a.ID: 1, b.ID: 2, c.ID: 4}},
		{name: "zero position", positions: map[uuid.UUID]int{a.ID: 0, b.ID: 1, c.ID: 2}},
		{name: "partial map collides", positions: map[uuid.UUID]int{a.ID: 2}},
		{name: "unknown image", positions: map[uuid.UUID]int{uuid.New(): 1}},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Reorder(set, tc.positions)

			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.True(t, errors.Is(err, ErrInvalidImageOrder))
			var vErr *ValidationError
			assert.True(t, errors.As(err, &vErr))
		})
	}

	t.Run("empty set with empty map", func(t *testing.T) {
		t.Parallel()
		got, err := Reorder(ImageSet{}, map[uuid.UUID]int{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("input untouched", func(t *testing.T) {
		t.Parallel()
		before := append(ImageSet(nil), set...)
		_, err := Reorder(set, map[uuid.UUID]int{a.ID: 3, c.ID: 1})
		require.NoError(t, err)
		assert.Equal(t, before, set)
	})
}

func TestImageSet_Dropped(t *testing.T) {
	t.Parallel()
	pubID := uuid.New()
	set, a, b, c := threeImages(pubID)

	next := ApplyEdit(set, pubID, keep(b.ID), []string{"d"}, NoCover())

	dropped := set.Dropped(next)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, c.ID}, []uuid.UUID{dropped[0].ID, dropped[1].ID})

	added := set.Added(next)
	require.Len(t, added, 1)
	assert.Equal(t, "d", added[0].URL)
}

func TestParseCoverChoice(t *testing.T) {
	t.Parallel()
	id := uuid.New()
	idx := 2
	negative := -1

	tests := []struct {
		name       string
		existingID string
		newIndex   *int
		wantID     *uuid.UUID
		wantIndex  *int
	}{
		{name: "existing id wins over index", existingID: id.String(), newIndex: &idx, wantID: &id},
		{name: "new index", newIndex: &idx, wantIndex: &idx},
		{name: "nothing given"},
		{name: "malformed id degrades to none", existingID: "not-a-uuid"},
		{name: "malformed id falls through to index", existingID: "not-a-uuid", newIndex: &idx, wantIndex: &idx},
		{name: "negative index degrades to none", newIndex: &negative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			choice := ParseCoverChoice(tt.existingID, tt.newIndex)

			gotID, isExisting := choice.ExistingID()
			gotIdx, isNew := choice.NewIndex()
			switch {
			case tt.wantID != nil:
				require.True(t, isExisting)
				assert.Equal(t, *tt.wantID, gotID)
			case tt.wantIndex != nil:
				require.True(t, isNew)
				assert.Equal(t, *tt.wantIndex, gotIdx)
			default:
				assert.True(t, choice.IsNone())
			}
		})
	}
}

func TestApplyEdit_UnparseableCoverFallsBack(t *testing.T) {
	t.Parallel()
	pubID := uuid.New()
	current := InitializeImageSet(pubID, []string{"a", "b"})
	negative := -1

	for _, cover := range []CoverChoice{
		ParseCoverChoice("bogus", nil),
		ParseCoverChoice("", &negative),
	} {
		next := ApplyEdit(current, pubID, keep(current[1].ID), []string{"c"}, cover)
		require.NoError(t, next.Validate())
		assert.Equal(t, []string{"b", "c"}, next.URLs())
		first, ok := next.Cover()
		require.True(t, ok)
		assert.Equal(t, current[1].ID, first.ID)
	}
}

func TestImage_MarshalJSONIncludesCoverFlag(t *testing.T) {
	t.Parallel()
	set := InitializeImageSet(uuid.New(), []string{"a", "b"})

	raw, err := json.Marshal(set)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, true, decoded[0]["is_cover"])
	assert.Equal(t, false, decoded[1]["is_cover"])
	assert.Equal(t, set[0].ID.String(), decoded[0]["id"])
	assert.Equal(t, "a", decoded[0]["url"])
	assert.EqualValues(t, 2, decoded[1]["position"])
}
