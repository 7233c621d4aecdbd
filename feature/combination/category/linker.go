// Package category implements the compatibility filter that restricts which
// values across different libraries may co-occur in one combination.
package category

import (
	"math/rand"
	"sort"

	"prompt-mixer/feature/library/models"
)

// Linker draws a shared category and filters library pools by it. The
// random source is injected for deterministic tests.
type Linker struct {
	rng *rand.Rand
}

// New creates a linker over the given random source.
func New(rng *rand.Rand) *Linker {
	return &Linker{rng: rng}
}

// HasLinkData reports whether the collection is eligible for category
// linking: at least one enabled library must carry category data. Without
// it the feature stays off regardless of the config flag.
func HasLinkData(libraries []models.Library) bool {
	for i := range libraries {
		if libraries[i].Enabled && libraries[i].HasCategoryData() {
			return true
		}
	}
	return false
}

// ChooseCategory draws one label uniformly at random from the union of all
// non-universal labels across enabled libraries. Returns "" when the union
// is empty, which callers treat as "linking inactive for this draw".
func (lk *Linker) ChooseCategory(libraries []models.Library) string {
	seen := make(map[string]struct{})
	for i := range libraries {
		lib := &libraries[i]
		if !lib.Enabled {
			continue
		}
		for _, cats := range lib.ValuesWithCategory {
			for _, c := range cats {
				if c == models.UniversalCategory {
					continue
				}
				seen[c] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		return ""
	}

	// Sort for a stable draw order under a seeded source.
	union := make([]string, 0, len(seen))
	for c := range seen {
		union = append(union, c)
	}
	sort.Strings(union)

	return union[lk.rng.Intn(len(union))]
}

// FilterByCategory returns the subset of the library's values compatible
// with the drawn category: values whose set is empty, contains the
// universal sentinel, or contains the category itself.
//
// Fallback invariant: when the subset comes out empty the ENTIRE
// unfiltered value list is returned instead. Category linking must never
// force a library to contribute zero values.
func FilterByCategory(lib *models.Library, category string) []string {
	if category == "" {
		return lib.Values
	}

	var filtered []string
	for _, v := range lib.Values {
		if compatible(lib.CategoriesOf(v), category) {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		return lib.Values
	}
	return filtered
}

func compatible(cats []string, category string) bool {
	if len(cats) == 0 {
		return true
	}
	for _, c := range cats {
		if c == models.UniversalCategory || c == category {
			return true
		}
	}
	return false
}
