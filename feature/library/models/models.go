package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Combination modes supported by the engine.
const (
	CombinationModeRandom    = "random"
	CombinationModeCartesian = "cartesian"
)

// Pick modes controlling how many values a library contributes in
// cartesian mode.
const (
	PickModeRandomOne      = "random-one"
	PickModeRandomMultiple = "random-multiple"
)

// UniversalCategory is the sentinel label marking a value as compatible
// with every category draw.
const UniversalCategory = "universal"

// Defaults applied by Normalize.
const (
	DefaultParticipationRate = 100
	DefaultWeight            = 1
)

// Library is a named, ordered, weighted, optionally category-tagged
// collection of text values representing one creative dimension
// (e.g. "Scene").
type Library struct {
	// ID is a locally generated identifier. It is NOT stable across
	// imports; reconciliation identity is the (SourceSheet, Name) key.
	ID string `json:"id"`

	// Name is the display name of the dimension.
	Name string `json:"name"`

	// Color is the UI color tag carried through into generated output.
	Color string `json:"color,omitempty"`

	// Enabled controls whether the library may participate in generation.
	Enabled bool `json:"enabled"`

	// Values is the ordered candidate pool. Duplicate text is permitted,
	// but weight and category lookups are keyed by value string, so
	// duplicates collapse to one entry for those purposes. This is a known
	// limitation inherited from the data model.
	Values []string `json:"values"`

	// ValuesWithCategory maps a value to its normalized category labels.
	// Empty set, missing entry, or the "universal" sentinel all mean the
	// value is compatible with every category draw. Parsed once at
	// ingestion from comma-joined text; never re-parsed downstream.
	ValuesWithCategory map[string][]string `json:"valuesWithCategory,omitempty"`

	// ValueWeights maps a value to its sampling weight. Missing entry
	// means weight 1; weight <= 0 excludes the value from sampling.
	ValueWeights map[string]int `json:"valueWeights,omitempty"`

	// ParticipationRate is the percent chance [0,100] that this library
	// contributes to a random-mode combination. 100 always includes,
	// 0 never includes.
	ParticipationRate int `json:"participationRate"`

	// PickMode selects between one value (random-one) and PickCount
	// values (random-multiple) in cartesian mode.
	PickMode string `json:"pickMode"`

	// PickCount is how many distinct values to draw in random-multiple
	// mode. Meaningless (treated as 1) under random-one.
	PickCount int `json:"pickCount"`

	// SourceSheet labels the remote collection this library came from.
	// Empty for locally created "preset" libraries.
	SourceSheet string `json:"sourceSheet,omitempty"`

	// Group is an optional organizational label.
	Group string `json:"group,omitempty"`

	// UpdatedAt is the last mutation timestamp.
	UpdatedAt time.Time `json:"updatedAt"`
}

// LibraryKey is the reconciliation identity of a library. Two libraries
// sharing this key are the same library by definition, even if their local
// ids differ.
type LibraryKey struct {
	SourceSheet string
	Name        string
}

// NewLibrary creates an enabled library with documented defaults.
func NewLibrary(name string) Library {
	return Library{
		ID:                uuid.NewString(),
		Name:              name,
		Enabled:           true,
		ParticipationRate: DefaultParticipationRate,
		PickMode:          PickModeRandomOne,
		PickCount:         1,
		UpdatedAt:         time.Now(),
	}
}

// Key returns the composite reconciliation key.
func (l *Library) Key() LibraryKey {
	return LibraryKey{SourceSheet: l.SourceSheet, Name: l.Name}
}

// Normalize clamps and defaults the user-tunable fields in place.
func (l *Library) Normalize() {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.ParticipationRate < 0 {
		l.ParticipationRate = 0
	}
	if l.ParticipationRate > 100 {
		l.ParticipationRate = 100
	}
	if l.PickMode != PickModeRandomMultiple {
		l.PickMode = PickModeRandomOne
	}
	if l.PickCount < 1 {
		l.PickCount = 1
	}
}

// WeightOf returns the sampling weight for a value, defaulting to 1 when
// no explicit weight is set. A non-positive return excludes the value.
func (l *Library) WeightOf(value string) int {
	if l.ValueWeights == nil {
		return DefaultWeight
	}
	w, ok := l.ValueWeights[value]
	if !ok {
		return DefaultWeight
	}
	return w
}

// CategoriesOf returns the normalized category set for a value. A nil or
// empty return means "compatible with everything".
func (l *Library) CategoriesOf(value string) []string {
	if l.ValuesWithCategory == nil {
		return nil
	}
	return l.ValuesWithCategory[value]
}

// HasCategoryData reports whether this library carries any category
// tagging at all.
func (l *Library) HasCategoryData() bool {
	for _, cats := range l.ValuesWithCategory {
		if len(cats) > 0 {
			return true
		}
	}
	return false
}

// EffectivePickCount returns how many values this library contributes to
// a cartesian draw.
func (l *Library) EffectivePickCount() int {
	if l.PickMode == PickModeRandomMultiple && l.PickCount > 1 {
		return l.PickCount
	}
	return 1
}

// Clone returns a deep copy, so snapshot mutations never alias the maps
// or slices of the original.
func (l *Library) Clone() Library {
	out := *l
	if l.Values != nil {
		out.Values = append([]string(nil), l.Values...)
	}
	if l.ValuesWithCategory != nil {
		out.ValuesWithCategory = make(map[string][]string, len(l.ValuesWithCategory))
		for v, cats := range l.ValuesWithCategory {
			out.ValuesWithCategory[v] = append([]string(nil), cats...)
		}
	}
	if l.ValueWeights != nil {
		out.ValueWeights = make(map[string]int, len(l.ValueWeights))
		for v, w := range l.ValueWeights {
			out.ValueWeights[v] = w
		}
	}
	return out
}

// ParseCategories turns free comma-joined category text into a normalized
// label set: trimmed, lowercased, deduplicated, order-preserving. The
// universal sentinel and empty input both normalize to nil.
func ParseCategories(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		label := strings.ToLower(strings.TrimSpace(part))
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	// A set that is only the sentinel is the same as no set at all.
	if len(out) == 1 && out[0] == UniversalCategory {
		return nil
	}
	return out
}

// CombinationConfig is the immutable collection snapshot the whole
// application operates on. Mutating operations clone it, change the clone,
// and swap the replacement in atomically.
type CombinationConfig struct {
	// Enabled toggles the combination feature as a whole.
	Enabled bool `json:"enabled"`

	// CombinationMode selects random or cartesian generation.
	CombinationMode string `json:"combinationMode"`

	// Libraries is the ordered collection of dimensions.
	Libraries []Library `json:"libraries"`

	// CategoryLinkEnabled requests category-compatible generation. The
	// feature still requires at least one library with category data.
	CategoryLinkEnabled bool `json:"categoryLinkEnabled"`

	// ActiveSourceSheet is the remote collection currently in use.
	ActiveSourceSheet string `json:"activeSourceSheet,omitempty"`

	// LinkedInstructions maps a source sheet to its free-text instruction.
	LinkedInstructions map[string]string `json:"linkedInstructions,omitempty"`

	// SourceSpreadsheetUrl remembers where the collection syncs from.
	SourceSpreadsheetUrl string `json:"sourceSpreadsheetUrl,omitempty"`
}

// Normalize applies defaults and clamps across the whole snapshot.
func (c *CombinationConfig) Normalize() {
	if c.CombinationMode != CombinationModeCartesian {
		c.CombinationMode = CombinationModeRandom
	}
	for i := range c.Libraries {
		c.Libraries[i].Normalize()
	}
}

// Clone returns a deep copy of the snapshot.
func (c *CombinationConfig) Clone() CombinationConfig {
	out := *c
	if c.Libraries != nil {
		out.Libraries = make([]Library, len(c.Libraries))
		for i := range c.Libraries {
			out.Libraries[i] = c.Libraries[i].Clone()
		}
	}
	if c.LinkedInstructions != nil {
		out.LinkedInstructions = make(map[string]string, len(c.LinkedInstructions))
		for k, v := range c.LinkedInstructions {
			out.LinkedInstructions[k] = v
		}
	}
	return out
}

// FindByKey returns the index of the library with the given key, or -1.
func (c *CombinationConfig) FindByKey(key LibraryKey) int {
	for i := range c.Libraries {
		if c.Libraries[i].Key() == key {
			return i
		}
	}
	return -1
}

// CombinationItem is one (library, value, color) contribution to a
// generated combination.
type CombinationItem struct {
	LibraryName string `json:"libraryName"`
	Value       string `json:"value"`
	Color       string `json:"color,omitempty"`
}

// Combination is one assembled prompt variant, ordered by library order.
type Combination []CombinationItem

// Render joins the combination with the default "name：value" template.
func (c Combination) Render() string {
	parts := make([]string, 0, len(c))
	for _, item := range c {
		parts = append(parts, item.LibraryName+"："+item.Value)
	}
	return strings.Join(parts, ", ")
}

// MasterSheet is an externally produced bundle of libraries plus an
// optional linked instruction, as fetched from the remote source.
type MasterSheet struct {
	SheetName         string    `json:"sheetName"`
	GroupName         string    `json:"groupName,omitempty"`
	Libraries         []Library `json:"libraries"`
	LinkedInstruction string    `json:"linkedInstruction,omitempty"`
}
