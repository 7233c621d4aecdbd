package reconcile

import (
	"fmt"
	"time"

	"prompt-mixer/feature/library/models"
)

// ImportMode selects the merge policy for an import.
type ImportMode string

const (
	// ModeReplace overwrites matching presets, appends onto same-key
	// matches, and with no master-sheet context at all discards the
	// existing collection in favor of the import.
	ModeReplace ImportMode = "replace"
	// ModeMergeAdd leaves existing non-empty libraries alone, backfills
	// empty placeholders, and appends the rest as new.
	ModeMergeAdd ImportMode = "merge-add"
	// ModeMergeUpdate concatenates incoming values onto same-key matches
	// and appends the rest as new.
	ModeMergeUpdate ImportMode = "merge-update"
)

// ParseImportMode validates a caller-supplied mode string.
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(s) {
	case ModeReplace, ModeMergeAdd, ModeMergeUpdate:
		return ImportMode(s), nil
	default:
		return "", fmt.Errorf("unsupported import mode: %q", s)
	}
}

// ApplyImport merges incoming libraries into the snapshot under the given
// mode and returns a new snapshot. The input snapshot is never mutated;
// on error it is returned unchanged alongside the error.
func ApplyImport(cfg models.CombinationConfig, incoming []models.Library, mode ImportMode) (models.CombinationConfig, error) {
	out := cfg.Clone()
	now := time.Now()

	switch mode {
	case ModeReplace:
		applyReplace(&out, incoming, now)
	case ModeMergeAdd:
		applyMergeAdd(&out, incoming, now)
	case ModeMergeUpdate:
		applyMergeUpdate(&out, incoming, now)
	default:
		return cfg, fmt.Errorf("unsupported import mode: %q", mode)
	}

	out.Normalize()
	return out, nil
}

// applyReplace implements the three-tier replace resolution. Without any
// preset or master-sheet context the existing collection is discarded
// wholesale and only the import survives.
func applyReplace(out *models.CombinationConfig, incoming []models.Library, now time.Time) {
	if !hasReplaceContext(out, incoming) {
		out.Libraries = nil
		for _, in := range incoming {
			out.Libraries = append(out.Libraries, newIncoming(in, now))
		}
		return
	}

	for _, in := range incoming {
		// Tier 1: a preset (same name, no sourceSheet) is claimed by the
		// import: values, sheet, and group are overwritten in place.
		if idx := findPreset(out, in.Name); idx >= 0 {
			lib := &out.Libraries[idx]
			lib.Values = append([]string(nil), in.Values...)
			lib.ValuesWithCategory = cloneCategories(in.ValuesWithCategory)
			lib.SourceSheet = in.SourceSheet
			lib.Group = in.Group
			lib.UpdatedAt = now
			continue
		}

		// Tier 2: a same-key library accumulates the incoming values.
		if idx := out.FindByKey(in.Key()); idx >= 0 {
			lib := &out.Libraries[idx]
			lib.Values = append(lib.Values, in.Values...)
			mergeCategories(lib, in.ValuesWithCategory)
			lib.UpdatedAt = now
			continue
		}

		// Tier 3: brand new.
		out.Libraries = append(out.Libraries, newIncoming(in, now))
	}
}

func applyMergeAdd(out *models.CombinationConfig, incoming []models.Library, now time.Time) {
	for _, in := range incoming {
		idx := out.FindByKey(in.Key())
		if idx < 0 {
			out.Libraries = append(out.Libraries, newIncoming(in, now))
			continue
		}

		lib := &out.Libraries[idx]
		if len(lib.Values) > 0 {
			// Existing data wins; the incoming library is skipped.
			continue
		}

		// Placeholder completion: backfill values only.
		lib.Values = append([]string(nil), in.Values...)
		lib.ValuesWithCategory = cloneCategories(in.ValuesWithCategory)
		lib.UpdatedAt = now
	}
}

func applyMergeUpdate(out *models.CombinationConfig, incoming []models.Library, now time.Time) {
	for _, in := range incoming {
		idx := out.FindByKey(in.Key())
		if idx < 0 {
			out.Libraries = append(out.Libraries, newIncoming(in, now))
			continue
		}

		// Concatenate without deduplication; the collection owner prunes
		// duplicates by hand if they care.
		lib := &out.Libraries[idx]
		lib.Values = append(lib.Values, in.Values...)
		mergeCategories(lib, in.ValuesWithCategory)
		lib.Group = in.Group
		lib.SourceSheet = in.SourceSheet
		lib.UpdatedAt = now
	}
}

// ApplySync refreshes the snapshot from remotely fetched master sheets and
// returns a new snapshot. For every key match ONLY values and
// valuesWithCategory are overwritten; enabled, participationRate,
// pickMode, pickCount, valueWeights, and color are preserved untouched.
// Unmatched local libraries stay as-is; unmatched refreshed libraries are
// appended as new. Linked instructions merge key-wise. Applying the same
// refreshed dataset twice is identical to applying it once.
func ApplySync(cfg models.CombinationConfig, sheets []models.MasterSheet) models.CombinationConfig {
	out := cfg.Clone()
	now := time.Now()

	for _, sheet := range sheets {
		for _, refreshed := range FlattenSheet(sheet) {
			idx := out.FindByKey(refreshed.Key())
			if idx < 0 {
				out.Libraries = append(out.Libraries, newIncoming(refreshed, now))
				continue
			}

			lib := &out.Libraries[idx]
			lib.Values = append([]string(nil), refreshed.Values...)
			lib.ValuesWithCategory = cloneCategories(refreshed.ValuesWithCategory)
		}

		if sheet.LinkedInstruction != "" {
			if out.LinkedInstructions == nil {
				out.LinkedInstructions = make(map[string]string)
			}
			out.LinkedInstructions[sheet.SheetName] = sheet.LinkedInstruction
		}
	}

	out.Normalize()
	return out
}

// FlattenSheet stamps a sheet's libraries with their origin so the
// composite (sourceSheet, name) key is complete before matching.
func FlattenSheet(sheet models.MasterSheet) []models.Library {
	out := make([]models.Library, 0, len(sheet.Libraries))
	for _, lib := range sheet.Libraries {
		flat := lib.Clone()
		flat.SourceSheet = sheet.SheetName
		if flat.Group == "" {
			flat.Group = sheet.GroupName
		}
		flat.Normalize()
		out = append(out, flat)
	}
	return out
}

// hasReplaceContext reports whether a replace import should resolve
// against the existing collection instead of discarding it: true when the
// import carries master-sheet provenance or when any incoming name matches
// an existing preset.
func hasReplaceContext(cfg *models.CombinationConfig, incoming []models.Library) bool {
	for _, in := range incoming {
		if in.SourceSheet != "" {
			return true
		}
		if findPreset(cfg, in.Name) >= 0 {
			return true
		}
	}
	return false
}

func findPreset(cfg *models.CombinationConfig, name string) int {
	for i := range cfg.Libraries {
		if cfg.Libraries[i].SourceSheet == "" && cfg.Libraries[i].Name == name {
			return i
		}
	}
	return -1
}

func newIncoming(in models.Library, now time.Time) models.Library {
	lib := in.Clone()
	lib.ID = "" // force a fresh local id
	lib.Enabled = true
	if lib.ParticipationRate == 0 {
		lib.ParticipationRate = models.DefaultParticipationRate
	}
	lib.UpdatedAt = now
	lib.Normalize()
	return lib
}

func cloneCategories(in map[string][]string) map[string][]string {
	if in == nil {
		return nil
	}
	out := make(map[string][]string, len(in))
	for v, cats := range in {
		out[v] = append([]string(nil), cats...)
	}
	return out
}

func mergeCategories(lib *models.Library, in map[string][]string) {
	if len(in) == 0 {
		return
	}
	if lib.ValuesWithCategory == nil {
		lib.ValuesWithCategory = make(map[string][]string, len(in))
	}
	for v, cats := range in {
		lib.ValuesWithCategory[v] = append([]string(nil), cats...)
	}
}
