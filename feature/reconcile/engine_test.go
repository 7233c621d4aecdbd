package reconcile

import (
	"testing"

	"prompt-mixer/feature/library/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func existing(name, sheet string, values ...string) models.Library {
	lib := models.NewLibrary(name)
	lib.SourceSheet = sheet
	lib.Values = values
	return lib
}

func incoming(name, sheet string, values ...string) models.Library {
	return models.Library{Name: name, SourceSheet: sheet, Values: values}
}

func TestParseImportMode(t *testing.T) {
	for _, valid := range []string{"replace", "merge-add", "merge-update"} {
		mode, err := ParseImportMode(valid)
		assert.NoError(t, err)
		assert.Equal(t, ImportMode(valid), mode)
	}

	_, err := ParseImportMode("overwrite")
	assert.Error(t, err)
}

func TestMergeUpdate_ConcatenatesValues(t *testing.T) {
	cfg := models.CombinationConfig{
		Libraries: []models.Library{existing("Scene", "sheet-a", "a", "b")},
	}

	out, err := ApplyImport(cfg, []models.Library{incoming("Scene", "sheet-a", "c", "d")}, ModeMergeUpdate)
	require.NoError(t, err)

	require.Len(t, out.Libraries, 1)
	assert.Equal(t, []string{"a", "b", "c", "d"}, out.Libraries[0].Values)
	// The original snapshot is untouched.
	assert.Equal(t, []string{"a", "b"}, cfg.Libraries[0].Values)
}

func TestMergeUpdate_AppendsUnmatched(t *testing.T) {
	cfg := models.CombinationConfig{
		Libraries: []models.Library{existing("Scene", "sheet-a", "a")},
	}

	out, err := ApplyImport(cfg, []models.Library{incoming("Style", "sheet-a", "oil")}, ModeMergeUpdate)
	require.NoError(t, err)

	require.Len(t, out.Libraries, 2)
	assert.Equal(t, "Style", out.Libraries[1].Name)
	assert.True(t, out.Libraries[1].Enabled)
	assert.Equal(t, models.DefaultParticipationRate, out.Libraries[1].ParticipationRate)
	assert.NotEmpty(t, out.Libraries[1].ID)
}

func TestMergeAdd_SkipsNonEmptyMatch(t *testing.T) {
	cfg := models.CombinationConfig{
		Libraries: []models.Library{existing("Scene", "sheet-a", "a", "b")},
	}

	out, err := ApplyImport(cfg, []models.Library{incoming("Scene", "sheet-a", "c", "d")}, ModeMergeAdd)
	require.NoError(t, err)

	require.Len(t, out.Libraries, 1)
	assert.Equal(t, []string{"a", "b"}, out.Libraries[0].Values)
}

func TestMergeAdd_BackfillsPlaceholder(t *testing.T) {
	placeholder := existing("Scene", "sheet-a")
	placeholder.ParticipationRate = 30 // user customization on an empty shell
	cfg := models.CombinationConfig{Libraries: []models.Library{placeholder}}

	out, err := ApplyImport(cfg, []models.Library{incoming("Scene", "sheet-a", "c", "d")}, ModeMergeAdd)
	require.NoError(t, err)

	require.Len(t, out.Libraries, 1)
	assert.Equal(t, []string{"c", "d"}, out.Libraries[0].Values)
	assert.Equal(t, 30, out.Libraries[0].ParticipationRate)
}

func TestReplace_BareDiscardsCollection(t *testing.T) {
	cfg := models.CombinationConfig{
		Libraries: []models.Library{existing("Old", "sheet-a", "x")},
	}

	// No sourceSheet on the import and no matching preset: bare replace.
	out, err := ApplyImport(cfg, []models.Library{incoming("Fresh", "", "1", "2")}, ModeReplace)
	require.NoError(t, err)

	require.Len(t, out.Libraries, 1)
	assert.Equal(t, "Fresh", out.Libraries[0].Name)
}

func TestReplace_ClaimsPreset(t *testing.T) {
	preset := models.NewLibrary("Scene") // no sourceSheet: a preset
	preset.Values = []string{"stale"}
	preset.Color = "#aabbcc"
	cfg := models.CombinationConfig{Libraries: []models.Library{preset}}

	in := incoming("Scene", "sheet-a", "room", "beach")
	in.Group = "environments"

	out, err := ApplyImport(cfg, []models.Library{in}, ModeReplace)
	require.NoError(t, err)

	require.Len(t, out.Libraries, 1)
	lib := out.Libraries[0]
	assert.Equal(t, []string{"room", "beach"}, lib.Values)
	assert.Equal(t, "sheet-a", lib.SourceSheet)
	assert.Equal(t, "environments", lib.Group)
	assert.Equal(t, "#aabbcc", lib.Color, "preset keeps its local customization")
	assert.Equal(t, preset.ID, lib.ID, "preset is overwritten in place, not replaced")
}

func TestReplace_AppendsOntoSameKey(t *testing.T) {
	cfg := models.CombinationConfig{
		Libraries: []models.Library{existing("Scene", "sheet-a", "a")},
	}

	out, err := ApplyImport(cfg, []models.Library{incoming("Scene", "sheet-a", "b")}, ModeReplace)
	require.NoError(t, err)

	require.Len(t, out.Libraries, 1)
	assert.Equal(t, []string{"a", "b"}, out.Libraries[0].Values)
}

func TestReplace_AppendsNew(t *testing.T) {
	cfg := models.CombinationConfig{
		Libraries: []models.Library{existing("Scene", "sheet-a", "a")},
	}

	out, err := ApplyImport(cfg, []models.Library{incoming("Style", "sheet-a", "oil")}, ModeReplace)
	require.NoError(t, err)

	require.Len(t, out.Libraries, 2)
	assert.Equal(t, "Style", out.Libraries[1].Name)
}

func TestApplySync_PreservesUserFields(t *testing.T) {
	local := existing("Scene", "sheet-a", "old")
	local.ParticipationRate = 30
	local.PickMode = models.PickModeRandomMultiple
	local.PickCount = 3
	local.Color = "#112233"
	local.Enabled = false
	local.ValueWeights = map[string]int{"old": 7}
	cfg := models.CombinationConfig{Libraries: []models.Library{local}}

	sheets := []models.MasterSheet{{
		SheetName: "sheet-a",
		Libraries: []models.Library{{Name: "Scene", Values: []string{"room", "beach"}}},
	}}

	out := ApplySync(cfg, sheets)

	require.Len(t, out.Libraries, 1)
	lib := out.Libraries[0]
	assert.Equal(t, []string{"room", "beach"}, lib.Values)
	assert.Equal(t, 30, lib.ParticipationRate)
	assert.Equal(t, models.PickModeRandomMultiple, lib.PickMode)
	assert.Equal(t, 3, lib.PickCount)
	assert.Equal(t, "#112233", lib.Color)
	assert.False(t, lib.Enabled)
	assert.Equal(t, map[string]int{"old": 7}, lib.ValueWeights)
}

func TestApplySync_UnmatchedLocalUntouched(t *testing.T) {
	localOnly := existing("Mood", "sheet-b", "calm")
	cfg := models.CombinationConfig{Libraries: []models.Library{localOnly}}

	sheets := []models.MasterSheet{{
		SheetName: "sheet-a",
		Libraries: []models.Library{{Name: "Scene", Values: []string{"room"}}},
	}}

	out := ApplySync(cfg, sheets)

	require.Len(t, out.Libraries, 2)
	assert.Equal(t, localOnly.Values, out.Libraries[0].Values)
	assert.Equal(t, "Scene", out.Libraries[1].Name)
	assert.Equal(t, "sheet-a", out.Libraries[1].SourceSheet)
}

func TestApplySync_Idempotent(t *testing.T) {
	cfg := models.CombinationConfig{
		Libraries: []models.Library{existing("Scene", "sheet-a", "old")},
	}

	sheets := []models.MasterSheet{{
		SheetName:         "sheet-a",
		GroupName:         "environments",
		LinkedInstruction: "draw it soft",
		Libraries: []models.Library{
			{Name: "Scene", Values: []string{"room", "beach"}},
			{Name: "Style", Values: []string{"oil"}},
		},
	}}

	once := ApplySync(cfg, sheets)
	twice := ApplySync(once, sheets)

	assert.Equal(t, once, twice)
}

func TestApplySync_MergesInstructionsKeyWise(t *testing.T) {
	cfg := models.CombinationConfig{
		LinkedInstructions: map[string]string{
			"sheet-a": "old words",
			"sheet-b": "untouched words",
		},
	}

	sheets := []models.MasterSheet{{
		SheetName:         "sheet-a",
		LinkedInstruction: "new words",
	}}

	out := ApplySync(cfg, sheets)

	assert.Equal(t, "new words", out.LinkedInstructions["sheet-a"])
	assert.Equal(t, "untouched words", out.LinkedInstructions["sheet-b"])
}

func TestFlattenSheet_StampsOrigin(t *testing.T) {
	sheet := models.MasterSheet{
		SheetName: "sheet-a",
		GroupName: "environments",
		Libraries: []models.Library{
			{Name: "Scene", Values: []string{"room"}},
			{Name: "Style", Values: []string{"oil"}, Group: "already-set"},
		},
	}

	flat := FlattenSheet(sheet)
	require.Len(t, flat, 2)
	assert.Equal(t, "sheet-a", flat[0].SourceSheet)
	assert.Equal(t, "environments", flat[0].Group)
	assert.Equal(t, "already-set", flat[1].Group)
}
