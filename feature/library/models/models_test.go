package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Clamps(t *testing.T) {
	lib := Library{Name: "Scene", ParticipationRate: 250, PickMode: "something-else", PickCount: 0}
	lib.Normalize()

	assert.Equal(t, 100, lib.ParticipationRate)
	assert.Equal(t, PickModeRandomOne, lib.PickMode)
	assert.Equal(t, 1, lib.PickCount)
	assert.NotEmpty(t, lib.ID)

	lib.ParticipationRate = -5
	lib.Normalize()
	assert.Equal(t, 0, lib.ParticipationRate)
}

func TestWeightOf_Defaults(t *testing.T) {
	lib := NewLibrary("Style")
	lib.Values = []string{"oil", "ink"}

	assert.Equal(t, 1, lib.WeightOf("oil"), "absent weight behaves as 1")

	lib.ValueWeights = map[string]int{"oil": 5, "ink": 0}
	assert.Equal(t, 5, lib.WeightOf("oil"))
	assert.Equal(t, 0, lib.WeightOf("ink"), "explicit zero stays zero so sampling can exclude it")
}

func TestParseCategories(t *testing.T) {
	assert.Nil(t, ParseCategories(""))
	assert.Nil(t, ParseCategories("  "))
	assert.Nil(t, ParseCategories("universal"), "sentinel-only set means no restriction")
	assert.Equal(t, []string{"indoor", "outdoor"}, ParseCategories(" Indoor , outdoor "))
	assert.Equal(t, []string{"indoor"}, ParseCategories("indoor,indoor,"))
	// The sentinel mixed with real labels is preserved; the filter treats
	// its presence as universal compatibility.
	assert.Contains(t, ParseCategories("universal,indoor"), UniversalCategory)
}

func TestEffectivePickCount(t *testing.T) {
	lib := NewLibrary("Vehicle")
	assert.Equal(t, 1, lib.EffectivePickCount())

	lib.PickMode = PickModeRandomMultiple
	lib.PickCount = 5
	assert.Equal(t, 5, lib.EffectivePickCount())

	lib.PickCount = 1
	assert.Equal(t, 1, lib.EffectivePickCount())
}

func TestClone_IsDeep(t *testing.T) {
	lib := NewLibrary("Scene")
	lib.Values = []string{"room"}
	lib.ValueWeights = map[string]int{"room": 2}
	lib.ValuesWithCategory = map[string][]string{"room": {"indoor"}}

	cfg := CombinationConfig{
		Libraries:          []Library{lib},
		LinkedInstructions: map[string]string{"sheet-a": "keep it moody"},
	}

	clone := cfg.Clone()
	clone.Libraries[0].Values[0] = "beach"
	clone.Libraries[0].ValueWeights["room"] = 9
	clone.Libraries[0].ValuesWithCategory["room"][0] = "outdoor"
	clone.LinkedInstructions["sheet-a"] = "changed"

	assert.Equal(t, "room", cfg.Libraries[0].Values[0])
	assert.Equal(t, 2, cfg.Libraries[0].ValueWeights["room"])
	assert.Equal(t, []string{"indoor"}, cfg.Libraries[0].ValuesWithCategory["room"])
	assert.Equal(t, "keep it moody", cfg.LinkedInstructions["sheet-a"])
}

func TestFindByKey_CompositeIdentity(t *testing.T) {
	a := NewLibrary("Scene")
	a.SourceSheet = "sheet-a"
	b := NewLibrary("Scene") // same name, no sheet: a preset, different key
	cfg := CombinationConfig{Libraries: []Library{a, b}}

	assert.Equal(t, 0, cfg.FindByKey(LibraryKey{SourceSheet: "sheet-a", Name: "Scene"}))
	assert.Equal(t, 1, cfg.FindByKey(LibraryKey{Name: "Scene"}))
	assert.Equal(t, -1, cfg.FindByKey(LibraryKey{SourceSheet: "sheet-b", Name: "Scene"}))
}

func TestRender(t *testing.T) {
	c := Combination{
		{LibraryName: "Scene", Value: "Beach"},
		{LibraryName: "Vehicle", Value: "Boat"},
	}
	assert.Equal(t, "Scene：Beach, Vehicle：Boat", c.Render())
	assert.Equal(t, "", Combination{}.Render())
}
