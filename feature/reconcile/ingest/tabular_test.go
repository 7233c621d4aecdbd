package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTSV_Basic(t *testing.T) {
	text := "Scene\tStyle\n" +
		"room\toil\n" +
		"beach\tink\n"

	libs := ParseTSV(text)
	require.Len(t, libs, 2)

	assert.Equal(t, "Scene", libs[0].Name)
	assert.Equal(t, []string{"room", "beach"}, libs[0].Values)
	assert.Equal(t, []string{"oil", "ink"}, libs[1].Values)

	// Ingested libraries carry the documented defaults.
	assert.True(t, libs[0].Enabled)
	assert.Equal(t, 100, libs[0].ParticipationRate)
	assert.NotEmpty(t, libs[0].ID)
}

func TestParseTSV_RaggedRows(t *testing.T) {
	text := "Scene\tStyle\n" +
		"room\n" + // short row: padded, Style gets nothing
		"beach\tink\textra\n" // long row: truncated

	libs := ParseTSV(text)
	require.Len(t, libs, 2)
	assert.Equal(t, []string{"room", "beach"}, libs[0].Values)
	assert.Equal(t, []string{"ink"}, libs[1].Values)
}

func TestParseTSV_CategoryColumns(t *testing.T) {
	text := "Scene\tScene_category\tVehicle\tVehicle_category\n" +
		"Room\tindoor\tBike\tindoor,outdoor\n" +
		"Beach\twaterside\tBoat\twaterside\n" +
		"Anywhere\tuniversal\tFeet\t\n"

	libs := ParseTSV(text)
	require.Len(t, libs, 2, "category columns must not become libraries")

	scene, vehicle := libs[0], libs[1]
	assert.Equal(t, []string{"Room", "Beach", "Anywhere"}, scene.Values)
	assert.Equal(t, []string{"indoor"}, scene.ValuesWithCategory["Room"])
	assert.Equal(t, []string{"waterside"}, scene.ValuesWithCategory["Beach"])
	// Universal sentinel and empty cell both mean unrestricted.
	assert.Empty(t, scene.ValuesWithCategory["Anywhere"])
	assert.Empty(t, vehicle.ValuesWithCategory["Feet"])
	assert.Equal(t, []string{"indoor", "outdoor"}, vehicle.ValuesWithCategory["Bike"])
}

func TestParseTSV_WeightColumns(t *testing.T) {
	text := "Scene\tScene_weight\n" +
		"room\t5\n" +
		"beach\t0\n" +
		"cliff\theavy\n" + // malformed: default weight
		"cave\n"

	libs := ParseTSV(text)
	require.Len(t, libs, 1)

	lib := libs[0]
	assert.Equal(t, []string{"room", "beach", "cliff", "cave"}, lib.Values)
	assert.Equal(t, 5, lib.WeightOf("room"))
	assert.Equal(t, 0, lib.WeightOf("beach"), "explicit zero excludes the value")
	assert.Equal(t, 1, lib.WeightOf("cliff"))
	assert.Equal(t, 1, lib.WeightOf("cave"))
}

func TestParseTSV_Degenerate(t *testing.T) {
	assert.Nil(t, ParseTSV(""))
	assert.Nil(t, ParseTSV("\n\n"))

	// Header only: libraries exist, values empty.
	libs := ParseTSV("Scene\tStyle")
	require.Len(t, libs, 2)
	assert.Empty(t, libs[0].Values)
}

func TestParseCSV(t *testing.T) {
	csv := "Scene,Scene_category\n" +
		"Room,indoor\n" +
		"Beach,waterside\n"

	libs, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, libs, 1)
	assert.Equal(t, []string{"Room", "Beach"}, libs[0].Values)
	assert.Equal(t, []string{"waterside"}, libs[0].ValuesWithCategory["Beach"])
}

func TestParseCSV_RaggedRows(t *testing.T) {
	csv := "Scene,Style\n" +
		"room\n" +
		"beach,ink,extra\n"

	libs, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, libs, 2)
	assert.Equal(t, []string{"room", "beach"}, libs[0].Values)
	assert.Equal(t, []string{"ink"}, libs[1].Values)
}
