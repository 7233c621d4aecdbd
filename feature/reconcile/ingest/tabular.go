// Package ingest parses pasted or fetched tabular blocks into libraries.
//
// The format is header-first: each header cell names one library, each
// following row carries one value per library. Ragged rows are padded or
// truncated to header length, never rejected. A column named
// "<library>_category" tags the neighboring value column with
// comma-separated category labels, and "<library>_weight" carries an
// optional integer sampling weight.
package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"prompt-mixer/core/utils"
	"prompt-mixer/feature/library/models"
)

// Column suffixes recognized in the header row.
const (
	CategorySuffix = "_category"
	WeightSuffix   = "_weight"
)

// ParseTSV parses a tab-separated block, the shape a spreadsheet paste
// produces. It never fails: malformed rows are padded or truncated.
func ParseTSV(text string) []models.Library {
	var rows [][]string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}
	return parseRows(rows)
}

// ParseCSV parses a comma-separated object, the shape sheet exports in the
// storage bucket use. Only reader failures surface as errors; ragged rows
// are tolerated just like in TSV input.
func ParseCSV(r io.Reader) ([]models.Library, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are handled by parseRows
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return parseRows(rows), nil
}

type column struct {
	library  int // index into the result slice, -1 for aux columns
	category int // owning library index for a category column, else -1
	weight   int // owning library index for a weight column, else -1
}

func parseRows(rows [][]string) []models.Library {
	if len(rows) == 0 {
		return nil
	}

	header := rows[0]
	libs := make([]models.Library, 0, len(header))
	columns := make([]column, len(header))
	byName := make(map[string]int)

	// First pass: plain value columns.
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		columns[i] = column{library: -1, category: -1, weight: -1}
		if name == "" || strings.HasSuffix(name, CategorySuffix) || strings.HasSuffix(name, WeightSuffix) {
			continue
		}
		libs = append(libs, models.NewLibrary(name))
		byName[name] = len(libs) - 1
		columns[i].library = len(libs) - 1
	}

	// Second pass: bind aux columns to their owning library.
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if owner, ok := byName[strings.TrimSuffix(name, CategorySuffix)]; ok && strings.HasSuffix(name, CategorySuffix) {
			columns[i].category = owner
		}
		if owner, ok := byName[strings.TrimSuffix(name, WeightSuffix)]; ok && strings.HasSuffix(name, WeightSuffix) {
			columns[i].weight = owner
		}
	}

	for _, row := range rows[1:] {
		// Pad or truncate to header length; malformed rows are recovered,
		// never rejected.
		cells := make([]string, len(header))
		copy(cells, row)

		// Values first so aux cells on the same row can reference them.
		rowValues := make(map[int]string)
		for i, cell := range cells {
			if columns[i].library < 0 {
				continue
			}
			value := strings.TrimSpace(cell)
			if value == "" {
				continue
			}
			lib := &libs[columns[i].library]
			lib.Values = append(lib.Values, value)
			rowValues[columns[i].library] = value
		}

		for i, cell := range cells {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if owner := columns[i].category; owner >= 0 {
				value, ok := rowValues[owner]
				if !ok {
					continue
				}
				if cats := models.ParseCategories(cell); cats != nil {
					lib := &libs[owner]
					if lib.ValuesWithCategory == nil {
						lib.ValuesWithCategory = make(map[string][]string)
					}
					lib.ValuesWithCategory[value] = cats
				}
			}
			if owner := columns[i].weight; owner >= 0 {
				value, ok := rowValues[owner]
				if !ok {
					continue
				}
				w := utils.ToInt(cell)
				if w == 0 && cell != "0" {
					// Malformed weight cell: keep the default of 1.
					continue
				}
				lib := &libs[owner]
				if lib.ValueWeights == nil {
					lib.ValueWeights = make(map[string]int)
				}
				lib.ValueWeights[value] = w
			}
		}
	}

	return libs
}
