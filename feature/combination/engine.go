package combination

import (
	"math/rand"

	"prompt-mixer/feature/combination/category"
	"prompt-mixer/feature/combination/sampler"
	"prompt-mixer/feature/library/models"
)

// Engine generates combinations from an immutable config snapshot. It is
// pure and side-effect-free apart from consuming the injected random
// source. The injected *rand.Rand is not goroutine-safe, so an Engine must
// not be shared across concurrent generation calls; callers build one per
// call (or per seeded test) instead.
type Engine struct {
	rng     *rand.Rand
	sampler *sampler.Sampler
	linker  *category.Linker
}

// NewEngine creates an engine over the given random source.
func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{
		rng:     rng,
		sampler: sampler.New(rng),
		linker:  category.New(rng),
	}
}

// LibraryDraw is one library's contribution to a cartesian draw.
type LibraryDraw struct {
	LibraryName string   `json:"libraryName"`
	Color       string   `json:"color,omitempty"`
	Values      []string `json:"values"`
}

// CartesianResult carries a single representative combination for preview
// plus the per-library draw sets. Full enumeration of every tuple is the
// dispatch boundary's job, via ExpandProduct.
type CartesianResult struct {
	// Representative is one combination assembled from the first value of
	// each draw set.
	Representative models.Combination `json:"representative"`

	// Draws holds the per-library value sets, in library order.
	Draws []LibraryDraw `json:"draws"`

	// TotalCount is the size of the full cross product.
	TotalCount int `json:"totalCount"`
}

// Generate produces exactly count independent random-mode combinations.
// Each combination re-evaluates participation, the shared category draw,
// and sampling, so draws are statistically independent. Zero participating
// libraries yields an empty combination, never an error.
func (e *Engine) Generate(cfg *models.CombinationConfig, count int) []models.Combination {
	if count < 0 {
		count = 0
	}
	out := make([]models.Combination, 0, count)
	linkActive := cfg.CategoryLinkEnabled && category.HasLinkData(cfg.Libraries)

	for i := 0; i < count; i++ {
		participants := e.pickParticipants(cfg.Libraries)

		drawn := ""
		if linkActive {
			drawn = e.linker.ChooseCategory(cfg.Libraries)
		}

		combo := models.Combination{}
		for _, lib := range participants {
			pool := e.buildPool(lib, drawn)
			value := e.sampler.SampleOne(pool)
			if value == "" {
				continue
			}
			combo = append(combo, models.CombinationItem{
				LibraryName: lib.Name,
				Value:       value,
				Color:       lib.Color,
			})
		}
		out = append(out, combo)
	}

	return out
}

// GenerateCartesian draws each participating library's pick set and
// reports the product size. The representative combination previews one
// tuple; the full product is materialized separately.
func (e *Engine) GenerateCartesian(cfg *models.CombinationConfig) CartesianResult {
	participants := e.pickParticipants(cfg.Libraries)

	drawn := ""
	if cfg.CategoryLinkEnabled && category.HasLinkData(cfg.Libraries) {
		drawn = e.linker.ChooseCategory(cfg.Libraries)
	}

	result := CartesianResult{Representative: models.Combination{}}
	total := 0
	for _, lib := range participants {
		pool := e.buildPool(lib, drawn)
		values := e.sampler.Sample(pool, lib.EffectivePickCount())
		if len(values) == 0 {
			continue
		}

		result.Draws = append(result.Draws, LibraryDraw{
			LibraryName: lib.Name,
			Color:       lib.Color,
			Values:      values,
		})
		result.Representative = append(result.Representative, models.CombinationItem{
			LibraryName: lib.Name,
			Value:       values[0],
			Color:       lib.Color,
		})

		if total == 0 {
			total = len(values)
		} else {
			total *= len(values)
		}
	}
	result.TotalCount = total

	return result
}

// ExpandProduct materializes the full cross product of the draw sets, in
// library order, first library varying slowest. Downstream dispatch calls
// this right before fanning generation work out.
func ExpandProduct(draws []LibraryDraw) []models.Combination {
	if len(draws) == 0 {
		return []models.Combination{}
	}

	out := []models.Combination{{}}
	for _, draw := range draws {
		if len(draw.Values) == 0 {
			continue
		}
		next := make([]models.Combination, 0, len(out)*len(draw.Values))
		for _, prefix := range out {
			for _, v := range draw.Values {
				combo := make(models.Combination, len(prefix), len(prefix)+1)
				copy(combo, prefix)
				combo = append(combo, models.CombinationItem{
					LibraryName: draw.LibraryName,
					Value:       v,
					Color:       draw.Color,
				})
				next = append(next, combo)
			}
		}
		out = next
	}

	return out
}

// pickParticipants runs the participation trial per library: enabled,
// non-empty values, and a Bernoulli draw at participationRate percent.
// Rate >= 100 always includes, rate <= 0 never does.
func (e *Engine) pickParticipants(libraries []models.Library) []*models.Library {
	var out []*models.Library
	for i := range libraries {
		lib := &libraries[i]
		if !lib.Enabled || len(lib.Values) == 0 {
			continue
		}
		switch {
		case lib.ParticipationRate >= 100:
			// always in
		case lib.ParticipationRate <= 0:
			continue
		case e.rng.Intn(100) >= lib.ParticipationRate:
			continue
		}
		out = append(out, lib)
	}
	return out
}

// buildPool applies the category filter and attaches weights.
func (e *Engine) buildPool(lib *models.Library, drawn string) []sampler.WeightedValue {
	values := category.FilterByCategory(lib, drawn)
	pool := make([]sampler.WeightedValue, 0, len(values))
	for _, v := range values {
		pool = append(pool, sampler.WeightedValue{Value: v, Weight: lib.WeightOf(v)})
	}
	return pool
}
