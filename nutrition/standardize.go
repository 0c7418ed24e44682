package nutrition

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// FeatureStats holds the location and scale statistics of one retained
// feature, computed over exactly the cleaned rows.
type FeatureStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Dataset is the standardized output of the batch pipeline: the cleaned rows
// in original units, their 1-based identifiers, and a z-scored matrix over
// the retained features. Row i of Matrix corresponds to Items[i]; the
// correspondence is positional and must never be reordered independently.
type Dataset struct {
	Items    []FoodRecord
	IDs      []int
	Features []string
	Stats    map[string]FeatureStats
	Matrix   *mat.Dense
}

// Standardize computes per-feature statistics over the cleaned records,
// emits the z-scored matrix, and assigns sequential identifiers in row
// order.
//
// A feature is retained only when every cleaned record carries a value for
// it; a column with any gap is dropped whole, so no statistic is ever
// computed over a partial column. Standard deviation is the population
// statistic. A zero-variance column standardizes to all zeros rather than
// failing.
func Standardize(items []FoodRecord) (*Dataset, error) {
	if len(items) == 0 {
		return nil, errors.New("no records survived cleaning")
	}

	features := retainFeatures(items)
	if len(features) == 0 {
		return nil, errors.New("no numeric feature is present across all records")
	}

	stats := make(map[string]FeatureStats, len(features))
	matrix := mat.NewDense(len(items), len(features), nil)
	col := make([]float64, len(items))
	for j, name := range features {
		for i, item := range items {
			v, ok := item.Nutrient(name)
			if !ok {
				return nil, fmt.Errorf("feature %q vanished from record %d", name, i)
			}
			col[i] = v
		}
		fs := FeatureStats{Mean: stat.Mean(col, nil), Std: stat.PopStdDev(col, nil)}
		stats[name] = fs
		for i, v := range col {
			if fs.Std == 0 {
				matrix.Set(i, j, 0)
				continue
			}
			matrix.Set(i, j, (v-fs.Mean)/fs.Std)
		}
	}

	ids := make([]int, len(items))
	for i := range ids {
		ids[i] = i + 1
	}
	return &Dataset{
		Items:    items,
		IDs:      ids,
		Features: features,
		Stats:    stats,
		Matrix:   matrix,
	}, nil
}

// retainFeatures returns the fixed numeric columns that are present in every
// record, in schema order.
func retainFeatures(items []FoodRecord) []string {
	var out []string
	for _, name := range NutrientNames() {
		complete := true
		for _, item := range items {
			if _, ok := item.Nutrient(name); !ok {
				complete = false
				break
			}
		}
		if complete {
			out = append(out, name)
		}
	}
	return out
}
