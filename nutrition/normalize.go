package nutrition

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText performs Unicode normalization and trims whitespace. Food
// names and ingredient descriptions from the survey tables carry stray
// control characters and inconsistent composition.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.TrimSpace(normed)
	normed = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return normed
}

// ingredientListLimit is how many top ingredients the composition summary
// string lists.
const ingredientListLimit = 3

// BuildRecords joins the raw survey tables into one FoodRecord per distinct
// food key. Output order follows the food-name table; should that table ever
// arrive unordered, records for a duplicated key still resolve first
// occurrence wins, so the result stays deterministic for a given input order.
func BuildRecords(raw RawTables) []FoodRecord {
	categories := resolveCategories(raw.Categories, raw.CategoryLabels)
	compositions := summarizeCompositions(raw.Ingredients)
	nutrients := pivotNutrients(raw.Nutrients)

	records := make([]FoodRecord, 0, len(raw.Foods))
	seen := make(map[int64]struct{}, len(raw.Foods))
	for _, f := range raw.Foods {
		if _, ok := seen[f.ID]; ok {
			continue
		}
		seen[f.ID] = struct{}{}
		rec := FoodRecord{
			SourceID: f.ID,
			Name:     NormalizeText(f.Description),
			Category: categories[f.ID],
		}
		if comp, ok := compositions[f.ID]; ok {
			rec.IngredientCount = comp.count
			rec.DominantShare = comp.share
			rec.Ingredients = comp.list
		}
		if amounts, ok := nutrients[f.ID]; ok {
			rec.Nutrients = amounts
		} else {
			rec.Nutrients = map[string]float64{}
		}
		records = append(records, rec)
	}
	return records
}

// resolveCategories performs the two-step category join: food key to category
// number, category number to human-readable label. Items without a match get
// no category.
func resolveCategories(assignments []CategoryAssignment, labels []CategoryLabel) map[int64]string {
	byNumber := make(map[int64]string, len(labels))
	for _, l := range labels {
		if _, ok := byNumber[l.Number]; ok {
			continue
		}
		byNumber[l.Number] = NormalizeText(l.Description)
	}
	out := make(map[int64]string, len(assignments))
	for _, a := range assignments {
		if _, ok := out[a.FoodID]; ok {
			continue
		}
		if label, ok := byNumber[a.CategoryNumber]; ok {
			out[a.FoodID] = label
		}
	}
	return out
}

type composition struct {
	count int
	share float64
	list  string
}

// summarizeCompositions aggregates the ingredient rows of each food item.
// The row count includes rows with a missing weight; the dominant share and
// the formatted top list only consider rows with a present, non-negative
// weight.
func summarizeCompositions(rows []IngredientRow) map[int64]composition {
	grouped := make(map[int64][]IngredientRow)
	for _, row := range rows {
		grouped[row.FoodID] = append(grouped[row.FoodID], row)
	}
	out := make(map[int64]composition, len(grouped))
	for id, group := range grouped {
		out[id] = summarizeComposition(group)
	}
	return out
}

func summarizeComposition(rows []IngredientRow) composition {
	comp := composition{count: len(rows)}

	valid := make([]IngredientRow, 0, len(rows))
	var total, heaviest float64
	for _, row := range rows {
		if !row.HasWeight || row.Weight < 0 {
			continue
		}
		valid = append(valid, row)
		total += row.Weight
		if row.Weight > heaviest {
			heaviest = row.Weight
		}
	}
	if len(valid) == 0 {
		return comp
	}
	if total > 0 {
		comp.share = heaviest / total
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Weight > valid[j].Weight
	})
	limit := ingredientListLimit
	if len(valid) < limit {
		limit = len(valid)
	}
	parts := make([]string, 0, limit)
	for _, row := range valid[:limit] {
		var pct int
		if total > 0 {
			pct = int(math.Round(row.Weight / total * 100))
		}
		parts = append(parts, fmt.Sprintf("%s (%d%%)", NormalizeText(row.Description), pct))
	}
	comp.list = strings.Join(parts, "; ")
	return comp
}

// pivotNutrients turns the long (food, nutrient, amount) table into one map
// of nutrient name to amount per food key. Only nutrients from
// NutrientColumns are kept; a repeated (food, nutrient) pair keeps the first
// amount seen.
func pivotNutrients(rows []NutrientAmount) map[int64]map[string]float64 {
	names := nutrientCodeIndex()
	out := make(map[int64]map[string]float64)
	for _, row := range rows {
		name, ok := names[row.NutrientID]
		if !ok {
			continue
		}
		amounts, ok := out[row.FoodID]
		if !ok {
			amounts = make(map[string]float64, len(NutrientColumns))
			out[row.FoodID] = amounts
		}
		if _, ok := amounts[name]; ok {
			continue
		}
		amounts[name] = row.Amount
	}
	return out
}
