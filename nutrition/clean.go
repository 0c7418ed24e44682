package nutrition

// Clean filters the normalized records down to viable items, preserving input
// order. Each record runs through the checks in a fixed order and is counted
// against the first one it fails:
//
//  1. missing display name
//  2. name already claimed by an earlier surviving record (exact match)
//  3. missing a key nutrient
//  4. caloric value at or above the plausibility ceiling
//  5. a bounded nutrient above 100 per 100 g
//  6. fat+carbohydrate+protein above the macro sum limit
//
// A record claims its name only once it has passed every check, so a
// duplicate name is measured against the earlier survivor, not against rows
// that were themselves rejected.
func Clean(records []FoodRecord) ([]FoodRecord, CleanStats) {
	stats := CleanStats{Input: len(records)}
	out := make([]FoodRecord, 0, len(records))
	claimed := make(map[string]struct{}, len(records))

	for _, rec := range records {
		switch {
		case rec.Name == "":
			stats.MissingName++
		case nameClaimed(claimed, rec.Name):
			stats.DuplicateName++
		case !rec.HasNutrients(KeyNutrients):
			stats.MissingKeyNutrient++
		case aboveCaloricCeiling(rec):
			stats.CalorieCeiling++
		case outOfBoundedRange(rec):
			stats.BoundedRange++
		case aboveMacroSum(rec):
			stats.MacroSum++
		default:
			claimed[rec.Name] = struct{}{}
			out = append(out, rec)
		}
	}
	stats.Survived = len(out)
	return out, stats
}

func nameClaimed(claimed map[string]struct{}, name string) bool {
	_, ok := claimed[name]
	return ok
}

func aboveCaloricCeiling(rec FoodRecord) bool {
	v, ok := rec.Nutrient("Caloric Value")
	return ok && v >= CaloricCeiling
}

func outOfBoundedRange(rec FoodRecord) bool {
	for _, name := range BoundedNutrients {
		if v, ok := rec.Nutrient(name); ok && v > BoundedLimit {
			return true
		}
	}
	return false
}

func aboveMacroSum(rec FoodRecord) bool {
	var sum float64
	for _, name := range []string{"Total Fat", "Carbohydrates", "Protein"} {
		v, ok := rec.Nutrient(name)
		if !ok {
			return false
		}
		sum += v
	}
	return sum > MacroSumLimit
}
