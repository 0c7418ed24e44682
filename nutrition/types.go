package nutrition

// FoodRecord is one flattened food item produced by the record normalizer:
// descriptive metadata plus the per-100g nutrient amounts that could be
// resolved from the raw tables. A nutrient absent from the map was missing in
// the source data.
type FoodRecord struct {
	SourceID        int64
	Name            string
	Category        string
	IngredientCount int
	DominantShare   float64
	Ingredients     string
	Nutrients       map[string]float64
}

// Nutrient returns the amount for the given nutrient name and whether it was
// present in the source data.
func (r FoodRecord) Nutrient(name string) (float64, bool) {
	v, ok := r.Nutrients[name]
	return v, ok
}

// HasNutrients reports whether every listed nutrient is present.
func (r FoodRecord) HasNutrients(names []string) bool {
	for _, name := range names {
		if _, ok := r.Nutrients[name]; !ok {
			return false
		}
	}
	return true
}

// CleanStats counts how many rows each cleaning filter eliminated. The counts
// are diagnostics only; downstream components consume just the surviving rows.
type CleanStats struct {
	Input              int `json:"input"`
	MissingName        int `json:"missingName"`
	DuplicateName      int `json:"duplicateName"`
	MissingKeyNutrient int `json:"missingKeyNutrient"`
	CalorieCeiling     int `json:"calorieCeiling"`
	BoundedRange       int `json:"boundedRange"`
	MacroSum           int `json:"macroSum"`
	Survived           int `json:"survived"`
}

// Dropped returns the total number of eliminated rows.
func (s CleanStats) Dropped() int {
	return s.Input - s.Survived
}

// FeatureWeights maps a feature display name to a non-negative importance
// weight. Features missing from the map default to 1.0; unknown names are
// ignored.
type FeatureWeights map[string]float64

// ItemPoint is the projected position of one food item, carrying its dataset
// identifier so callers need not rely on slice position.
type ItemPoint struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// ProjectionResult holds one weighted 2-D embedding of the whole dataset plus
// the fraction of total variance the two components capture.
type ProjectionResult struct {
	Points            []ItemPoint `json:"projection"`
	ExplainedVariance float64     `json:"explained_variance"`
}

// Metadata describes the loaded dataset: the usable feature names, the item
// count, and the full display table in original units.
type Metadata struct {
	Features []string            `json:"features"`
	Count    int                 `json:"count"`
	Data     []map[string]string `json:"data"`
}
