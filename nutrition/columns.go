package nutrition

// NormSuffix marks the standardized counterpart of a nutrient column in the
// persisted dataset. The Store relies on this suffix alone to tell
// computation columns apart from display columns, so the ETL and the loader
// must share the exact same string.
const NormSuffix = "_norm"

// Reserved display column names in the persisted dataset.
const (
	IDColumn              = "id"
	NameColumn            = "food"
	CategoryColumn        = "category"
	IngredientCountColumn = "num_ingredients"
	DominantShareColumn   = "dominant_share"
	IngredientsColumn     = "ingredients"
)

// NutrientColumn maps a human-readable nutrient name to its numeric code in
// the survey nutrient table. Amounts are per 100 g of the food item.
type NutrientColumn struct {
	Name string
	Code int64
}

// NutrientColumns lists the nutrients extracted from the raw tables, in the
// fixed order they appear in the merged table and the dataset schema.
var NutrientColumns = []NutrientColumn{
	{Name: "Caloric Value", Code: 208},
	{Name: "Protein", Code: 203},
	{Name: "Total Fat", Code: 204},
	{Name: "Saturated Fats", Code: 606},
	{Name: "Carbohydrates", Code: 205},
	{Name: "Sugars", Code: 269},
	{Name: "Dietary Fiber", Code: 291},
	{Name: "Cholesterol", Code: 601},
	{Name: "Sodium", Code: 307},
	{Name: "Water", Code: 255},
	{Name: "Magnesium", Code: 304},
	{Name: "Potassium", Code: 306},
	{Name: "Iron", Code: 303},
	{Name: "Calcium", Code: 301},
	{Name: "Vitamin C", Code: 401},
}

// KeyNutrients must be present for an item to be considered viable; rows
// missing any of them are dropped by the cleaner.
var KeyNutrients = []string{"Caloric Value", "Protein", "Total Fat", "Carbohydrates"}

// BoundedNutrients are measured in grams per 100 g, so any value above 100 is
// physically impossible and marks the row as corrupt.
var BoundedNutrients = []string{"Total Fat", "Carbohydrates", "Protein", "Sugars"}

// Plausibility limits applied by the cleaner.
const (
	// CaloricCeiling is the kcal/100g value at or above which a row is
	// rejected as implausible (pure fat tops out near 900).
	CaloricCeiling = 1000.0
	// BoundedLimit caps the per-100g nutrients listed in BoundedNutrients.
	BoundedLimit = 100.0
	// MacroSumLimit caps fat+carbohydrate+protein per 100 g. Slightly above
	// 100 to tolerate rounding in the source data.
	MacroSumLimit = 105.0
)

// NutrientNames returns the nutrient display names in schema order.
func NutrientNames() []string {
	out := make([]string, len(NutrientColumns))
	for i, c := range NutrientColumns {
		out[i] = c.Name
	}
	return out
}

// DisplayColumns returns the full display schema of the merged table in its
// fixed order: identifier, metadata columns, then the nutrient columns.
func DisplayColumns() []string {
	out := []string{
		IDColumn,
		NameColumn,
		CategoryColumn,
		IngredientCountColumn,
		DominantShareColumn,
		IngredientsColumn,
	}
	return append(out, NutrientNames()...)
}

func nutrientCodeIndex() map[int64]string {
	m := make(map[int64]string, len(NutrientColumns))
	for _, c := range NutrientColumns {
		m[c.Code] = c.Name
	}
	return m
}
