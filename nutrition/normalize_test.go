package nutrition

import "testing"

func TestNormalizeText_TrimsAndStripsControls(t *testing.T) {
	got := NormalizeText("  Cheese\x00 pizza\t ")
	if got != "Cheese pizza" {
		t.Fatalf("want %q, got %q", "Cheese pizza", got)
	}
}

func TestBuildRecords_CategoryJoin(t *testing.T) {
	raw := RawTables{
		Foods: []FoodName{
			{ID: 1, Description: "Cheddar"},
			{ID: 2, Description: "Cola"},
		},
		Categories: []CategoryAssignment{
			{FoodID: 1, CategoryNumber: 10},
			{FoodID: 2, CategoryNumber: 99}, // no label for 99
		},
		CategoryLabels: []CategoryLabel{
			{Number: 10, Description: "Cheese"},
		},
	}
	records := BuildRecords(raw)
	if len(records) != 2 {
		t.Fatalf("want 2 records, got %d", len(records))
	}
	if records[0].Category != "Cheese" {
		t.Fatalf("want category %q, got %q", "Cheese", records[0].Category)
	}
	if records[1].Category != "" {
		t.Fatalf("unmatched category should be absent, got %q", records[1].Category)
	}
}

func TestBuildRecords_DuplicateKeyFirstWins(t *testing.T) {
	raw := RawTables{
		Foods: []FoodName{
			{ID: 7, Description: "First"},
			{ID: 7, Description: "Second"},
		},
	}
	records := BuildRecords(raw)
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}
	if records[0].Name != "First" {
		t.Fatalf("want first occurrence to win, got %q", records[0].Name)
	}
}

func TestBuildRecords_CompositionSummary(t *testing.T) {
	raw := RawTables{
		Foods: []FoodName{{ID: 1, Description: "Shortbread"}},
		Ingredients: []IngredientRow{
			{FoodID: 1, Weight: 50, HasWeight: true, Description: "Flour"},
			{FoodID: 1, Weight: 30, HasWeight: true, Description: "Butter"},
			{FoodID: 1, Weight: 20, HasWeight: true, Description: "Sugar"},
		},
	}
	rec := BuildRecords(raw)[0]
	if rec.IngredientCount != 3 {
		t.Fatalf("want 3 ingredients, got %d", rec.IngredientCount)
	}
	if rec.DominantShare != 0.5 {
		t.Fatalf("want dominant share 0.5, got %v", rec.DominantShare)
	}
	want := "Flour (50%); Butter (30%); Sugar (20%)"
	if rec.Ingredients != want {
		t.Fatalf("want ingredients %q, got %q", want, rec.Ingredients)
	}
}

func TestBuildRecords_CompositionCountsRowsWithoutWeight(t *testing.T) {
	raw := RawTables{
		Foods: []FoodName{{ID: 1, Description: "Stew"}},
		Ingredients: []IngredientRow{
			{FoodID: 1, Weight: 80, HasWeight: true, Description: "Beef"},
			// Salt has no weight; Bad carries a negative one.
			{FoodID: 1, Description: "Salt"},
			{FoodID: 1, Weight: -5, HasWeight: true, Description: "Bad"},
		},
	}
	rec := BuildRecords(raw)[0]
	if rec.IngredientCount != 3 {
		t.Fatalf("count must include weightless rows: want 3, got %d", rec.IngredientCount)
	}
	if rec.DominantShare != 1.0 {
		t.Fatalf("share must use only valid weights: want 1.0, got %v", rec.DominantShare)
	}
	if rec.Ingredients != "Beef (100%)" {
		t.Fatalf("want %q, got %q", "Beef (100%)", rec.Ingredients)
	}
}

func TestBuildRecords_NoValidWeights(t *testing.T) {
	raw := RawTables{
		Foods: []FoodName{{ID: 1, Description: "Broth"}},
		Ingredients: []IngredientRow{
			{FoodID: 1, Description: "Water"},
			{FoodID: 1, Description: "Bones"},
		},
	}
	rec := BuildRecords(raw)[0]
	if rec.IngredientCount != 2 {
		t.Fatalf("want 2 ingredients, got %d", rec.IngredientCount)
	}
	if rec.DominantShare != 0 {
		t.Fatalf("want zero dominant share, got %v", rec.DominantShare)
	}
	if rec.Ingredients != "" {
		t.Fatalf("want empty ingredient list, got %q", rec.Ingredients)
	}
}

func TestBuildRecords_ZeroWeightSumStillListsIngredients(t *testing.T) {
	raw := RawTables{
		Foods: []FoodName{{ID: 1, Description: "Sparkling Water"}},
		Ingredients: []IngredientRow{
			{FoodID: 1, Weight: 0, HasWeight: true, Description: "Water"},
			{FoodID: 1, Weight: 0, HasWeight: true, Description: "Carbon Dioxide"},
		},
	}
	rec := BuildRecords(raw)[0]
	if rec.DominantShare != 0 {
		t.Fatalf("want zero dominant share, got %v", rec.DominantShare)
	}
	want := "Water (0%); Carbon Dioxide (0%)"
	if rec.Ingredients != want {
		t.Fatalf("want %q, got %q", want, rec.Ingredients)
	}
}

func TestBuildRecords_PivotFirstOccurrenceWins(t *testing.T) {
	raw := RawTables{
		Foods: []FoodName{{ID: 1, Description: "Oats"}},
		Nutrients: []NutrientAmount{
			{FoodID: 1, NutrientID: 203, Amount: 13.5},
			{FoodID: 1, NutrientID: 203, Amount: 99}, // repeated pair
			{FoodID: 1, NutrientID: 9999, Amount: 1}, // unknown code
		},
	}
	rec := BuildRecords(raw)[0]
	v, ok := rec.Nutrient("Protein")
	if !ok {
		t.Fatal("expected Protein to be present")
	}
	if v != 13.5 {
		t.Fatalf("first occurrence must win: want 13.5, got %v", v)
	}
	if len(rec.Nutrients) != 1 {
		t.Fatalf("unknown codes must be ignored, got %d nutrients", len(rec.Nutrients))
	}
}
