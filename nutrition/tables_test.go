package nutrition

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

var rawFixtures = map[string]string{
	foodTableFile: "fdc_id,data_type,description\n" +
		"101,survey_fndds_food,Cheddar cheese\n" +
		"102,survey_fndds_food,Cola\n",
	nutrientTableFile: "id,fdc_id,nutrient_id,amount\n" +
		"1,101,208,403\n" +
		"2,101,203,24.9\n" +
		"3,102,208,41\n" +
		"4,102,notanumber,1\n",
	surveyTableFile: "fdc_id,wweia_category_number\n" +
		"101,10\n",
	wweiaTableFile: "wweia_food_category,wweia_food_category_description\n" +
		"10,Cheese\n",
	ingredientTableFile: "fdc_id,sr_description,gram_weight\n" +
		"101,Milk,80\n" +
		"101,Salt,\n",
}

func writeRawDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range rawFixtures {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func checkRawTables(t *testing.T, raw RawTables) {
	t.Helper()
	if len(raw.Foods) != 2 {
		t.Fatalf("want 2 foods, got %d", len(raw.Foods))
	}
	if raw.Foods[0].Description != "Cheddar cheese" {
		t.Fatalf("want first food Cheddar cheese, got %q", raw.Foods[0].Description)
	}
	if len(raw.Nutrients) != 3 {
		t.Fatalf("malformed rows must be skipped: want 3 nutrient rows, got %d", len(raw.Nutrients))
	}
	if len(raw.Ingredients) != 2 {
		t.Fatalf("want 2 ingredient rows, got %d", len(raw.Ingredients))
	}
	if raw.Ingredients[1].HasWeight {
		t.Fatal("missing gram weight must be flagged absent")
	}
	if len(raw.Categories) != 1 || len(raw.CategoryLabels) != 1 {
		t.Fatalf("want 1 category row and 1 label, got %d and %d", len(raw.Categories), len(raw.CategoryLabels))
	}
}

func TestLoadRawTables_Directory(t *testing.T) {
	raw, err := LoadRawTables(writeRawDir(t))
	if err != nil {
		t.Fatalf("LoadRawTables: %v", err)
	}
	checkRawTables(t, raw)
}

func TestLoadRawTables_ZipArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	// Nested under a dated directory, the way the survey archive ships.
	// input_food.csv must not shadow food.csv despite the shared suffix.
	for name, body := range rawFixtures {
		w, err := zw.Create("FoodData_Central_survey/" + name)
		if err != nil {
			t.Fatalf("create member %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write member %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	raw, err := LoadRawTables(path)
	if err != nil {
		t.Fatalf("LoadRawTables: %v", err)
	}
	checkRawTables(t, raw)
}

func TestLoadRawTables_MissingSource(t *testing.T) {
	if _, err := LoadRawTables(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("want error for a missing source")
	}
}

func TestLoadRawTables_MissingMember(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, foodTableFile), []byte("fdc_id,description\n1,x\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadRawTables(dir); err == nil {
		t.Fatal("want error when a table file is absent")
	}
}
