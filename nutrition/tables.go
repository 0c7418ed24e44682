package nutrition

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Raw survey table file names resolved inside the source directory or zip.
const (
	foodTableFile       = "food.csv"
	nutrientTableFile   = "food_nutrient.csv"
	surveyTableFile     = "survey_fndds_food.csv"
	wweiaTableFile      = "wweia_food_category.csv"
	ingredientTableFile = "input_food.csv"
)

// FoodName is one row of the food-name table.
type FoodName struct {
	ID          int64
	Description string
}

// NutrientAmount is one row of the long nutrient table: the amount of a
// single nutrient for a single food item, per 100 g.
type NutrientAmount struct {
	FoodID     int64
	NutrientID int64
	Amount     float64
}

// CategoryAssignment links a food key to a category number.
type CategoryAssignment struct {
	FoodID         int64
	CategoryNumber int64
}

// CategoryLabel links a category number to its human-readable description.
type CategoryLabel struct {
	Number      int64
	Description string
}

// IngredientRow is one ingredient of a composed food item. HasWeight is false
// when the gram weight was missing in the source.
type IngredientRow struct {
	FoodID      int64
	Weight      float64
	HasWeight   bool
	Description string
}

// RawTables bundles the five survey tables the normalizer joins.
type RawTables struct {
	Foods          []FoodName
	Nutrients      []NutrientAmount
	Categories     []CategoryAssignment
	CategoryLabels []CategoryLabel
	Ingredients    []IngredientRow
}

// LoadRawTables reads the survey tables from path, which may be a directory
// of extracted CSV files or the distribution zip archive.
func LoadRawTables(path string) (RawTables, error) {
	info, err := os.Stat(path)
	if err != nil {
		return RawTables{}, fmt.Errorf("stat raw tables: %w", err)
	}
	if info.IsDir() {
		return loadRawTablesDir(path)
	}
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return loadRawTablesZip(path)
	}
	return RawTables{}, fmt.Errorf("raw table source %s is neither a directory nor a zip archive", path)
}

func loadRawTablesDir(dir string) (RawTables, error) {
	open := func(name string) (io.ReadCloser, error) {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		return f, nil
	}
	return loadRawTablesFrom(open)
}

func loadRawTablesZip(path string) (RawTables, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return RawTables{}, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()
	open := func(name string) (io.ReadCloser, error) {
		member, err := findZipMember(&zr.Reader, name)
		if err != nil {
			return nil, err
		}
		return member.Open()
	}
	return loadRawTablesFrom(open)
}

// findZipMember locates the archive member whose basename matches name
// exactly (case-insensitive). The survey archive nests tables under a dated
// directory and also ships near-collisions such as input_food.csv next to
// food.csv, so substring matching is not safe. The shortest matching path
// wins when the archive carries duplicates.
func findZipMember(zr *zip.Reader, name string) (*zip.File, error) {
	var matches []*zip.File
	for _, f := range zr.File {
		if strings.EqualFold(filepath.Base(f.Name), name) {
			matches = append(matches, f)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("archive does not contain %s", name)
	}
	sort.Slice(matches, func(i, j int) bool {
		return len(matches[i].Name) < len(matches[j].Name)
	})
	return matches[0], nil
}

func loadRawTablesFrom(open func(string) (io.ReadCloser, error)) (RawTables, error) {
	var raw RawTables
	var err error
	if raw.Foods, err = readTable(open, foodTableFile, parseFoodRow); err != nil {
		return raw, err
	}
	if raw.Nutrients, err = readTable(open, nutrientTableFile, parseNutrientRow); err != nil {
		return raw, err
	}
	if raw.Categories, err = readTable(open, surveyTableFile, parseCategoryRow); err != nil {
		return raw, err
	}
	if raw.CategoryLabels, err = readTable(open, wweiaTableFile, parseCategoryLabelRow); err != nil {
		return raw, err
	}
	if raw.Ingredients, err = readTable(open, ingredientTableFile, parseIngredientRow); err != nil {
		return raw, err
	}
	return raw, nil
}

// tableRow gives row parsers access to named cells of one CSV record.
type tableRow struct {
	columns map[string]int
	cells   []string
}

func (r tableRow) cell(name string) string {
	idx, ok := r.columns[name]
	if !ok || idx >= len(r.cells) {
		return ""
	}
	return cleanCell(r.cells[idx])
}

func (r tableRow) int64Cell(name string) (int64, bool) {
	v, err := strconv.ParseInt(r.cell(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (r tableRow) floatCell(name string) (float64, bool) {
	v, err := strconv.ParseFloat(r.cell(name), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// readTable streams one CSV table through parse, skipping rows the parser
// rejects (malformed keys, stray blank lines).
func readTable[T any](open func(string) (io.ReadCloser, error), name string, parse func(tableRow) (T, bool)) ([]T, error) {
	f, err := open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}
	columns := make(map[string]int, len(header))
	for i, cell := range header {
		columns[strings.ToLower(cleanCell(cell))] = i
	}

	var out []T
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", name, line, err)
		}
		row := tableRow{columns: columns, cells: record}
		if v, ok := parse(row); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func parseFoodRow(row tableRow) (FoodName, bool) {
	id, ok := row.int64Cell("fdc_id")
	if !ok {
		return FoodName{}, false
	}
	return FoodName{ID: id, Description: row.cell("description")}, true
}

func parseNutrientRow(row tableRow) (NutrientAmount, bool) {
	id, ok := row.int64Cell("fdc_id")
	if !ok {
		return NutrientAmount{}, false
	}
	nutrientID, ok := row.int64Cell("nutrient_id")
	if !ok {
		return NutrientAmount{}, false
	}
	amount, ok := row.floatCell("amount")
	if !ok {
		return NutrientAmount{}, false
	}
	return NutrientAmount{FoodID: id, NutrientID: nutrientID, Amount: amount}, true
}

func parseCategoryRow(row tableRow) (CategoryAssignment, bool) {
	id, ok := row.int64Cell("fdc_id")
	if !ok {
		return CategoryAssignment{}, false
	}
	number, ok := row.int64Cell("wweia_category_number")
	if !ok {
		return CategoryAssignment{}, false
	}
	return CategoryAssignment{FoodID: id, CategoryNumber: number}, true
}

func parseCategoryLabelRow(row tableRow) (CategoryLabel, bool) {
	number, ok := row.int64Cell("wweia_food_category")
	if !ok {
		return CategoryLabel{}, false
	}
	return CategoryLabel{Number: number, Description: row.cell("wweia_food_category_description")}, true
}

func parseIngredientRow(row tableRow) (IngredientRow, bool) {
	id, ok := row.int64Cell("fdc_id")
	if !ok {
		return IngredientRow{}, false
	}
	out := IngredientRow{FoodID: id, Description: row.cell("sr_description")}
	if w, ok := row.floatCell("gram_weight"); ok {
		out.Weight = w
		out.HasWeight = true
	}
	return out, true
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\uFEFF")
	return v
}
