package nutrition

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// BuildDataset runs the batch pipeline over the raw tables: normalize, clean,
// standardize. It returns the finished dataset together with the cleaning
// diagnostics.
func BuildDataset(raw RawTables) (*Dataset, CleanStats, error) {
	records := BuildRecords(raw)
	cleaned, stats := Clean(records)
	ds, err := Standardize(cleaned)
	if err != nil {
		return nil, stats, err
	}
	return ds, stats, nil
}

// WriteMerged persists the normalized pre-clean table with the source key as
// identifier. It is an intermediate artifact kept for auditing; the service
// never reads it.
func WriteMerged(path string, records []FoodRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, displayRow(strconv.FormatInt(rec.SourceID, 10), rec))
	}
	return writeCSV(path, DisplayColumns(), rows)
}

// WriteDataset persists the standardized dataset as one flat table: the
// display columns in original units followed by one NormSuffix column per
// retained feature. This schema is the contract the Store loads by.
func WriteDataset(path string, ds *Dataset) error {
	header := DisplayColumns()
	for _, name := range ds.Features {
		header = append(header, name+NormSuffix)
	}
	rows := make([][]string, 0, len(ds.Items))
	for i, rec := range ds.Items {
		row := displayRow(strconv.Itoa(ds.IDs[i]), rec)
		for j := range ds.Features {
			row = append(row, formatFloat(ds.Matrix.At(i, j)))
		}
		rows = append(rows, row)
	}
	return writeCSV(path, header, rows)
}

// displayRow renders the fixed display columns for one record. Missing
// nutrients stay empty so the column set never depends on data availability.
func displayRow(id string, rec FoodRecord) []string {
	row := []string{
		id,
		rec.Name,
		rec.Category,
		strconv.Itoa(rec.IngredientCount),
		formatFloat(rec.DominantShare),
		rec.Ingredients,
	}
	for _, name := range NutrientNames() {
		if v, ok := rec.Nutrient(name); ok {
			row = append(row, formatFloat(v))
		} else {
			row = append(row, "")
		}
	}
	return row
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Manifest records one batch run for diagnostics: which run produced the
// dataset, how long it took, and how many rows each cleaning filter removed.
type Manifest struct {
	RunID      string     `json:"runId"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt"`
	RawItems   int        `json:"rawItems"`
	Clean      CleanStats `json:"clean"`
	Features   []string   `json:"features"`
	Rows       int        `json:"rows"`
}

// NewManifest starts a manifest for a fresh batch run.
func NewManifest() Manifest {
	return Manifest{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}
}

// Write persists the manifest next to the dataset, via temp file and rename.
func (m Manifest) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename manifest: %w", err)
	}
	return nil
}
