package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nutriview/nutrition"
)

type cliOptions struct {
	configPath string
	rawPath    string
	dataDir    string
	skipMerged bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("nutriview-etl: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("nutriview-etl: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.rawPath, "raw", "", "Directory or zip archive with the survey tables (overrides config)")
	flag.StringVar(&opts.dataDir, "data-dir", "", "Directory for generated artifacts (overrides config)")
	flag.BoolVar(&opts.skipMerged, "skip-merged", false, "Do not write the intermediate merged table")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [--raw PATH] [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.rawPath = strings.TrimSpace(opts.rawPath)
	opts.dataDir = strings.TrimSpace(opts.dataDir)
	return opts, nil
}

func run(opts cliOptions) error {
	cfg, err := nutrition.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.rawPath != "" {
		cfg.RawPath = opts.rawPath
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if cfg.RawPath == "" {
		flag.Usage()
		return errors.New("missing raw table source (--raw or rawPath in config.json)")
	}

	manifest := nutrition.NewManifest()
	log.Printf("Batch run %s", manifest.RunID)

	log.Printf("Reading survey tables from %s", cfg.RawPath)
	raw, err := nutrition.LoadRawTables(cfg.RawPath)
	if err != nil {
		return fmt.Errorf("load raw tables: %w", err)
	}
	log.Printf("Loaded %d food names, %d nutrient rows, %d ingredient rows",
		len(raw.Foods), len(raw.Nutrients), len(raw.Ingredients))

	records := nutrition.BuildRecords(raw)
	manifest.RawItems = len(records)
	log.Printf("Normalized %d food items", len(records))

	if !opts.skipMerged {
		if err := nutrition.WriteMerged(cfg.MergedPath(), records); err != nil {
			return fmt.Errorf("write merged table: %w", err)
		}
		log.Printf("Wrote merged table to %s", cfg.MergedPath())
	}

	cleaned, stats := nutrition.Clean(records)
	manifest.Clean = stats
	logCleanStats(stats)

	ds, err := nutrition.Standardize(cleaned)
	if err != nil {
		return fmt.Errorf("standardize: %w", err)
	}
	manifest.Features = ds.Features
	manifest.Rows = len(ds.Items)
	log.Printf("Standardized %d rows over %d features", len(ds.Items), len(ds.Features))

	if err := nutrition.WriteDataset(cfg.DatasetPath(), ds); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	log.Printf("Wrote dataset to %s", cfg.DatasetPath())

	manifest.FinishedAt = time.Now().UTC()
	if err := manifest.Write(cfg.ManifestPath()); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	log.Printf("Wrote manifest to %s", cfg.ManifestPath())
	return nil
}

func logCleanStats(stats nutrition.CleanStats) {
	log.Printf("Cleaned %d rows down to %d (dropped %d)", stats.Input, stats.Survived, stats.Dropped())
	log.Printf("  missing name: %d", stats.MissingName)
	log.Printf("  duplicate name: %d", stats.DuplicateName)
	log.Printf("  missing key nutrient: %d", stats.MissingKeyNutrient)
	log.Printf("  caloric ceiling: %d", stats.CalorieCeiling)
	log.Printf("  bounded range: %d", stats.BoundedRange)
	log.Printf("  macro sum: %d", stats.MacroSum)
}
