package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/CivicMetrics/CD-Employment/internal/allocation"
	"github.com/CivicMetrics/CD-Employment/internal/crosswalk"
	"github.com/CivicMetrics/CD-Employment/internal/db"
	"github.com/CivicMetrics/CD-Employment/internal/employment"
	"github.com/CivicMetrics/CD-Employment/internal/qcew"
	"github.com/joho/godotenv"
)

func main() {
	var (
		obsPath      = flag.String("obs", "", "path to raw observation CSV extract(s), comma-separated")
		fetchAreas   = flag.String("fetch", "", "comma-separated area FIPS codes to fetch from the open-data API instead of -obs")
		firstYear    = flag.Int("first-year", allocation.FirstYear, "first year to fetch (with -fetch)")
		lastYear     = flag.Int("last-year", allocation.LastYear, "last year to fetch (with -fetch)")
		allocPath    = flag.String("alloc", "", "path to county→district allocation CSV")
		registryPath = flag.String("registry", "", "path to crosswalk registry YAML")
		overridePath = flag.String("overrides", "", "path to county override YAML (optional, extends defaults)")
		outPath      = flag.String("out", "", "path for wide-format CSV output (optional)")
		dryRun       = flag.Bool("dry-run", false, "skip database writes")
	)
	flag.Parse()

	if (*obsPath == "" && *fetchAreas == "") || *allocPath == "" || *registryPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load(".env.local")

	startedAt := time.Now().UTC()

	raw, source, err := loadObservations(*obsPath, *fetchAreas, *firstYear, *lastYear)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Loaded %d raw observation rows from %s\n", len(raw), source)

	factors, err := crosswalk.ParseCountyFactors(*allocPath)
	if err != nil {
		log.Fatalf("load allocation crosswalk: %v", err)
	}

	overrides, err := crosswalk.LoadOverrides(*overridePath)
	if err != nil {
		log.Fatalf("load overrides: %v", err)
	}

	registry, err := crosswalk.LoadRegistry(*registryPath)
	if err != nil {
		log.Fatalf("load crosswalk registry: %v", err)
	}

	result, err := allocation.Run(allocation.Input{
		Raw:       qcew.ToRawRecords(raw),
		Factors:   factors,
		Overrides: overrides,
		Registry:  registry,
	})
	if err != nil {
		log.Fatal(err)
	}

	printAudit(result.Audit)

	fmt.Printf("========================================\n")
	fmt.Printf("Reference rows:   %d\n", len(result.Reference))
	fmt.Printf("Reallocated rows: %d\n", len(result.Reallocated))
	fmt.Printf("Wide rows:        %d\n", len(result.Wide))
	fmt.Printf("========================================\n")

	if *outPath != "" {
		if err := writeWideCSV(*outPath, result.Reallocated, result.Wide); err != nil {
			log.Fatalf("write %s: %v", *outPath, err)
		}
		fmt.Printf("Wrote wide output to %s\n", *outPath)
	}

	if *dryRun {
		fmt.Println("(dry run — no database writes)")
		return
	}

	db.Connect()
	employment.Init()

	runID, err := employment.SaveRun(source, result.Reallocated, startedAt)
	if err != nil {
		log.Fatalf("save run: %v", err)
	}
	fmt.Printf("Saved run %s (%d rows)\n", runID, len(result.Reallocated))
}

// loadObservations reads extracts from files or fetches them upstream.
func loadObservations(obsPath, fetchAreas string, firstYear, lastYear int) ([]qcew.Observation, string, error) {
	if obsPath != "" {
		var all []qcew.Observation
		paths := strings.Split(obsPath, ",")
		for _, p := range paths {
			p = strings.TrimSpace(p)
			obs, err := qcew.ParseCSV(p)
			if err != nil {
				return nil, "", err
			}
			all = append(all, obs...)
		}
		return all, obsPath, nil
	}

	var areas []string
	for _, a := range strings.Split(fetchAreas, ",") {
		if a = strings.TrimSpace(a); a != "" {
			areas = append(areas, a)
		}
	}

	client := qcew.NewClient()
	ctx := context.Background()
	if err := client.HealthCheck(ctx); err != nil {
		return nil, "", fmt.Errorf("open-data API health check failed: %w", err)
	}
	fmt.Println("Open-data API: OK")

	obs, err := client.FetchAreas(ctx, firstYear, lastYear, areas)
	if err != nil {
		return nil, "", err
	}
	return obs, "api", nil
}

// printAudit lists surviving row counts per period and category. Zero-count
// cells are a completeness signal to chase upstream, not an error.
func printAudit(audit allocation.AuditCounts) {
	keys := make([]allocation.AuditKey, 0, len(audit))
	for k := range audit {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year < keys[j].Year
		}
		return keys[i].Category < keys[j].Category
	})

	fmt.Printf("========================================\n")
	fmt.Printf("Completeness audit (rows per period/category)\n")
	fmt.Printf("========================================\n")
	for _, k := range keys {
		marker := ""
		if audit[k] == 0 {
			marker = "  <- EMPTY"
		}
		fmt.Printf("  %d %-8s %6d%s\n", k.Year, k.Category, audit[k], marker)
	}
}

// writeWideCSV writes the pivoted table with one column per category code.
func writeWideCSV(path string, long []allocation.Employment, wide []allocation.WideRow) error {
	categories := allocation.Categories(long)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := append([]string{"state", "district", "year", "session"}, categories...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range wide {
		rec := []string{
			row.District.State,
			strconv.Itoa(row.District.Number),
			strconv.Itoa(row.Year),
			strconv.Itoa(row.Session),
		}
		for _, c := range categories {
			rec = append(rec, strconv.FormatFloat(row.Levels[c], 'f', -1, 64))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	return w.Error()
}
