package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/CivicMetrics/CD-Employment/internal/allocation"
	"github.com/CivicMetrics/CD-Employment/internal/crosswalk"
)

func main() {
	var (
		allocPath    = flag.String("alloc", "", "path to county→district allocation CSV")
		registryPath = flag.String("registry", "", "path to crosswalk registry YAML")
		overridePath = flag.String("overrides", "", "path to county override YAML (optional)")
	)
	flag.Parse()

	if *allocPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	factors, err := crosswalk.ParseCountyFactors(*allocPath)
	if err != nil {
		log.Fatalf("load allocation crosswalk: %v", err)
	}
	fmt.Printf("Allocation crosswalk: %d factor rows\n", len(factors))

	if err := crosswalk.ValidateCountyShares(factors); err != nil {
		log.Fatalf("share validation FAILED: %v", err)
	}
	fmt.Println("County share sums: OK")

	overrides, err := crosswalk.LoadOverrides(*overridePath)
	if err != nil {
		log.Fatalf("load overrides: %v", err)
	}
	fmt.Printf("Override table: %d counties\n", len(overrides))

	if *registryPath != "" {
		registry, err := crosswalk.LoadRegistry(*registryPath)
		if err != nil {
			log.Fatalf("load crosswalk registry: %v", err)
		}
		for year := allocation.FirstYear; year <= allocation.LastYear; year += 2 {
			session, err := allocation.SessionForYear(year)
			if err != nil {
				log.Fatal(err)
			}
			if factors := registry.FactorsFor(session); factors != nil {
				fmt.Printf("Session %d: %d redistricting factor rows\n", session, len(factors))
			} else {
				fmt.Printf("Session %d: reference geography (no crosswalk)\n", session)
			}
		}
	}

	fmt.Println("Done.")
}
