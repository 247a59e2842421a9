package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Creates sample territory zone files for local development. Each file
// holds one postal-code prefix per line, gzipped, matching the format the
// territory loader expects.
func main() {
	dataDir := "data/territory"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	zones := map[string][]string{
		"zones_metro.gz": {
			"100", // Manhattan
			"101",
			"112", // Brooklyn
			"104", // Bronx
		},
		"zones_regional.gz": {
			"2000", // Sydney CBD
			"2010",
			"3000", // Melbourne CBD
		},
	}

	for filename, prefixes := range zones {
		filePath := filepath.Join(dataDir, filename)

		if err := createZoneFile(filePath, prefixes); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d prefixes\n", filePath, len(prefixes))
	}

	fmt.Println("\nSample zone files created successfully!")
	fmt.Println("Set TERRITORY_ZONE_FILES=data/territory/zones_metro.gz,data/territory/zones_regional.gz to use them.")
}

func createZoneFile(path string, prefixes []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	defer gzWriter.Close()

	for _, prefix := range prefixes {
		if _, err := gzWriter.Write([]byte(prefix + "\n")); err != nil {
			return fmt.Errorf("failed to write prefix: %w", err)
		}
	}

	return nil
}
