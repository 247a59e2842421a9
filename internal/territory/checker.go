package territory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// checker implements Checker over one or more loaded zone sets. A postal
// code is serviceable when any set covers it. Sets are read-only after
// initialisation, so lookups need no locking.
type checker struct {
	zoneSets []ZoneSet
	logger   zerolog.Logger
}

// CheckerConfig holds configuration for the territory checker.
type CheckerConfig struct {
	// ZoneFiles is the list of zone file paths (or S3 keys) to load.
	ZoneFiles []string
}

// NewChecker creates a territory checker. All zone files are loaded
// concurrently at initialisation time; any load failure fails construction.
func NewChecker(ctx context.Context, cfg CheckerConfig, loader Loader, logger zerolog.Logger) (Checker, error) {
	logger = logger.With().Str("component", "territory-checker").Logger()

	if len(cfg.ZoneFiles) == 0 {
		return nil, fmt.Errorf("at least one zone file is required")
	}

	logger.Info().
		Int("file_count", len(cfg.ZoneFiles)).
		Msg("initialising territory checker")

	type loadResult struct {
		index int
		set   ZoneSet
		err   error
	}

	resultChan := make(chan loadResult, len(cfg.ZoneFiles))
	var wg sync.WaitGroup

	for i, path := range cfg.ZoneFiles {
		wg.Add(1)
		go func(index int, p string) {
			defer wg.Done()

			set, err := loader.Load(ctx, p)
			resultChan <- loadResult{index: index, set: set, err: err}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(cfg.ZoneFiles))
	for result := range resultChan {
		results[result.index] = result
	}

	c := &checker{
		zoneSets: make([]ZoneSet, 0, len(cfg.ZoneFiles)),
		logger:   logger,
	}

	totalZones := 0
	for i, result := range results {
		if result.err != nil {
			logger.Error().
				Err(result.err).
				Str("file", cfg.ZoneFiles[i]).
				Msg("failed to load zone file")
			return nil, fmt.Errorf("failed to load zone file %s: %w", cfg.ZoneFiles[i], result.err)
		}
		c.zoneSets = append(c.zoneSets, result.set)
		totalZones += result.set.Size()
	}

	logger.Info().
		Int("total_zones", totalZones).
		Msg("territory checker initialised")

	return c, nil
}

// Serviceable reports whether orders can ship to the postal code.
func (c *checker) Serviceable(postalCode string) bool {
	for _, set := range c.zoneSets {
		if set.Covers(postalCode) {
			return true
		}
	}

	c.logger.Debug().
		Str("postal_code", postalCode).
		Msg("postal code outside serviceable territory")

	return false
}
