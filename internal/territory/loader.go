package territory

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped zone files from the
// local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based zone loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "territory-loader").Logger(),
	}
}

// Load reads a gzipped zone file and returns a ZoneSet. The file contains
// one postal-code prefix per line.
func (l *fileLoader) Load(ctx context.Context, path string) (ZoneSet, error) {
	l.logger.Info().Str("file", path).Msg("loading territory zone file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open zone file")
		return nil, fmt.Errorf("failed to open zone file %s: %w", path, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
	}
	defer gzipReader.Close()

	set, err := scanZones(ctx, gzipReader)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("error reading zone file")
		return nil, fmt.Errorf("error reading zone file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("zones", set.Size()).
		Msg("territory zone file loaded")

	return set, nil
}

// scanZones reads zone prefixes line by line into a set, honouring context
// cancellation between reads.
func scanZones(ctx context.Context, r io.Reader) (ZoneSet, error) {
	set := NewPrefixZoneSet(4096).(*prefixZoneSet)

	scanner := bufio.NewScanner(r)
	lineCount := 0
	for scanner.Scan() {
		if lineCount%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		set.Add(scanner.Text())
		lineCount++
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return set, nil
}
