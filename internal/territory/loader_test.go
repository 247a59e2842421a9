package territory

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeZoneFile writes a gzipped zone file with one prefix per line and
// returns its path.
func writeZoneFile(t *testing.T, name string, prefixes []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	gz := gzip.NewWriter(file)
	for _, p := range prefixes {
		_, err := gz.Write([]byte(p + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, gz.Close())

	return path
}

func TestFileLoader_Load(t *testing.T) {
	path := writeZoneFile(t, "zones.txt.gz", []string{"100", "2000", "SW1A", "", "  300  "})

	loader := NewFileLoader(zerolog.Nop())
	set, err := loader.Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 4, set.Size())
	assert.True(t, set.Covers("10001"))
	assert.True(t, set.Covers("SW1A 1AA"))
	assert.True(t, set.Covers("30012"))
	assert.False(t, set.Covers("90210"))
}

func TestFileLoader_FileNotFound(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	set, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.gz"))

	assert.Error(t, err)
	assert.Nil(t, set)
}

func TestFileLoader_NotGzipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("100\n200\n"), 0o644))

	loader := NewFileLoader(zerolog.Nop())

	set, err := loader.Load(context.Background(), path)

	assert.Error(t, err)
	assert.Nil(t, set)
}
