package territory

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLoader serves pre-built zone sets keyed by path.
type stubLoader struct {
	sets map[string]ZoneSet
	errs map[string]error
}

func (l *stubLoader) Load(_ context.Context, path string) (ZoneSet, error) {
	if err, ok := l.errs[path]; ok {
		return nil, err
	}
	return l.sets[path], nil
}

func buildSet(prefixes ...string) ZoneSet {
	set := NewPrefixZoneSet(len(prefixes)).(*prefixZoneSet)
	for _, p := range prefixes {
		set.Add(p)
	}
	return set
}

func TestNewChecker_MultipleFiles(t *testing.T) {
	loader := &stubLoader{
		sets: map[string]ZoneSet{
			"metro.gz":    buildSet("100", "101"),
			"regional.gz": buildSet("2000"),
		},
	}

	checker, err := NewChecker(context.Background(), CheckerConfig{
		ZoneFiles: []string{"metro.gz", "regional.gz"},
	}, loader, zerolog.Nop())

	require.NoError(t, err)
	assert.True(t, checker.Serviceable("10055"))
	assert.True(t, checker.Serviceable("20001"))
	assert.False(t, checker.Serviceable("90210"))
}

func TestNewChecker_NoZoneFiles(t *testing.T) {
	checker, err := NewChecker(context.Background(), CheckerConfig{}, &stubLoader{}, zerolog.Nop())

	assert.Error(t, err)
	assert.Nil(t, checker)
}

func TestNewChecker_LoadFailure(t *testing.T) {
	loader := &stubLoader{
		sets: map[string]ZoneSet{"metro.gz": buildSet("100")},
		errs: map[string]error{"broken.gz": errors.New("corrupt gzip")},
	}

	checker, err := NewChecker(context.Background(), CheckerConfig{
		ZoneFiles: []string{"metro.gz", "broken.gz"},
	}, loader, zerolog.Nop())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broken.gz")
	assert.Nil(t, checker)
}

func TestChecker_EndToEnd(t *testing.T) {
	path := writeZoneFile(t, "zones.txt.gz", []string{"100", "SW1A"})

	checker, err := NewChecker(context.Background(), CheckerConfig{
		ZoneFiles: []string{path},
	}, NewFileLoader(zerolog.Nop()), zerolog.Nop())

	require.NoError(t, err)
	assert.True(t, checker.Serviceable("10012"))
	assert.True(t, checker.Serviceable("sw1a 2aa"))
	assert.False(t, checker.Serviceable("40000"))
}
