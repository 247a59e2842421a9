package territory

import "strings"

// prefixZoneSet implements ZoneSet over a map of prefixes bucketed by length.
// A postal code is covered when any of its leading substrings appears in
// the set. Prefix lengths are tracked so lookup cost is bounded by the
// number of distinct prefix lengths, not the code length.
type prefixZoneSet struct {
	prefixes map[string]struct{}
	lengths  []int
}

// NewPrefixZoneSet creates an empty zone set with the given capacity hint.
func NewPrefixZoneSet(capacity int) ZoneSet {
	return &prefixZoneSet{
		prefixes: make(map[string]struct{}, capacity),
	}
}

// Add inserts a zone prefix. Whitespace is trimmed and the prefix is
// upper-cased so lookups are case-insensitive.
func (s *prefixZoneSet) Add(prefix string) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return
	}

	if _, exists := s.prefixes[prefix]; !exists {
		s.prefixes[prefix] = struct{}{}
		s.recordLength(len(prefix))
	}
}

// Covers checks whether the postal code matches any zone prefix.
func (s *prefixZoneSet) Covers(postalCode string) bool {
	code := strings.ToUpper(strings.TrimSpace(postalCode))
	if code == "" {
		return false
	}

	for _, n := range s.lengths {
		if n > len(code) {
			continue
		}
		if _, ok := s.prefixes[code[:n]]; ok {
			return true
		}
	}
	return false
}

// Size returns the number of zone prefixes in the set.
func (s *prefixZoneSet) Size() int {
	return len(s.prefixes)
}

func (s *prefixZoneSet) recordLength(n int) {
	for _, existing := range s.lengths {
		if existing == n {
			return
		}
	}
	s.lengths = append(s.lengths, n)
}
