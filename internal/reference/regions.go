package reference

import "sort"

// RegionSet is a closed membership list of canonical region codes.
type RegionSet map[string]struct{}

// NewRegionSet builds a set from codes, canonicalizing each one.
func NewRegionSet(codes ...string) RegionSet {
	set := make(RegionSet, len(codes))
	for _, code := range codes {
		c := CanonicalRegionCode(code)
		if c == "" {
			continue
		}
		set[c] = struct{}{}
	}
	return set
}

// DefaultRegionSet is the EU27 + EEA membership set.
func DefaultRegionSet() RegionSet {
	return NewRegionSet(EEARegions()...)
}

// Contains reports whether code is a member after canonicalization.
func (s RegionSet) Contains(code string) bool {
	_, ok := s[CanonicalRegionCode(code)]
	return ok
}

// Len returns the number of members.
func (s RegionSet) Len() int {
	return len(s)
}

// Codes returns the members in sorted order.
func (s RegionSet) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
