package util

import (
	"sort"
	"strings"
)

// NaturalKey is the decomposition of a version-like string into alternating
// runs of non-digits and digits. Keys always start with a (possibly empty)
// non-digit run, so the run at any given index has the same kind in every
// key and two keys can be compared element-wise.
type NaturalKey []string

// NaturalSortKey splits a string into a NaturalKey. Digit runs are kept as
// strings and compared numerically by NaturalCompare, so arbitrarily long
// version components don't overflow anything.
func NaturalSortKey(s string) NaturalKey {
	var key NaturalKey
	var run strings.Builder
	digits := false
	key = append(key, "") // placeholder leading non-digit run
	for _, r := range s {
		d := r >= '0' && r <= '9'
		if d != digits {
			key[len(key)-1] = run.String()
			run.Reset()
			key = append(key, "")
			digits = d
		}
		run.WriteRune(r)
	}
	key[len(key)-1] = run.String()
	return key
}

// NaturalCompare compares two strings in natural order, returning -1, 0 or 1.
// Digit runs compare as numbers ("0.10" sorts after "0.2"), everything else
// compares lexicographically.
func NaturalCompare(a, b string) int {
	ka, kb := NaturalSortKey(a), NaturalSortKey(b)
	return ka.Compare(kb)
}

// Compare orders two NaturalKeys element-wise with tuple semantics: the
// shorter key sorts first when one is a prefix of the other.
func (k NaturalKey) Compare(other NaturalKey) int {
	for i := 0; i < len(k) && i < len(other); i++ {
		var c int
		if i%2 == 1 {
			c = compareNumeric(k[i], other[i])
		} else {
			c = strings.Compare(k[i], other[i])
		}
		if c != 0 {
			return c
		}
	}
	switch {
	case len(k) < len(other):
		return -1
	case len(k) > len(other):
		return 1
	}
	return 0
}

// compareNumeric compares two runs of ASCII digits by value. Leading zeros
// are ignored, then a longer run is a bigger number and equal-length runs
// compare bytewise.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return strings.Compare(a, b)
}

// NaturalSort sorts a slice of strings in natural order, in place.
func NaturalSort(items []string) {
	sort.SliceStable(items, func(i, j int) bool {
		return NaturalCompare(items[i], items[j]) < 0
	})
}
