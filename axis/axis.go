package axis

import (
	"fmt"
	"strconv"
)

// Tag is a 4-character design-axis identifier, e.g. "wght".
type Tag string

// Valid reports whether t consists of exactly 4 printable ASCII characters.
func (t Tag) Valid() bool {
	if len(t) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if t[i] < 0x20 || t[i] > 0x7e {
			return false
		}
	}
	return true
}

// Descriptor describes one design axis as declared in a font's 'fvar' table.
// Descriptors are immutable once read from a font.
type Descriptor struct {
	Tag     Tag
	Min     float64
	Default float64
	Max     float64
	NameID  uint16 // name table entry for the axis' display name, 0 if unknown
}

// Validate checks the invariant Min ≤ Default ≤ Max.
func (d Descriptor) Validate() error {
	if !d.Tag.Valid() {
		return fmt.Errorf("invalid axis tag %q", string(d.Tag))
	}
	if !(d.Min <= d.Default && d.Default <= d.Max) {
		return fmt.Errorf("axis %s: inconsistent values (%s, %s) [%s]", d.Tag,
			formatNumber(d.Min), formatNumber(d.Max), formatNumber(d.Default))
	}
	return nil
}

// Contains reports whether v lies within the axis' declared range, inclusive.
func (d Descriptor) Contains(v float64) bool {
	return d.Min <= v && v <= d.Max
}

// Summary formats the descriptor for display as "(min, max) [default]".
func (d Descriptor) Summary() string {
	return fmt.Sprintf("(%s, %s) [%s]", formatNumber(d.Min), formatNumber(d.Max),
		formatNumber(d.Default))
}

func (d Descriptor) String() string {
	return string(d.Tag) + d.Summary()
}

// Entries holds the raw per-axis user text, keyed by axis tag.
// A missing key is equivalent to an empty entry.
type Entries map[Tag]string

// Clone returns a copy of entries.
func (e Entries) Clone() Entries {
	c := make(Entries, len(e))
	for k, v := range e {
		c[k] = v
	}
	return c
}

// formatNumber formats v in the shortest form that parses back to v.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
