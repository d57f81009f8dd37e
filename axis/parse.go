package axis

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// rangePattern splits a range entry into START, END and an optional bracketed
// DEFAULT. Tokens are checked for being numeric after matching, so that a bad
// number is reported as such and not as a malformed range.
var rangePattern = regexp.MustCompile(`^([^:\[\]]*):([^:\[\]]*?)(?:\[([^\[\]]*)\])?$`)

// ParseValue turns the raw text of one axis entry into a Value.
//
//	""            → Unset
//	"300"         → Pinned(300)
//	"400:100"     → Ranged(100, 400)
//	"100:400 [300]" → Ranged(100, 400), the bracketed default is not applied
//
// Errors carry one of the codes core.EINVALIDVALUE, core.EINVALIDRANGE or
// core.EDEFAULTRANGE and are of type *ValidationError when unwrapped.
func ParseValue(d Descriptor, text string) (Value, error) {
	entry := strings.TrimSpace(text)
	if entry == "" {
		return Value{}, nil
	}
	if !strings.Contains(entry, ":") {
		v, ok := parseNumber(entry)
		if !ok {
			return Value{}, invalidValue(d.Tag, entry)
		}
		return Pin(v), nil
	}
	m := rangePattern.FindStringSubmatch(entry)
	if m == nil {
		return Value{}, invalidRange(d.Tag, entry)
	}
	start, end := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	if start == "" || end == "" {
		return Value{}, invalidRange(d.Tag, entry)
	}
	a, ok := parseNumber(start)
	if !ok {
		return Value{}, invalidValue(d.Tag, start)
	}
	b, ok := parseNumber(end)
	if !ok {
		return Value{}, invalidValue(d.Tag, end)
	}
	if strings.Contains(entry, "[") {
		def := strings.TrimSpace(m[3])
		if def == "" {
			return Value{}, invalidRange(d.Tag, entry)
		}
		if _, ok := parseNumber(def); !ok {
			return Value{}, invalidValue(d.Tag, def)
		}
		tracer().Debugf("axis %s: default marker [%s] ignored", d.Tag, def)
	}
	return newRange(d, a, b, entry)
}

// parseNumber accepts optionally signed decimal numbers. Go's float syntax is
// wider than that (hex floats, "Inf", "NaN", underscores), so those are rejected.
func parseNumber(s string) (float64, bool) {
	if s == "" || strings.ContainsAny(s, "xXpP_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
