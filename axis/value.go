package axis

// Kind classifies the resolved outcome for one axis.
type Kind int

const (
	Unset  Kind = iota // axis remains variable
	Pinned             // axis collapses to a single value
	Ranged             // axis remains variable, restricted to [lo, hi]
)

func (k Kind) String() string {
	switch k {
	case Unset:
		return "unset"
	case Pinned:
		return "pinned"
	case Ranged:
		return "ranged"
	}
	return "unknown"
}

// Value is the resolved instance value for one axis.
// The zero value is Unset.
type Value struct {
	kind   Kind
	lo, hi float64
}

// Pin returns a value which pins an axis to v.
func Pin(v float64) Value {
	return Value{kind: Pinned, lo: v, hi: v}
}

// NewRange returns a sub-space value for axis d. The endpoints may be given in
// either order. The axis' default must lie in the resulting range (inclusive),
// otherwise an error with code core.EDEFAULTRANGE is returned.
func NewRange(d Descriptor, a, b float64) (Value, error) {
	return newRange(d, a, b, formatNumber(a)+":"+formatNumber(b))
}

func newRange(d Descriptor, a, b float64, text string) (Value, error) {
	lo, hi := a, b
	if hi < lo {
		lo, hi = hi, lo
	}
	if d.Default < lo || d.Default > hi {
		return Value{}, defaultNotInRange(d.Tag, text, lo, hi, d.Default)
	}
	return Value{kind: Ranged, lo: lo, hi: hi}, nil
}

// Kind returns the kind of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsSet reports whether v is not Unset.
func (v Value) IsSet() bool {
	return v.kind != Unset
}

// Pinned returns the pinned location, if v is Pinned.
func (v Value) Pinned() (float64, bool) {
	return v.lo, v.kind == Pinned
}

// Range returns the sub-space bounds, if v is Ranged.
func (v Value) Range() (lo, hi float64, ok bool) {
	return v.lo, v.hi, v.kind == Ranged
}

// String formats v in the instancer's command-line syntax: "300" for a pinned
// value, "100:400" for a range, "" for Unset.
func (v Value) String() string {
	switch v.kind {
	case Pinned:
		return formatNumber(v.lo)
	case Ranged:
		return formatNumber(v.lo) + ":" + formatNumber(v.hi)
	}
	return ""
}
