package axis

// Axis tags registered by the OpenType specification.
// See https://learn.microsoft.com/en-us/typography/opentype/spec/dvaraxisreg
var registeredAxes = map[Tag]string{
	"ital": "Italic",
	"opsz": "Optical size",
	"slnt": "Slant",
	"wdth": "Width",
	"wght": "Weight",
}

// Unregistered axis tags in common use, e.g. by Recursive and Fraunces.
var knownUnregisteredAxes = map[Tag]string{
	"CASL": "Casual",
	"CRSV": "Cursive",
	"XPRN": "Expression",
	"GRAD": "Grade",
	"MONO": "Monospace",
	"SOFT": "Softness",
	"WONK": "Wonky",
}

// IsRegistered reports whether tag is one of the registered design axes.
func IsRegistered(tag Tag) bool {
	_, ok := registeredAxes[tag]
	return ok
}

// Registry resolves human-readable axis names for display. It has no influence
// on instantiation.
//
// Lookup order is: registered axes, known unregistered axes, names declared by
// the font itself.
type Registry struct {
	declared map[Tag]string
}

// NewRegistry creates a registry with a font's own axis names as fallback.
// fontNames may be nil.
func NewRegistry(fontNames map[Tag]string) Registry {
	declared := make(map[Tag]string, len(fontNames))
	for tag, name := range fontNames {
		if name != "" {
			declared[tag] = name
		}
	}
	return Registry{declared: declared}
}

// Name returns the display name for tag, if any.
func (r Registry) Name(tag Tag) (string, bool) {
	if name, ok := registeredAxes[tag]; ok {
		return name, true
	}
	if name, ok := knownUnregisteredAxes[tag]; ok {
		return name, true
	}
	name, ok := r.declared[tag]
	return name, ok
}

// Label returns the display name for tag, or the tag itself if no name is known.
func (r Registry) Label(tag Tag) string {
	if name, ok := r.Name(tag); ok {
		return name
	}
	return string(tag)
}
