package axis

import (
	"strings"

	"github.com/npillmayer/otslice/core"
)

// Setting is the resolved value for one axis of a Request.
type Setting struct {
	Tag   Tag
	Value Value
}

// Request is the axis tag → value mapping handed to the instancer.
// Axes which are not listed remain fully variable. Settings are kept in the
// font's declared axis order.
type Request struct {
	settings []Setting
}

// BuildRequest parses every entry, in the order of descriptors, and collects
// all set values. Empty entries contribute nothing; this is not the same as
// pinning an axis at its default.
//
// The first failing entry aborts the build; no partial request is returned.
// Entries for tags not declared by descriptors are rejected.
func BuildRequest(entries Entries, descriptors []Descriptor) (Request, error) {
	known := make(map[Tag]bool, len(descriptors))
	for _, d := range descriptors {
		known[d.Tag] = true
	}
	for tag, text := range entries {
		if !known[tag] && strings.TrimSpace(text) != "" {
			return Request{}, unknownAxis(tag, text)
		}
	}
	req := Request{settings: make([]Setting, 0, len(descriptors))}
	for _, d := range descriptors {
		v, err := ParseValue(d, entries[d.Tag])
		if err != nil {
			tracer().Debugf("axis entry %s=%q rejected: %v", d.Tag, entries[d.Tag], err)
			return Request{}, err
		}
		if v.IsSet() {
			req.settings = append(req.settings, Setting{Tag: d.Tag, Value: v})
		}
	}
	return req, nil
}

// HasAxes reports whether the request defines at least one axis. A request
// without axes would reproduce the source font and should not be submitted.
func (r Request) HasAxes() bool {
	return len(r.settings) > 0
}

// Validate returns an error with code core.ENOAXES for a request without axes.
func (r Request) Validate() error {
	if !r.HasAxes() {
		return core.WrapError(nil, core.ENOAXES, "Please define at least one axis instance value")
	}
	return nil
}

// Len returns the number of axes set by the request.
func (r Request) Len() int {
	return len(r.settings)
}

// Settings returns the set axes in declared order.
func (r Request) Settings() []Setting {
	s := make([]Setting, len(r.settings))
	copy(s, r.settings)
	return s
}

// Lookup returns the value for tag. For tags not set by the request, the
// Unset value is returned.
func (r Request) Lookup(tag Tag) Value {
	for _, s := range r.settings {
		if s.Tag == tag {
			return s.Value
		}
	}
	return Value{}
}

// Map returns the request as a map.
func (r Request) Map() map[Tag]Value {
	m := make(map[Tag]Value, len(r.settings))
	for _, s := range r.settings {
		m[s.Tag] = s.Value
	}
	return m
}

// Variable returns the tags of descriptors which the request leaves fully
// variable, in declared order.
func (r Request) Variable(descriptors []Descriptor) []Tag {
	var tags []Tag
	for _, d := range descriptors {
		if !r.Lookup(d.Tag).IsSet() {
			tags = append(tags, d.Tag)
		}
	}
	return tags
}

// Args formats the request as instancer arguments, e.g.
// ["wght=300", "slnt=-15:0"].
func (r Request) Args() []string {
	args := make([]string, len(r.settings))
	for i, s := range r.settings {
		args[i] = string(s.Tag) + "=" + s.Value.String()
	}
	return args
}

func (r Request) String() string {
	return "{" + strings.Join(r.Args(), ", ") + "}"
}
