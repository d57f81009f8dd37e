package fonttools

import (
	"fmt"

	"github.com/npillmayer/otslice/axis"
	"github.com/npillmayer/otslice/bitflag"
	"github.com/npillmayer/otslice/names"
	"github.com/npillmayer/otslice/otquery"
	"github.com/npillmayer/otslice/sfnt"
)

// Font is a font opened by the backend. It implements instance.Font.
//
// Name records are edited in a decoded name table, which is written back to
// the font's tables when the font is encoded.
type Font struct {
	path      string
	name      string // full name, for messages
	otf       *sfnt.Font
	axes      []axis.Descriptor
	axisNames map[axis.Tag]string
	names     *otquery.NameTable
}

func newFont(path string, otf *sfnt.Font) (*Font, error) {
	f := &Font{path: path, otf: otf}
	var err error
	if f.axes, err = otquery.Axes(otf); err != nil {
		return nil, err
	}
	f.axisNames = otquery.AxisNames(otf, f.axes)
	if f.names, err = otquery.NameTableOf(otf); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Font) Path() string { return f.path }

func (f *Font) Flavor() sfnt.Flavor { return f.otf.Flavor }

// Name returns the font's full name.
func (f *Font) Name() string { return f.name }

func (f *Font) HasVariableAxes() bool {
	return len(f.axes) > 0 && otquery.IsVariable(f.otf)
}

// Axes returns the font's axis descriptors in declared order.
func (f *Font) Axes() []axis.Descriptor {
	return f.axes
}

// AxisName returns the axis' display name as declared by the font.
func (f *Font) AxisName(tag axis.Tag) (string, bool) {
	s, ok := f.axisNames[tag]
	return s, ok
}

// AxisNames returns all display names declared by the font.
func (f *Font) AxisNames() map[axis.Tag]string {
	return f.axisNames
}

// NamedInstances returns the named instances of table 'fvar'.
func (f *Font) NamedInstances() ([]otquery.NamedInstance, error) {
	return otquery.NamedInstances(f.otf)
}

// NameTable returns the font's editable name table.
func (f *Font) NameTable() *otquery.NameTable {
	return f.names
}

func (f *Font) NameRecord(key names.Key) (string, bool) {
	return f.names.NameRecord(key)
}

func (f *Font) SetNameRecord(key names.Key, value string) error {
	return f.names.SetNameRecord(key, value)
}

func (f *Font) RemoveNameRecord(key names.Key) error {
	return f.names.RemoveNameRecord(key)
}

func (f *Font) Field(field bitflag.Field) (uint16, error) {
	return otquery.Field(f.otf, field)
}

func (f *Font) SetField(field bitflag.Field, v uint16) error {
	return otquery.SetField(f.otf, field, v)
}

// Tables returns the font's tables with all pending name edits applied.
func (f *Font) Tables() (*sfnt.Font, error) {
	if err := f.names.Store(f.otf); err != nil {
		return nil, fmt.Errorf("encoding name table: %w", err)
	}
	return f.otf, nil
}
