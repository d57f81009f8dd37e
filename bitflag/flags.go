package bitflag

import "fmt"

// Flags bundles the settings for both editable fields. The two settings are
// independent of each other.
type Flags struct {
	Selection Settings // OS/2.fsSelection
	Style     Settings // head.macStyle
}

// Bits of OS/2.fsSelection which are offered for editing.
var selectionBits = map[uint]string{
	0: "ITALIC",
	5: "BOLD",
	6: "REGULAR",
	8: "WWS",
}

// Bits of head.macStyle which are offered for editing.
var styleBits = map[uint]string{
	0: "BOLD",
	1: "ITALIC",
}

// Defaults returns settings for all editable bits, each switched off.
func Defaults() Flags {
	f := Flags{Selection: Settings{}, Style: Settings{}}
	for offset := range selectionBits {
		f.Selection[BitName(offset)] = false
	}
	for offset := range styleBits {
		f.Style[BitName(offset)] = false
	}
	return f
}

// Settings returns the settings for field.
func (f Flags) Settings(field Field) (Settings, error) {
	switch field {
	case FsSelection:
		return f.Selection, nil
	case MacStyle:
		return f.Style, nil
	}
	return nil, fmt.Errorf("field %s is not editable", field)
}

// Set switches one editable bit of field on or off.
func (f Flags) Set(field Field, offset uint, on bool) error {
	if _, ok := Label(field, offset); !ok {
		return fmt.Errorf("bit %d of %s is not editable", offset, field)
	}
	s, err := f.Settings(field)
	if err != nil {
		return err
	}
	s[BitName(offset)] = on
	return nil
}

// Validate checks both settings.
func (f Flags) Validate() error {
	if err := f.Selection.Validate(); err != nil {
		return fmt.Errorf("%s: %w", FsSelection, err)
	}
	if err := f.Style.Validate(); err != nil {
		return fmt.Errorf("%s: %w", MacStyle, err)
	}
	return nil
}

// Label returns the name of an editable bit, e.g. "BOLD" for bit 5 of
// OS/2.fsSelection.
func Label(field Field, offset uint) (string, bool) {
	var m map[uint]string
	switch field {
	case FsSelection:
		m = selectionBits
	case MacStyle:
		m = styleBits
	}
	l, ok := m[offset]
	return l, ok
}

// EditableFields returns the fields Flags covers, in editing order.
func EditableFields() []Field {
	return []Field{FsSelection, MacStyle}
}
