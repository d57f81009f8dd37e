package sfnt

import (
	"bytes"
	"fmt"
	"sort"
)

// Flavor is the container format of a font file.
type Flavor int

const (
	Plain Flavor = iota // plain sfnt, i.e. TTF or OTF
	WOFF                // WOFF 1.0, zlib-compressed tables
	WOFF2               // WOFF 2.0, Brotli-compressed and transformed tables
)

func (fl Flavor) String() string {
	switch fl {
	case Plain:
		return "sfnt"
	case WOFF:
		return "woff"
	case WOFF2:
		return "woff2"
	}
	return "unknown"
}

// Signatures of font files.
const (
	sigTrueType = 0x00010000
	sigOTTO     = 0x4f54544f // 'OTTO'
	sigTrue     = 0x74727565 // 'true'
	sigWOFF     = 0x774f4646 // 'wOFF'
	sigWOFF2    = 0x774f4632 // 'wOF2'
)

// DetectFlavor inspects the first bytes of a font file.
func DetectFlavor(data []byte) (Flavor, error) {
	if len(data) < 4 {
		return Plain, errFormat(0, "Header", 0, "file too short: %d bytes", len(data))
	}
	switch u32(data) {
	case sigTrueType, sigOTTO, sigTrue:
		return Plain, nil
	case sigWOFF:
		return WOFF, nil
	case sigWOFF2:
		return WOFF2, nil
	}
	return Plain, fmt.Errorf("%w: signature %x", ErrUnsupportedFlavor, u32(data))
}

// Font is a font as a set of raw tables.
//
// Table data returned by Table is owned by the Font. Clients which want to change
// a table create a modified copy and call SetTable.
type Font struct {
	Version  uint32 // sfntVersion, 0x00010000 for TrueType outlines or 'OTTO'
	Flavor   Flavor // container format the font has been decoded from
	tables   map[Tag][]byte
	warnings []FontError
}

// New creates an empty font for a given sfntVersion.
func New(version uint32) *Font {
	return &Font{Version: version, tables: make(map[Tag][]byte)}
}

// Table returns the data of table tag, or nil if the font has no such table.
func (f *Font) Table(tag Tag) []byte {
	if f == nil {
		return nil
	}
	return f.tables[tag]
}

// HasTable reports whether the font contains table tag.
func (f *Font) HasTable(tag Tag) bool {
	_, ok := f.tables[tag]
	return ok
}

// SetTable creates or replaces table tag.
func (f *Font) SetTable(tag Tag, data []byte) {
	if f.tables == nil {
		f.tables = make(map[Tag][]byte)
	}
	f.tables[tag] = data
}

// RemoveTable deletes table tag. It returns ErrNoTable if there is no such table.
func (f *Font) RemoveTable(tag Tag) error {
	if _, ok := f.tables[tag]; !ok {
		return fmt.Errorf("%w: %s", ErrNoTable, tag)
	}
	delete(f.tables, tag)
	return nil
}

// TableTags returns the tags of all tables contained in the font, in ascending order.
func (f *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(f.tables))
	for tag := range f.tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Warnings returns the minor issues found while decoding the font.
func (f *Font) Warnings() []FontError {
	return f.warnings
}

// Clone returns a deep copy of f.
func (f *Font) Clone() *Font {
	c := &Font{Version: f.Version, Flavor: f.Flavor, tables: make(map[Tag][]byte, len(f.tables))}
	for tag, data := range f.tables {
		c.tables[tag] = bytes.Clone(data)
	}
	return c
}

func (f *Font) warn(table Tag, section string, offset uint32, format string, v ...interface{}) {
	w := FontError{
		Table:    table,
		Section:  section,
		Issue:    fmt.Sprintf(format, v...),
		Severity: SeverityMinor,
		Offset:   offset,
	}
	tracer().Infof("font warning: %s", w)
	f.warnings = append(f.warnings, w)
}

// --- Options ---------------------------------------------------------------

// Codec converts between WOFF2 and plain sfnt data.
type Codec interface {
	DecodeWOFF2(data []byte) ([]byte, error)
	EncodeWOFF2(sfnt []byte) ([]byte, error)
}

// Option configures decoding and encoding.
type Option func(*options)

type options struct {
	woff2 Codec
}

// WithWOFF2Codec sets the codec used for WOFF2 files.
func WithWOFF2Codec(c Codec) Option {
	return func(o *options) {
		o.woff2 = c
	}
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
