package otquery

import (
	"bytes"
	"fmt"

	"github.com/npillmayer/otslice/bitflag"
	"github.com/npillmayer/otslice/sfnt"
)

type fieldLocation struct {
	table   sfnt.Tag
	offset  int
	minSize int
}

var fieldLocations = map[bitflag.Field]fieldLocation{
	bitflag.FsSelection: {sfnt.TagOS2, os2FsSelectionOffset, os2MinSize},
	bitflag.MacStyle:    {sfnt.TagHead, headMacStyleOffset, headTableSize},
}

func locate(f *sfnt.Font, field bitflag.Field) (fieldLocation, []byte, error) {
	loc, ok := fieldLocations[field]
	if !ok {
		return loc, nil, fmt.Errorf("unknown bit field %s", field)
	}
	b := f.Table(loc.table)
	if b == nil {
		return loc, nil, fmt.Errorf("%w: %s", sfnt.ErrNoTable, loc.table)
	}
	if len(b) < loc.minSize {
		return loc, nil, errTable(loc.table, field.Name, "table too short: %d bytes", len(b))
	}
	return loc, b, nil
}

// Field reads a 16-bit style field, either OS/2.fsSelection or head.macStyle.
func Field(f *sfnt.Font, field bitflag.Field) (uint16, error) {
	loc, b, err := locate(f, field)
	if err != nil {
		return 0, err
	}
	return u16(b[loc.offset:]), nil
}

// SetField writes a 16-bit style field, either OS/2.fsSelection or head.macStyle.
func SetField(f *sfnt.Font, field bitflag.Field, v uint16) error {
	loc, b, err := locate(f, field)
	if err != nil {
		return err
	}
	b = bytes.Clone(b)
	putU16(b[loc.offset:], v)
	f.SetTable(loc.table, b)
	tracer().Debugf("%s := %016b", field, v)
	return nil
}
