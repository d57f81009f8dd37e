package otquery

import (
	"encoding/binary"

	"github.com/npillmayer/otslice/sfnt"
)

// HeadTableInfo is a typed query view over OpenType table 'head'.
// Values are decoded directly from the raw table bytes.
type HeadTableInfo struct {
	MajorVersion       uint16
	MinorVersion       uint16
	FontRevision       float64
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	MacStyle           uint16
	IndexToLocFormat   int16
}

const (
	headTableSize      = 54
	headMacStyleOffset = 44
)

// HeadInfo decodes table 'head' from raw bytes.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func HeadInfo(f *sfnt.Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	b := f.Table(sfnt.TagHead)
	if len(b) < headTableSize {
		return info, false
	}
	info.MajorVersion = binary.BigEndian.Uint16(b[0:2])
	info.MinorVersion = binary.BigEndian.Uint16(b[2:4])
	info.FontRevision = fixed(b[4:8])
	info.CheckSumAdjustment = binary.BigEndian.Uint32(b[8:12])
	info.MagicNumber = binary.BigEndian.Uint32(b[12:16])
	info.Flags = binary.BigEndian.Uint16(b[16:18])
	info.UnitsPerEm = binary.BigEndian.Uint16(b[18:20])
	info.MacStyle = binary.BigEndian.Uint16(b[44:46])
	info.IndexToLocFormat = int16(binary.BigEndian.Uint16(b[50:52]))
	return info, true
}
