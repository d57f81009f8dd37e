package otquery

import (
	"encoding/binary"

	"github.com/npillmayer/otslice/sfnt"
)

// OS2TableInfo is a typed query view over selected fields of table 'OS/2'.
type OS2TableInfo struct {
	Version     uint16
	WeightClass uint16
	WidthClass  uint16
	FsSelection uint16
}

const (
	os2FsSelectionOffset = 62
	os2MinSize           = 64 // up to and including fsSelection
)

// OS2Info decodes table 'OS/2' from raw bytes.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func OS2Info(f *sfnt.Font) (OS2TableInfo, bool) {
	var info OS2TableInfo
	b := f.Table(sfnt.TagOS2)
	if len(b) < os2MinSize {
		return info, false
	}
	info.Version = binary.BigEndian.Uint16(b[0:2])
	info.WeightClass = binary.BigEndian.Uint16(b[4:6])
	info.WidthClass = binary.BigEndian.Uint16(b[6:8])
	info.FsSelection = binary.BigEndian.Uint16(b[62:64])
	return info, true
}
