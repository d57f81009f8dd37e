package otquery

import (
	"encoding/binary"

	"github.com/npillmayer/otslice/sfnt"
)

// MaxPTableInfo is a typed query view over OpenType table 'maxp'.
type MaxPTableInfo struct {
	VersionFixed uint32
	NumGlyphs    uint16
}

const maxpMinSize = 6

// MaxPInfo decodes table 'maxp' directly from raw bytes.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func MaxPInfo(f *sfnt.Font) (MaxPTableInfo, bool) {
	var info MaxPTableInfo
	b := f.Table(sfnt.T("maxp"))
	if len(b) < maxpMinSize {
		return info, false
	}
	info.VersionFixed = binary.BigEndian.Uint32(b[0:4])
	info.NumGlyphs = binary.BigEndian.Uint16(b[4:6])
	return info, true
}
