package otquery

import (
	"github.com/npillmayer/otslice/axis"
	"github.com/npillmayer/otslice/sfnt"
)

// Table 'fvar': header is 16 bytes
//
//	majorVersion, minorVersion, axesArrayOffset, reserved,
//	axisCount, axisSize, instanceCount, instanceSize
//
// Each VariationAxisRecord is 20 bytes: axisTag, minValue, defaultValue, maxValue
// (Fixed), flags, axisNameID.
const (
	fvarHeaderSize = 16
	fvarAxisSize   = 20
)

// NamedInstance is an InstanceRecord of table 'fvar'.
type NamedInstance struct {
	SubfamilyNameID  uint16
	PostScriptNameID uint16 // 0xFFFF if not present
	Coordinates      map[axis.Tag]float64
}

type fvarHeader struct {
	axesOffset, axisCount, axisSize, instanceCount, instanceSize int
}

func readFvarHeader(b []byte) (fvarHeader, error) {
	var h fvarHeader
	if len(b) < fvarHeaderSize {
		return h, errTable(sfnt.TagFvar, "Header", "table too short: %d bytes", len(b))
	}
	if major := u16(b); major != 1 {
		return h, errTable(sfnt.TagFvar, "Header", "unsupported version %d", major)
	}
	h.axesOffset = int(u16(b[4:]))
	h.axisCount = int(u16(b[8:]))
	h.axisSize = int(u16(b[10:]))
	h.instanceCount = int(u16(b[12:]))
	h.instanceSize = int(u16(b[14:]))
	if h.axisCount > 0 && h.axisSize < fvarAxisSize {
		return h, errTable(sfnt.TagFvar, "Header", "axis record size %d too small", h.axisSize)
	}
	if h.axesOffset+h.axisCount*h.axisSize > len(b) {
		return h, errTable(sfnt.TagFvar, "AxisRecords", "axis records out of bounds: count=%d", h.axisCount)
	}
	return h, nil
}

// IsVariable reports whether f declares at least one variation axis.
func IsVariable(f *sfnt.Font) bool {
	b := f.Table(sfnt.TagFvar)
	if b == nil {
		return false
	}
	h, err := readFvarHeader(b)
	return err == nil && h.axisCount > 0
}

// Axes decodes the axis records of table 'fvar', in declared order.
// A font without table 'fvar' has no axes. Axis records with min > default
// or default > max are rejected.
func Axes(f *sfnt.Font) ([]axis.Descriptor, error) {
	b := f.Table(sfnt.TagFvar)
	if b == nil {
		tracer().Debugf("no fvar table found in font")
		return nil, nil
	}
	h, err := readFvarHeader(b)
	if err != nil {
		return nil, err
	}
	descs := make([]axis.Descriptor, 0, h.axisCount)
	for i := 0; i < h.axisCount; i++ {
		rec := b[h.axesOffset+i*h.axisSize:]
		d := axis.Descriptor{
			Tag:     axis.Tag(rec[0:4]),
			Min:     fixed(rec[4:]),
			Default: fixed(rec[8:]),
			Max:     fixed(rec[12:]),
			NameID:  u16(rec[18:]),
		}
		if err := d.Validate(); err != nil {
			return nil, errTable(sfnt.TagFvar, "AxisRecords", "%v", err)
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// NamedInstances decodes the instance records of table 'fvar'.
func NamedInstances(f *sfnt.Font) ([]NamedInstance, error) {
	descs, err := Axes(f)
	if err != nil || len(descs) == 0 {
		return nil, err
	}
	b := f.Table(sfnt.TagFvar)
	h, _ := readFvarHeader(b)
	minSize := 4 + 4*h.axisCount
	if h.instanceCount > 0 && h.instanceSize < minSize {
		return nil, errTable(sfnt.TagFvar, "InstanceRecords", "instance record size %d too small", h.instanceSize)
	}
	start := h.axesOffset + h.axisCount*h.axisSize
	if start+h.instanceCount*h.instanceSize > len(b) {
		return nil, errTable(sfnt.TagFvar, "InstanceRecords", "instance records out of bounds: count=%d", h.instanceCount)
	}
	instances := make([]NamedInstance, 0, h.instanceCount)
	for i := 0; i < h.instanceCount; i++ {
		rec := b[start+i*h.instanceSize:]
		inst := NamedInstance{
			SubfamilyNameID:  u16(rec),
			PostScriptNameID: 0xFFFF,
			Coordinates:      make(map[axis.Tag]float64, len(descs)),
		}
		for j, d := range descs {
			inst.Coordinates[d.Tag] = fixed(rec[4+4*j:])
		}
		if h.instanceSize >= minSize+2 {
			inst.PostScriptNameID = u16(rec[minSize:])
		}
		instances = append(instances, inst)
	}
	return instances, nil
}

// AxisNames returns the display names of axes, as found in table 'name'
// under each axis' name ID. Axes without a name record are omitted.
func AxisNames(f *sfnt.Font, descs []axis.Descriptor) map[axis.Tag]string {
	m := make(map[axis.Tag]string, len(descs))
	nt, err := NameTableOf(f)
	if err != nil {
		return m
	}
	for _, d := range descs {
		if s, ok := nt.Preferred(sfntNameID(d.NameID)); ok {
			m[d.Tag] = s
		}
	}
	return m
}
