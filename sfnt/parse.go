package sfnt

import (
	"fmt"
	"math"
)

// Parse decodes a font file of any supported flavor.
// The font's Flavor is set to the flavor of data.
func Parse(data []byte, opts ...Option) (*Font, error) {
	flavor, err := DetectFlavor(data)
	if err != nil {
		return nil, err
	}
	var f *Font
	switch flavor {
	case Plain:
		f, err = parsePlain(data)
	case WOFF:
		f, err = parseWOFF(data)
	case WOFF2:
		o := collect(opts)
		if o.woff2 == nil {
			return nil, fmt.Errorf("%w: cannot decode %s", ErrNoCodec, flavor)
		}
		var plain []byte
		if plain, err = o.woff2.DecodeWOFF2(data); err != nil {
			return nil, fmt.Errorf("decoding woff2: %w", err)
		}
		f, err = parsePlain(plain)
	}
	if err != nil {
		return nil, err
	}
	f.Flavor = flavor
	tracer().Debugf("parsed %s font with %d tables", flavor, len(f.tables))
	return f, nil
}

// parsePlain reads the table directory of a plain sfnt file.
// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
func parsePlain(data []byte) (*Font, error) {
	if len(data) < 12 {
		return nil, errFormat(0, "Header", 0, "file too short: %d bytes", len(data))
	}
	version := u32(data)
	if !(version == sigOTTO || version == sigTrueType || version == sigTrue) {
		return nil, errFormat(0, "Header", 0, "font type not supported: %x", version)
	}
	f := New(version)
	count := int(u16(data[4:]))
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	if 12+16*count > len(data) {
		return nil, errFormat(0, "TableRecords", 12, "table count too large: %d", count)
	}
	prevTag := Tag(0)
	for i := 0; i < count; i++ {
		rec := data[12+16*i:]
		tag := MakeTag(rec)
		if tag < prevTag {
			f.warn(tag, "TableRecords", uint32(12+16*i), "table records not sorted")
		}
		prevTag = tag
		off, size := u32(rec[8:12]), u32(rec[12:16])
		if off&3 != 0 { // "all tables must begin on four byte boundries".
			return nil, errFormat(tag, "Offset", off, "invalid table offset")
		}
		end := uint64(off) + uint64(size)
		if end > uint64(len(data)) {
			return nil, errFormat(tag, "Bounds", off, "bounds [%d:%d] exceed font size %d", off, end, len(data))
		}
		if f.HasTable(tag) {
			return nil, errFormat(tag, "TableRecords", off, "duplicate table")
		}
		f.tables[tag] = data[off:end]
	}
	return f, nil
}

// Encode writes f in its own flavor.
func Encode(f *Font, opts ...Option) ([]byte, error) {
	return EncodeAs(f, f.Flavor, opts...)
}

// EncodeAs writes f as a file of a given flavor.
func EncodeAs(f *Font, flavor Flavor, opts ...Option) ([]byte, error) {
	plain, err := encodePlain(f)
	if err != nil {
		return nil, err
	}
	switch flavor {
	case Plain:
		return plain, nil
	case WOFF:
		return encodeWOFF(plain)
	case WOFF2:
		o := collect(opts)
		if o.woff2 == nil {
			return nil, fmt.Errorf("%w: cannot encode %s", ErrNoCodec, flavor)
		}
		return o.woff2.EncodeWOFF2(plain)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedFlavor, flavor)
}

// encodePlain writes the table directory and all tables, 4-byte aligned.
// Table checksums are recomputed, and head.checkSumAdjustment is set so that
// the checksum of the whole file is 0xB1B0AFBA.
func encodePlain(f *Font) ([]byte, error) {
	tags := f.TableTags()
	if len(tags) == 0 {
		return nil, errFormat(0, "TableRecords", 0, "font has no tables")
	}
	if len(tags) > math.MaxUint16 {
		return nil, errFormat(0, "TableRecords", 0, "too many tables: %d", len(tags))
	}
	numTables := uint16(len(tags))
	entrySelector := uint16(0)
	for 1<<(entrySelector+1) <= numTables {
		entrySelector++
	}
	searchRange := uint16(1 << (entrySelector + 4))

	size := 12 + 16*len(tags)
	for _, tag := range tags {
		size += pad4(len(f.tables[tag]))
	}
	buf := make([]byte, 12+16*len(tags), size)
	putU32(buf[0:], f.Version)
	putU16(buf[4:], numTables)
	putU16(buf[6:], searchRange)
	putU16(buf[8:], entrySelector)
	putU16(buf[10:], numTables*16-searchRange)

	headOffset := -1
	for i, tag := range tags {
		data := f.tables[tag]
		offset := len(buf)
		buf = append(buf, data...)
		if tag == TagHead {
			if len(data) < 12 {
				return nil, errFormat(tag, "Header", uint32(offset), "table too short: %d bytes", len(data))
			}
			headOffset = offset
			putU32(buf[offset+8:], 0) // checkSumAdjustment
		}
		for len(buf)&3 != 0 {
			buf = append(buf, 0)
		}
		rec := buf[12+16*i:]
		copy(rec, tag.bytes())
		putU32(rec[4:], checksum(buf[offset:len(buf)]))
		putU32(rec[8:], uint32(offset))
		putU32(rec[12:], uint32(len(data)))
	}
	if headOffset >= 0 {
		putU32(buf[headOffset+8:], 0xB1B0AFBA-checksum(buf))
	}
	return buf, nil
}

// checksum sums up b as a sequence of big-endian uint32s.
// A trailing partial word is padded with zeros.
func checksum(b []byte) uint32 {
	var sum uint32
	for len(b) >= 4 {
		sum += u32(b)
		b = b[4:]
	}
	if len(b) > 0 {
		var tail [4]byte
		copy(tail[:], b)
		sum += u32(tail[:])
	}
	return sum
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

func putU16(b []byte, v uint16) {
	_ = b[1]
	b[0], b[1] = byte(v>>8), byte(v)
}

func putU32(b []byte, v uint32) {
	_ = b[3]
	b[0], b[1], b[2], b[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
}
