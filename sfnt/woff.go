package sfnt

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// WOFF 1.0, see https://www.w3.org/TR/WOFF/
//
// The WOFF header is 44 bytes, followed by table directory entries of 20 bytes each:
// tag, offset, compLength, origLength, origChecksum.
// Extended metadata and private data blocks are not carried over.

const (
	woffHeaderSize = 44
	woffEntrySize  = 20
)

func parseWOFF(data []byte) (*Font, error) {
	if len(data) < woffHeaderSize {
		return nil, errFormat(0, "WOFFHeader", 0, "file too short: %d bytes", len(data))
	}
	if int(u32(data[8:])) != len(data) {
		return nil, errFormat(0, "WOFFHeader", 8, "length field %d does not match file size %d",
			u32(data[8:]), len(data))
	}
	f := New(u32(data[4:]))
	count := int(u16(data[12:]))
	totalSfntSize := u32(data[16:])
	if woffHeaderSize+woffEntrySize*count > len(data) {
		return nil, errFormat(0, "WOFFTableDirectory", woffHeaderSize, "table count too large: %d", count)
	}
	if u32(data[28:]) != 0 {
		f.warn(0, "WOFFHeader", 24, "dropping extended metadata")
	}
	for i := 0; i < count; i++ {
		e := data[woffHeaderSize+woffEntrySize*i:]
		tag := MakeTag(e)
		off, compLen, origLen := u32(e[4:]), u32(e[8:]), u32(e[12:])
		end := uint64(off) + uint64(compLen)
		if end > uint64(len(data)) {
			return nil, errFormat(tag, "Bounds", off, "bounds [%d:%d] exceed file size %d", off, end, len(data))
		}
		if compLen > origLen {
			return nil, errFormat(tag, "WOFFTableDirectory", off, "compressed length %d exceeds original length %d",
				compLen, origLen)
		}
		if origLen > totalSfntSize {
			return nil, errFormat(tag, "WOFFTableDirectory", off, "original length %d exceeds totalSfntSize %d",
				origLen, totalSfntSize)
		}
		table := data[off:end]
		if compLen < origLen {
			var err error
			if table, err = inflate(table, origLen); err != nil {
				return nil, errFormat(tag, "Data", off, "cannot decompress table: %v", err)
			}
		}
		if f.HasTable(tag) {
			return nil, errFormat(tag, "WOFFTableDirectory", off, "duplicate table")
		}
		f.tables[tag] = table
	}
	return f, nil
}

func inflate(comp []byte, origLen uint32) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(comp))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	// origLen is untrusted; the buffer grows with the data actually inflated
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(zr, int64(origLen)+1))
	if err != nil {
		return nil, err
	}
	if n != int64(origLen) {
		return nil, fmt.Errorf("decompressed size %d, expected %d", n, origLen)
	}
	return buf.Bytes(), nil
}

func deflate(table []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err = zw.Write(table); err != nil {
		return nil, err
	}
	if err = zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeWOFF wraps an encoded plain sfnt file. Table checksums are taken
// over from the sfnt table directory.
func encodeWOFF(plain []byte) ([]byte, error) {
	count := int(u16(plain[4:]))
	out := make([]byte, woffHeaderSize+woffEntrySize*count)
	putU32(out[0:], sigWOFF)
	putU32(out[4:], u32(plain))
	putU16(out[12:], uint16(count))
	putU32(out[16:], uint32(len(plain))) // totalSfntSize
	putU16(out[20:], 1)                  // majorVersion
	for i := 0; i < count; i++ {
		rec := plain[12+16*i:]
		off, length := u32(rec[8:]), u32(rec[12:])
		table := plain[off : off+length]
		comp, err := deflate(table)
		if err != nil {
			return nil, errFormat(MakeTag(rec), "Data", off, "cannot compress table: %v", err)
		}
		if len(comp) >= len(table) {
			comp = table
		}
		e := out[woffHeaderSize+woffEntrySize*i:]
		copy(e, rec[:4])
		putU32(e[4:], uint32(len(out)))
		putU32(e[8:], uint32(len(comp)))
		putU32(e[12:], length)
		putU32(e[16:], u32(rec[4:])) // origChecksum
		out = append(out, comp...)
		for len(out)&3 != 0 {
			out = append(out, 0)
		}
	}
	putU32(out[8:], uint32(len(out)))
	return out, nil
}
