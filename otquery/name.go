package otquery

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"sort"

	"github.com/npillmayer/otslice/names"
	"github.com/npillmayer/otslice/sfnt"
	xsfnt "golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	nameHeaderSize = 6
	nameRecordSize = 12
	langTagSize    = 4
)

func sfntNameID(id uint16) xsfnt.NameID {
	return xsfnt.NameID(id)
}

type nameRecord struct {
	key  names.Key
	data []byte // encoded string
}

// NameTable is an editable view of OpenType table 'name', format 0 or 1.
// It implements names.Table.
//
// Strings of platforms Unicode and Windows are stored as UTF-16BE, strings of
// platform Macintosh with encoding Roman are stored as MacRoman. Records of other
// encodings are carried along unchanged, but cannot be read or set.
type NameTable struct {
	format   uint16
	records  []nameRecord
	langTags [][]byte
}

var errNameEncoding = errors.New("unsupported name record encoding")

// NameTableOf decodes table 'name' of f.
func NameTableOf(f *sfnt.Font) (*NameTable, error) {
	b := f.Table(sfnt.TagName)
	if b == nil {
		return nil, fmt.Errorf("%w: %s", sfnt.ErrNoTable, sfnt.TagName)
	}
	return DecodeNameTable(b)
}

// DecodeNameTable decodes the raw bytes of a table 'name'.
// Records pointing outside of the string storage are dropped.
func DecodeNameTable(b []byte) (*NameTable, error) {
	if len(b) < nameHeaderSize {
		return nil, errTable(sfnt.TagName, "Header", "table too short: %d", len(b))
	}
	nt := &NameTable{format: u16(b)}
	if nt.format > 1 {
		return nil, errTable(sfnt.TagName, "Header", "unsupported format %d", nt.format)
	}
	count := int(u16(b[2:4]))
	strOff := int(u16(b[4:6]))
	if strOff > len(b) {
		return nil, errTable(sfnt.TagName, "Header", "invalid string offset: %d", strOff)
	}
	recordsEnd := nameHeaderSize + count*nameRecordSize
	if recordsEnd > len(b) {
		return nil, errTable(sfnt.TagName, "NameRecords", "record section out of bounds: count=%d", count)
	}
	storage := b[strOff:]
	for i := 0; i < count; i++ {
		rec := b[nameHeaderSize+i*nameRecordSize:]
		key := names.Key{
			Platform: u16(rec[0:2]),
			Encoding: u16(rec[2:4]),
			Language: u16(rec[4:6]),
			Name:     xsfnt.NameID(u16(rec[6:8])),
		}
		start, end := int(u16(rec[10:12])), int(u16(rec[10:12]))+int(u16(rec[8:10]))
		if end > len(storage) {
			tracer().Infof("name table: dropping record %s, string out of bounds", key)
			continue
		}
		nt.records = append(nt.records, nameRecord{key: key, data: bytes.Clone(storage[start:end])})
	}
	if nt.format == 1 && recordsEnd+2 <= len(b) {
		tagCount := int(u16(b[recordsEnd:]))
		for i := 0; i < tagCount; i++ {
			at := recordsEnd + 2 + i*langTagSize
			if at+langTagSize > len(b) {
				break
			}
			start := int(u16(b[at+2:]))
			end := start + int(u16(b[at:]))
			if end > len(storage) {
				break
			}
			nt.langTags = append(nt.langTags, bytes.Clone(storage[start:end]))
		}
	}
	return nt, nil
}

func (nt *NameTable) find(key names.Key) int {
	for i, r := range nt.records {
		if r.key == key {
			return i
		}
	}
	return -1
}

// NameRecord returns the decoded string of a name record.
func (nt *NameTable) NameRecord(key names.Key) (string, bool) {
	i := nt.find(key)
	if i < 0 {
		return "", false
	}
	s, err := decodeName(key, nt.records[i].data)
	if err != nil {
		return "", false
	}
	return s, true
}

// SetNameRecord creates or overwrites a name record.
func (nt *NameTable) SetNameRecord(key names.Key, value string) error {
	data, err := encodeName(key, value)
	if err != nil {
		return err
	}
	if i := nt.find(key); i >= 0 {
		nt.records[i].data = data
		return nil
	}
	nt.records = append(nt.records, nameRecord{key: key, data: data})
	return nil
}

// RemoveNameRecord deletes a name record. Removing an absent record is not an error.
func (nt *NameTable) RemoveNameRecord(key names.Key) error {
	if i := nt.find(key); i >= 0 {
		nt.records = append(nt.records[:i], nt.records[i+1:]...)
	}
	return nil
}

// Keys returns the keys of all records, in table order.
func (nt *NameTable) Keys() []names.Key {
	keys := make([]names.Key, len(nt.records))
	for i, r := range nt.records {
		keys[i] = r.key
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}

// Preferred looks up a name ID under the identities commonly used by font
// tools: Windows US English first, then any Windows BMP language, then
// Macintosh Roman, then Unicode.
func (nt *NameTable) Preferred(id xsfnt.NameID) (string, bool) {
	if s, ok := nt.NameRecord(names.WindowsEnglish(id)); ok {
		return s, true
	}
	for _, platform := range []uint16{names.PlatformWindows, names.PlatformMacintosh, names.PlatformUnicode} {
		for _, r := range nt.records {
			if r.key.Name != id || r.key.Platform != platform {
				continue
			}
			if s, err := decodeName(r.key, r.data); err == nil {
				return s, true
			}
		}
	}
	return "", false
}

// Encode writes the table. Records are sorted by platform, encoding, language
// and name ID; identical strings share storage.
func (nt *NameTable) Encode() ([]byte, error) {
	recs := make([]nameRecord, len(nt.records))
	copy(recs, nt.records)
	sort.Slice(recs, func(i, j int) bool { return keyLess(recs[i].key, recs[j].key) })
	strOff := nameHeaderSize + len(recs)*nameRecordSize
	if nt.format == 1 {
		strOff += 2 + len(nt.langTags)*langTagSize
	}
	if strOff > 0xFFFF {
		return nil, errTable(sfnt.TagName, "NameRecords", "too many records: %d", len(recs))
	}
	out := make([]byte, strOff)
	var storage []byte
	seen := make(map[string]int)
	put := func(data []byte) (int, error) {
		if at, ok := seen[string(data)]; ok {
			return at, nil
		}
		at := len(storage)
		if at > 0xFFFF || len(data) > 0xFFFF {
			return 0, errTable(sfnt.TagName, "Storage", "string storage exceeds 64K")
		}
		storage = append(storage, data...)
		seen[string(data)] = at
		return at, nil
	}
	putU16(out[0:], nt.format)
	putU16(out[2:], uint16(len(recs)))
	putU16(out[4:], uint16(strOff))
	for i, r := range recs {
		at, err := put(r.data)
		if err != nil {
			return nil, err
		}
		rec := out[nameHeaderSize+i*nameRecordSize:]
		putU16(rec[0:], r.key.Platform)
		putU16(rec[2:], r.key.Encoding)
		putU16(rec[4:], r.key.Language)
		putU16(rec[6:], uint16(r.key.Name))
		putU16(rec[8:], uint16(len(r.data)))
		putU16(rec[10:], uint16(at))
	}
	if nt.format == 1 {
		base := nameHeaderSize + len(recs)*nameRecordSize
		putU16(out[base:], uint16(len(nt.langTags)))
		for i, tag := range nt.langTags {
			at, err := put(tag)
			if err != nil {
				return nil, err
			}
			putU16(out[base+2+i*langTagSize:], uint16(len(tag)))
			putU16(out[base+4+i*langTagSize:], uint16(at))
		}
	}
	return append(out, storage...), nil
}

// Store encodes nt and replaces table 'name' of f.
func (nt *NameTable) Store(f *sfnt.Font) error {
	b, err := nt.Encode()
	if err != nil {
		return err
	}
	f.SetTable(sfnt.TagName, b)
	return nil
}

// NamesRange yields decoded `(key, value)` pairs from a font's OpenType
// `name` table.
//
// Only currently supported encodings are yielded, and empty strings are skipped.
func NamesRange(f *sfnt.Font) iter.Seq2[names.Key, string] {
	nt, err := NameTableOf(f)
	return func(yield func(names.Key, string) bool) {
		if err != nil {
			return
		}
		for _, key := range nt.Keys() {
			s, ok := nt.NameRecord(key)
			if !ok || s == "" {
				continue
			}
			if !yield(key, s) {
				return
			}
		}
	}
}

func keyLess(a, b names.Key) bool {
	if a.Platform != b.Platform {
		return a.Platform < b.Platform
	}
	if a.Encoding != b.Encoding {
		return a.Encoding < b.Encoding
	}
	if a.Language != b.Language {
		return a.Language < b.Language
	}
	return a.Name < b.Name
}

func isUTF16(key names.Key) bool {
	return key.Platform == names.PlatformUnicode || key.Platform == names.PlatformWindows
}

func isMacRoman(key names.Key) bool {
	return key.Platform == names.PlatformMacintosh && key.Encoding == 0
}

func decodeName(key names.Key, str []byte) (string, error) {
	var s []byte
	var err error
	switch {
	case isUTF16(key):
		s, err = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(str)
	case isMacRoman(key):
		s, err = charmap.Macintosh.NewDecoder().Bytes(str)
	default:
		return "", fmt.Errorf("%w: %s", errNameEncoding, key)
	}
	if err != nil {
		return "", fmt.Errorf("decoding %s error: %v", key, err)
	}
	return string(s), nil
}

func encodeName(key names.Key, value string) ([]byte, error) {
	var b []byte
	var err error
	switch {
	case isUTF16(key):
		b, err = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(value))
	case isMacRoman(key):
		b, err = charmap.Macintosh.NewEncoder().Bytes([]byte(value))
	default:
		return nil, fmt.Errorf("%w: %s", errNameEncoding, key)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s error: %v", key, err)
	}
	return b, nil
}

var _ names.Table = (*NameTable)(nil)
