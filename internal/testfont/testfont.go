// Package testfont builds small synthetic variable fonts for tests.
//
// Fonts contain tables 'fvar', 'head', 'maxp', 'name' and 'OS/2' only, i.e.
// no outlines. This is sufficient for all table-level operations of this module.
package testfont

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/npillmayer/otslice/sfnt"
	xsfnt "golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/unicode"
)

// Axis defines a variation axis of a test font.
type Axis struct {
	Tag               string
	Min, Default, Max float64
	Name              string
}

// Instance defines a named instance of a test font.
type Instance struct {
	Subfamily string
	Coords    []float64 // in axis order
}

// Builder collects the properties of a test font.
type Builder struct {
	Axes        []Axis
	Instances   []Instance
	Names       map[xsfnt.NameID]string // written for (3,1,1033)
	MacNames    map[xsfnt.NameID]string // written for (1,0,0)
	FsSelection uint16
	MacStyle    uint16
}

// Recursive returns a builder for a font modeled after the Recursive variable font,
// with axes MONO, CASL, wght, slnt and CRSV.
func Recursive() *Builder {
	return &Builder{
		Axes: []Axis{
			{"MONO", 0, 0, 1, "Monospace"},
			{"CASL", 0, 0, 1, "Casual"},
			{"wght", 300, 300, 1000, "Weight"},
			{"slnt", -15, 0, 0, "Slant"},
			{"CRSV", 0, 0.5, 1, "Cursive"},
		},
		Instances: []Instance{
			{"Linear Light", []float64{0, 0, 300, 0, 0.5}},
			{"Casual Bold", []float64{0, 1, 700, 0, 0.5}},
		},
		Names: map[xsfnt.NameID]string{
			xsfnt.NameIDFamily:               "Recursive Sans Linear Light",
			xsfnt.NameIDSubfamily:            "Regular",
			xsfnt.NameIDUniqueIdentifier:     "1.085;ARRW;Recursive-SansLinearLight",
			xsfnt.NameIDFull:                 "Recursive Sans Linear Light",
			xsfnt.NameIDVersion:              "Version 1.085;hotconv 1.0.118",
			xsfnt.NameIDPostScript:           "Recursive-SansLinearLight",
			xsfnt.NameIDTypographicFamily:    "Recursive",
			xsfnt.NameIDTypographicSubfamily: "Sans Linear Light",
		},
		MacNames: map[xsfnt.NameID]string{
			xsfnt.NameIDFamily: "Recursive",
		},
		FsSelection: 0x0161, // bits 0, 5, 6, 8
		MacStyle:    0x0003,
	}
}

// Static returns a builder for a font without variation axes.
func Static() *Builder {
	b := Recursive()
	b.Axes, b.Instances = nil, nil
	return b
}

// Font assembles the test font.
func (b *Builder) Font() *sfnt.Font {
	f := sfnt.New(0x00010000)
	f.SetTable(sfnt.TagHead, b.head())
	f.SetTable(sfnt.T("maxp"), []byte{0, 0, 0x50, 0, 0, 1})
	f.SetTable(sfnt.TagOS2, b.os2())
	f.SetTable(sfnt.TagName, b.name())
	if len(b.Axes) > 0 {
		f.SetTable(sfnt.TagFvar, b.fvar())
	}
	return f
}

// Bytes encodes the test font as a file of a given flavor.
func (b *Builder) Bytes(t testing.TB, flavor sfnt.Flavor) []byte {
	t.Helper()
	data, err := sfnt.EncodeAs(b.Font(), flavor)
	if err != nil {
		t.Fatalf("cannot encode test font: %v", err)
	}
	return data
}

// WriteFile writes the test font as a plain sfnt file to a temporary directory
// and returns its path.
func (b *Builder) WriteFile(t testing.TB, filename string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), filename)
	flavor := sfnt.Plain
	if filepath.Ext(filename) == ".woff" {
		flavor = sfnt.WOFF
	}
	if err := os.WriteFile(path, b.Bytes(t, flavor), 0o644); err != nil {
		t.Fatalf("cannot write test font: %v", err)
	}
	return path
}

// AxisNameID is the name ID of the i-th axis' name.
func AxisNameID(i int) uint16 {
	return uint16(256 + i)
}

// InstanceNameID is the name ID of the i-th named instance's subfamily name.
func (b *Builder) InstanceNameID(i int) uint16 {
	return uint16(256 + len(b.Axes) + i)
}

// --- Tables ----------------------------------------------------------------

func (b *Builder) head() []byte {
	head := make([]byte, 54)
	put32(head[0:], 0x00010000)
	put32(head[4:], fixed(1.085))
	put32(head[12:], 0x5F0F3CF5)
	put16(head[18:], 1000)
	put16(head[44:], b.MacStyle)
	return head
}

func (b *Builder) os2() []byte {
	os2 := make([]byte, 96)
	put16(os2[0:], 4)
	put16(os2[4:], 400)
	put16(os2[6:], 5)
	put16(os2[62:], b.FsSelection)
	return os2
}

func (b *Builder) fvar() []byte {
	n := len(b.Axes)
	instSize := 4 + 4*n
	out := make([]byte, 16+20*n+instSize*len(b.Instances))
	put16(out[0:], 1)
	put16(out[4:], 16)
	put16(out[6:], 2)
	put16(out[8:], uint16(n))
	put16(out[10:], 20)
	put16(out[12:], uint16(len(b.Instances)))
	put16(out[14:], uint16(instSize))
	for i, a := range b.Axes {
		rec := out[16+20*i:]
		copy(rec, (a.Tag + "    ")[:4])
		put32(rec[4:], fixed(a.Min))
		put32(rec[8:], fixed(a.Default))
		put32(rec[12:], fixed(a.Max))
		put16(rec[18:], AxisNameID(i))
	}
	for i, inst := range b.Instances {
		rec := out[16+20*n+instSize*i:]
		put16(rec[0:], b.InstanceNameID(i))
		for j := 0; j < n && j < len(inst.Coords); j++ {
			put32(rec[4+4*j:], fixed(inst.Coords[j]))
		}
	}
	return out
}

type record struct {
	platform, encoding, language, nameID uint16
	data                                 []byte
}

func (b *Builder) name() []byte {
	var recs []record
	utf16 := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	win := func(id uint16, s string) {
		data, _ := utf16.Bytes([]byte(s))
		recs = append(recs, record{3, 1, 1033, id, data})
	}
	for id, s := range b.Names {
		win(uint16(id), s)
	}
	for i, a := range b.Axes {
		win(AxisNameID(i), a.Name)
	}
	for i, inst := range b.Instances {
		win(b.InstanceNameID(i), inst.Subfamily)
	}
	for id, s := range b.MacNames { // ASCII only
		recs = append(recs, record{1, 0, 0, uint16(id), []byte(s)})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].platform != recs[j].platform {
			return recs[i].platform < recs[j].platform
		}
		return recs[i].nameID < recs[j].nameID
	})
	strOff := 6 + 12*len(recs)
	out := make([]byte, strOff)
	put16(out[2:], uint16(len(recs)))
	put16(out[4:], uint16(strOff))
	var storage []byte
	for i, r := range recs {
		rec := out[6+12*i:]
		put16(rec[0:], r.platform)
		put16(rec[2:], r.encoding)
		put16(rec[4:], r.language)
		put16(rec[6:], r.nameID)
		put16(rec[8:], uint16(len(r.data)))
		put16(rec[10:], uint16(len(storage)))
		storage = append(storage, r.data...)
	}
	return append(out, storage...)
}

func fixed(v float64) uint32 {
	return uint32(int32(math.Round(v * 65536)))
}

func put16(b []byte, v uint16) {
	b[0], b[1] = byte(v>>8), byte(v)
}

func put32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
}
