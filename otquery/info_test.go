package otquery

import (
	"errors"
	"testing"

	"github.com/npillmayer/otslice/axis"
	"github.com/npillmayer/otslice/bitflag"
	"github.com/npillmayer/otslice/internal/testfont"
	"github.com/npillmayer/otslice/names"
	"github.com/npillmayer/otslice/sfnt"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	xsfnt "golang.org/x/image/font/sfnt"
)

// --- Test Suite Preparation ------------------------------------------------

type InfoTestEnviron struct {
	suite.Suite
	otf *sfnt.Font
}

// listen for 'go test' command --> run test methods
func TestInfoFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otslice.otquery")
	defer teardown()
	suite.Run(t, new(InfoTestEnviron))
}

// run before each test method; some tests modify the font
func (env *InfoTestEnviron) SetupTest() {
	tracing.Select("otslice.otquery").SetTraceLevel(tracing.LevelError)
	data := testfont.Recursive().Bytes(env.T(), sfnt.Plain)
	otf, err := sfnt.Parse(data)
	env.Require().NoError(err)
	env.otf = otf
	tracing.Select("otslice.otquery").SetTraceLevel(tracing.LevelInfo)
}

// --- Tests -----------------------------------------------------------------

func (env *InfoTestEnviron) TestAxes() {
	descs, err := Axes(env.otf)
	env.Require().NoError(err)
	env.Require().Len(descs, 5)
	tags := make([]axis.Tag, len(descs))
	for i, d := range descs {
		tags[i] = d.Tag
	}
	env.Equal([]axis.Tag{"MONO", "CASL", "wght", "slnt", "CRSV"}, tags, "axes in declared order")
	env.Equal(axis.Descriptor{Tag: "slnt", Min: -15, Default: 0, Max: 0, NameID: 259}, descs[3])
	env.Equal(0.5, descs[4].Default)
	env.True(IsVariable(env.otf))
}

func (env *InfoTestEnviron) TestAxisNames() {
	descs, err := Axes(env.otf)
	env.Require().NoError(err)
	m := AxisNames(env.otf, descs)
	env.Equal("Weight", m["wght"])
	env.Equal("Cursive", m["CRSV"])
}

func (env *InfoTestEnviron) TestNamedInstances() {
	inst, err := NamedInstances(env.otf)
	env.Require().NoError(err)
	env.Require().Len(inst, 2)
	env.Equal(700.0, inst[1].Coordinates["wght"])
	env.Equal(uint16(0xFFFF), inst[1].PostScriptNameID)
	nt, err := NameTableOf(env.otf)
	env.Require().NoError(err)
	s, ok := nt.Preferred(xsfnt.NameID(inst[1].SubfamilyNameID))
	env.True(ok)
	env.Equal("Casual Bold", s)
}

func (env *InfoTestEnviron) TestStaticFont() {
	otf, err := sfnt.Parse(testfont.Static().Bytes(env.T(), sfnt.Plain))
	env.Require().NoError(err)
	descs, err := Axes(otf)
	env.NoError(err)
	env.Empty(descs)
	env.False(IsVariable(otf))
}

func (env *InfoTestEnviron) TestHeadInfo() {
	h, ok := HeadInfo(env.otf)
	env.Require().True(ok, "expected to decode table 'head'")
	env.Equal(uint32(0x5F0F3CF5), h.MagicNumber, "expected OpenType head magic number")
	env.Equal(uint16(1000), h.UnitsPerEm)
	env.Equal(uint16(3), h.MacStyle)
	m, ok := MaxPInfo(env.otf)
	env.Require().True(ok, "expected to decode table 'maxp'")
	env.Equal(uint16(1), m.NumGlyphs)
	o, ok := OS2Info(env.otf)
	env.Require().True(ok, "expected to decode table 'OS/2'")
	env.Equal(uint16(400), o.WeightClass)
}

func (env *InfoTestEnviron) TestFields() {
	v, err := Field(env.otf, bitflag.FsSelection)
	env.Require().NoError(err)
	env.Equal(uint16(353), v)
	env.Require().NoError(SetField(env.otf, bitflag.FsSelection, bitflag.Edit(v, bitflag.Defaults().Selection)))
	v, _ = Field(env.otf, bitflag.FsSelection)
	env.Equal(uint16(0), v)
	o, _ := OS2Info(env.otf)
	env.Equal(uint16(400), o.WeightClass, "other fields untouched")

	env.Require().NoError(SetField(env.otf, bitflag.MacStyle, 1))
	h, _ := HeadInfo(env.otf)
	env.Equal(uint16(1), h.MacStyle)

	_, err = Field(env.otf, bitflag.Field{Table: "OS/2", Name: "fsType"})
	env.Error(err)
	env.Require().NoError(env.otf.RemoveTable(sfnt.TagOS2))
	_, err = Field(env.otf, bitflag.FsSelection)
	env.True(errors.Is(err, sfnt.ErrNoTable))
}

func (env *InfoTestEnviron) TestNameTableEdit() {
	nt, err := NameTableOf(env.otf)
	env.Require().NoError(err)
	s, ok := nt.NameRecord(names.WindowsEnglish(xsfnt.NameIDFamily))
	env.True(ok)
	env.Equal("Recursive Sans Linear Light", s)
	mac := names.Key{Platform: names.PlatformMacintosh, Name: xsfnt.NameIDFamily}
	s, ok = nt.NameRecord(mac)
	env.True(ok)
	env.Equal("Recursive", s)

	entries := names.Entries{
		xsfnt.NameIDFamily:     "Recursive Mono Casual Bold",
		xsfnt.NameIDSubfamily:  "Regular",
		xsfnt.NameIDFull:       "Recursive Mono Casual Bold",
		xsfnt.NameIDPostScript: "Recursive-MonoCasualBold",
		xsfnt.NameIDWWSFamily:  "Recursive Mono",
	}
	_, err = names.Edit(nt, entries)
	env.Require().NoError(err)
	env.Require().NoError(nt.Store(env.otf))

	reread, err := NameTableOf(env.otf)
	env.Require().NoError(err)
	s, _ = reread.NameRecord(names.WindowsEnglish(xsfnt.NameIDFamily))
	env.Equal("Recursive Mono Casual Bold", s)
	s, ok = reread.NameRecord(names.WindowsEnglish(xsfnt.NameIDUniqueIdentifier))
	env.True(ok, "empty mandatory entry is written")
	env.Equal("", s)
	_, ok = reread.NameRecord(names.WindowsEnglish(xsfnt.NameIDTypographicFamily))
	env.False(ok, "empty optional entry is removed")
	s, _ = reread.NameRecord(names.WindowsEnglish(xsfnt.NameIDWWSFamily))
	env.Equal("Recursive Mono", s)
	s, _ = reread.NameRecord(mac)
	env.Equal("Recursive", s, "Macintosh records untouched")
	s, _ = reread.NameRecord(names.WindowsEnglish(xsfnt.NameIDVersion))
	env.Equal("Version 1.085;hotconv 1.0.118", s, "records not edited are preserved")

	keys := reread.Keys()
	env.Equal(names.PlatformMacintosh, keys[0].Platform, "records sorted by platform")
}

func (env *InfoTestEnviron) TestNamesRange() {
	n := 0
	for key, s := range NamesRange(env.otf) {
		env.NotEmpty(s, "key %s", key)
		n++
	}
	// 8 names, 5 axis names, 2 instance names, 1 Macintosh name
	env.Equal(16, n)
}

func (env *InfoTestEnviron) TestBrokenTables() {
	_, err := DecodeNameTable([]byte{0, 0, 0, 5, 0, 6})
	env.Error(err)
	_, err = DecodeNameTable([]byte{0, 7, 0, 0, 0, 6})
	env.Error(err)
	env.otf.SetTable(sfnt.TagFvar, []byte{0, 1, 0, 0, 0, 16, 0, 2, 0, 9, 0, 20, 0, 0, 0, 4})
	_, err = Axes(env.otf)
	env.Error(err, "axis records out of bounds")
	env.False(IsVariable(env.otf))
}
