package otslice

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/npillmayer/otslice/axis"
	"github.com/npillmayer/otslice/bitflag"
	"github.com/npillmayer/otslice/core"
	"github.com/npillmayer/otslice/fonttools"
	"github.com/npillmayer/otslice/instance"
	"github.com/npillmayer/otslice/names"
	"github.com/npillmayer/otslice/otquery"
	"github.com/npillmayer/otslice/sfnt"
	xsfnt "golang.org/x/image/font/sfnt"
)

// Session is an editing session for a single variable font.
//
// Loading a font resets all edits. Edits are read once per call to Generate;
// a session may be used to generate any number of instances.
type Session struct {
	backend   *fonttools.Backend
	font      *fonttools.Font
	axes      []axis.Descriptor
	registry  axis.Registry
	instances []NamedInstance
	family    string
	version   string

	axisEntries axis.Entries
	nameEntries names.Entries
	flags       bitflag.Flags

	OnTransition func(instance.Transition) // handed to each pipeline, may be nil
}

// NamedInstance is a named instance declared by the font, e.g. "Casual Bold".
type NamedInstance struct {
	Name        string
	Coordinates map[axis.Tag]float64
}

// FontInfo holds selected header values of the loaded font. Style bits are
// given as stored in the font, before any editing.
type FontInfo struct {
	Revision    float64
	UnitsPerEm  uint16
	NumGlyphs   uint16
	WeightClass uint16
	WidthClass  uint16
	FsSelection uint16
	MacStyle    uint16
}

// NameRecord is a single decoded record of the font's name table.
type NameRecord struct {
	Key  names.Key
	Text string
}

// NewSession creates a session without a font.
func NewSession(backend *fonttools.Backend) *Session {
	return &Session{
		backend:     backend,
		axisEntries: axis.Entries{},
		nameEntries: names.Entries{},
		flags:       bitflag.Defaults(),
	}
}

// Load opens the font at path and resets all edits. Name entries for
// mandatory name IDs are pre-filled from the font's Windows English records,
// optional entries start out empty. All bit settings start out switched off.
//
// Loading a font without variation axes is not an error: the session reports
// no axes, and Generate will fail with code core.ENOTVARIABLE.
func (s *Session) Load(ctx context.Context, path string) error {
	f, err := s.backend.OpenFont(ctx, path)
	if err != nil {
		return core.WrapError(err, core.EINSTANTIATE, "cannot open font %s", filepath.Base(path))
	}
	inst, err := f.NamedInstances()
	if err != nil {
		tracer().Infof("ignoring named instances of %s: %v", path, err)
	}
	s.font = f
	s.axes = f.Axes()
	s.registry = axis.NewRegistry(f.AxisNames())
	s.axisEntries = axis.Entries{}
	s.nameEntries = names.Entries{}
	s.flags = bitflag.Defaults()
	for _, id := range names.Mandatory {
		if text, ok := f.NameRecord(names.WindowsEnglish(id)); ok {
			s.nameEntries[id] = text
		}
	}
	s.family, _ = f.NameRecord(names.WindowsEnglish(xsfnt.NameIDFamily))
	s.version, _ = f.NameRecord(names.WindowsEnglish(xsfnt.NameIDVersion))
	if i := strings.IndexByte(s.version, ';'); i >= 0 {
		s.version = s.version[:i]
	}
	s.instances = nil
	for _, ni := range inst {
		name, _ := f.NameTable().Preferred(xsfnt.NameID(ni.SubfamilyNameID))
		s.instances = append(s.instances, NamedInstance{Name: name, Coordinates: ni.Coordinates})
	}
	tracer().Infof("%s", s.Status())
	return nil
}

// Loaded reports whether a font has been loaded.
func (s *Session) Loaded() bool {
	return s.font != nil
}

// Path returns the path of the loaded font.
func (s *Session) Path() string {
	if s.font == nil {
		return ""
	}
	return s.font.Path()
}

// Status returns a one-line description of the loaded font, e.g.
// "Recursive Sans Linear Light Version 1.085 loaded (5 axes)".
func (s *Session) Status() string {
	if s.font == nil {
		return "no font loaded"
	}
	return fmt.Sprintf("%s %s loaded (%d axes)", s.family, s.version, len(s.axes))
}

// Info reads header values from tables 'head', 'OS/2' and 'maxp' of the
// loaded font.
func (s *Session) Info() (FontInfo, error) {
	var info FontInfo
	if s.font == nil {
		return info, core.WrapError(nil, core.EINTERNAL, "No font loaded")
	}
	otf, err := s.font.Tables()
	if err != nil {
		return info, err
	}
	head, ok := otquery.HeadInfo(otf)
	if !ok {
		return info, fmt.Errorf("table 'head': %w", sfnt.ErrNoTable)
	}
	os2, ok := otquery.OS2Info(otf)
	if !ok {
		return info, fmt.Errorf("table 'OS/2': %w", sfnt.ErrNoTable)
	}
	info.Revision, info.UnitsPerEm, info.MacStyle = head.FontRevision, head.UnitsPerEm, head.MacStyle
	info.WeightClass, info.WidthClass, info.FsSelection = os2.WeightClass, os2.WidthClass, os2.FsSelection
	if maxp, ok := otquery.MaxPInfo(otf); ok {
		info.NumGlyphs = maxp.NumGlyphs
	}
	return info, nil
}

// NameRecords lists all non-empty records of the loaded font's name table,
// sorted by platform, encoding, language and name ID.
func (s *Session) NameRecords() ([]NameRecord, error) {
	if s.font == nil {
		return nil, core.WrapError(nil, core.EINTERNAL, "No font loaded")
	}
	otf, err := s.font.Tables()
	if err != nil {
		return nil, err
	}
	var recs []NameRecord
	for key, text := range otquery.NamesRange(otf) {
		recs = append(recs, NameRecord{Key: key, Text: text})
	}
	return recs, nil
}

// Axes returns the axis descriptors of the loaded font.
func (s *Session) Axes() []axis.Descriptor {
	return s.axes
}

// AxisLabel returns a display name for an axis tag.
func (s *Session) AxisLabel(tag axis.Tag) string {
	return s.registry.Label(tag)
}

// NamedInstances returns the named instances of the loaded font.
func (s *Session) NamedInstances() []NamedInstance {
	return s.instances
}

// AxisEntries returns a copy of the current axis entries.
func (s *Session) AxisEntries() axis.Entries {
	return s.axisEntries.Clone()
}

// NameEntries returns a copy of the current name entries.
func (s *Session) NameEntries() names.Entries {
	return s.nameEntries.Clone()
}

// Flags returns the current bit settings.
func (s *Session) Flags() bitflag.Flags {
	return s.flags
}

// SetAxis sets the entry text for an axis. The text is checked when the
// request is built; an empty text leaves the axis variable.
func (s *Session) SetAxis(tag axis.Tag, text string) error {
	if _, ok := s.descriptor(tag); !ok {
		return core.WrapError(nil, core.EUNKNOWNAXIS, "Font has no axis %q", tag)
	}
	s.axisEntries[tag] = text
	return nil
}

// UseNamedInstance replaces all axis entries by the coordinates of the i-th
// named instance.
func (s *Session) UseNamedInstance(i int) error {
	if i < 0 || i >= len(s.instances) {
		return fmt.Errorf("no named instance #%d", i)
	}
	s.axisEntries = axis.Entries{}
	for _, d := range s.axes {
		if v, ok := s.instances[i].Coordinates[d.Tag]; ok {
			s.axisEntries[d.Tag] = axis.Pin(v).String()
		}
	}
	tracer().Debugf("axis entries from named instance %q: %v", s.instances[i].Name, s.axisEntries)
	return nil
}

// SetName sets the text of an editable name record.
func (s *Session) SetName(id xsfnt.NameID, text string) error {
	if !names.IsEditable(id) {
		return core.WrapError(nil, core.EINVALIDVALUE, "Name ID %d cannot be edited", id)
	}
	s.nameEntries[id] = text
	return nil
}

// SetBit switches an editable bit of field on or off.
func (s *Session) SetBit(field bitflag.Field, offset uint, on bool) error {
	if err := s.flags.Set(field, offset, on); err != nil {
		return core.WrapError(err, core.EINVALIDVALUE, "Bit %d of %s cannot be edited", offset, field)
	}
	return nil
}

// Request builds the axis request from the current entries. A request which
// leaves every axis variable is rejected with code core.ENOAXES, a font
// without axes with code core.ENOTVARIABLE.
func (s *Session) Request() (axis.Request, error) {
	if s.font == nil {
		return axis.Request{}, core.WrapError(nil, core.EINTERNAL, "No font loaded")
	}
	if len(s.axes) == 0 {
		return axis.Request{}, core.WrapError(nil, core.ENOTVARIABLE,
			"%s is not a variable font", filepath.Base(s.font.Path()))
	}
	req, err := axis.BuildRequest(s.axisEntries, s.axes)
	if err != nil {
		return axis.Request{}, err
	}
	if err := req.Validate(); err != nil {
		return axis.Request{}, err
	}
	return req, nil
}

// Validate checks all edits without generating anything.
func (s *Session) Validate() error {
	if _, err := s.Request(); err != nil {
		return err
	}
	if err := s.nameEntries.Validate(); err != nil {
		return core.WrapError(err, core.EINVALIDVALUE, "Invalid name entry")
	}
	if err := s.flags.Validate(); err != nil {
		return core.WrapError(err, core.EINVALIDVALUE, "Invalid bit setting")
	}
	return nil
}

// Generate writes an instance of the loaded font to outPath and returns its
// absolute path. Nothing is written if any edit is invalid.
func (s *Session) Generate(ctx context.Context, outPath string) (string, error) {
	src, job, err := s.prepare()
	if err != nil {
		return "", err
	}
	return s.pipeline().Run(ctx, outPath, src, job)
}

// GenerateAsync is Generate running in the background. The channel delivers a
// single outcome.
func (s *Session) GenerateAsync(ctx context.Context, outPath string) <-chan instance.Outcome {
	src, job, err := s.prepare()
	if err != nil {
		ch := make(chan instance.Outcome, 1)
		ch <- instance.Outcome{Err: err}
		close(ch)
		return ch
	}
	return s.pipeline().Start(ctx, outPath, src, job)
}

// SuggestedOutput returns an output path next to the loaded font, named after
// the PostScript name entry and keeping the font's file extension.
func (s *Session) SuggestedOutput() string {
	if s.font == nil {
		return ""
	}
	dir, base := filepath.Split(s.font.Path())
	ext := filepath.Ext(base)
	name := strings.TrimSpace(s.nameEntries[xsfnt.NameIDPostScript])
	if name == "" {
		name = strings.TrimSuffix(base, ext) + "-instance"
	}
	return filepath.Join(dir, name+ext)
}

func (s *Session) prepare() (instance.Source, instance.Job, error) {
	if err := s.Validate(); err != nil {
		return instance.Source{}, instance.Job{}, err
	}
	src := instance.Source{Path: s.font.Path(), Axes: s.axes}
	job := instance.Job{
		Axes:  s.axisEntries.Clone(),
		Names: s.nameEntries.Clone(),
		Flags: bitflag.Flags{
			Selection: s.flags.Selection.Clone(),
			Style:     s.flags.Style.Clone(),
		},
	}
	return src, job, nil
}

func (s *Session) pipeline() *instance.Pipeline {
	p := instance.NewPipeline(s.backend)
	p.OnTransition = s.OnTransition
	return p
}

func (s *Session) descriptor(tag axis.Tag) (axis.Descriptor, bool) {
	for _, d := range s.axes {
		if d.Tag == tag {
			return d, true
		}
	}
	return axis.Descriptor{}, false
}
