package instance

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/otslice/axis"
	"github.com/npillmayer/otslice/bitflag"
	"github.com/npillmayer/otslice/core"
	"github.com/npillmayer/otslice/names"
	"github.com/npillmayer/otslice/sfnt"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xsfnt "golang.org/x/image/font/sfnt"
)

// --- Spy collaborator ------------------------------------------------------

type spyFont struct {
	path    string
	axes    []axis.Descriptor
	records map[names.Key]string
	fields  map[bitflag.Field]uint16
	nameErr error
}

func (f *spyFont) Path() string { return f.path }
func (f *spyFont) Flavor() sfnt.Flavor { return sfnt.WOFF }
func (f *spyFont) HasVariableAxes() bool { return len(f.axes) > 0 }
func (f *spyFont) Axes() []axis.Descriptor { return f.axes }
func (f *spyFont) AxisName(tag axis.Tag) (string, bool) {
	return axis.NewRegistry(nil).Name(tag)
}

func (f *spyFont) NameRecord(key names.Key) (string, bool) {
	s, ok := f.records[key]
	return s, ok
}

func (f *spyFont) SetNameRecord(key names.Key, value string) error {
	if f.nameErr != nil {
		return f.nameErr
	}
	f.records[key] = value
	return nil
}

func (f *spyFont) RemoveNameRecord(key names.Key) error {
	delete(f.records, key)
	return nil
}

func (f *spyFont) Field(field bitflag.Field) (uint16, error) {
	return f.fields[field], nil
}

func (f *spyFont) SetField(field bitflag.Field, v uint16) error {
	f.fields[field] = v
	return nil
}

type spyCollab struct {
	font      *spyFont
	calls     []string
	request   axis.Request
	openErr   error
	instErr   error
	saveErr   error
	ctxErrors []error
}

func newSpy() *spyCollab {
	return &spyCollab{font: &spyFont{
		axes: recursiveAxes(),
		records: map[names.Key]string{
			names.WindowsEnglish(xsfnt.NameIDTypographicFamily): "Recursive",
			names.WindowsEnglish(xsfnt.NameIDFamily):            "Recursive Sans Linear Light",
		},
		fields: map[bitflag.Field]uint16{
			bitflag.FsSelection: 353,
			bitflag.MacStyle:    3,
		},
	}}
}

func (c *spyCollab) Open(ctx context.Context, path string) (Font, error) {
	c.calls = append(c.calls, "Open")
	c.ctxErrors = append(c.ctxErrors, ctx.Err())
	if c.openErr != nil {
		return nil, c.openErr
	}
	c.font.path = path
	return c.font, nil
}

func (c *spyCollab) Instantiate(ctx context.Context, f Font, req axis.Request) (Font, error) {
	c.calls = append(c.calls, "Instantiate")
	c.ctxErrors = append(c.ctxErrors, ctx.Err())
	c.request = req
	if c.instErr != nil {
		return nil, c.instErr
	}
	return f, nil
}

func (c *spyCollab) Save(ctx context.Context, f Font, path string) error {
	c.calls = append(c.calls, "Save")
	c.ctxErrors = append(c.ctxErrors, ctx.Err())
	// write something in any case, to check that partial output is removed
	if err := os.WriteFile(path, []byte("wOFF partial"), 0o600); err != nil {
		return err
	}
	return c.saveErr
}

// --- Helpers ---------------------------------------------------------------

// Axes of the Recursive variable font.
func recursiveAxes() []axis.Descriptor {
	return []axis.Descriptor{
		{Tag: "MONO", Min: 0, Default: 0, Max: 1},
		{Tag: "CASL", Min: 0, Default: 0, Max: 1},
		{Tag: "wght", Min: 300, Default: 300, Max: 1000},
		{Tag: "slnt", Min: -15, Default: 0, Max: 0},
		{Tag: "CRSV", Min: 0, Default: 0.5, Max: 1},
	}
}

func recursiveJob() Job {
	return Job{
		Axes: axis.Entries{"MONO": "", "CASL": "", "wght": "300", "slnt": "0", "CRSV": "0.5"},
		Names: names.Entries{
			xsfnt.NameIDFamily:           "Recursive Sans Linear Light",
			xsfnt.NameIDSubfamily:        "Regular",
			xsfnt.NameIDUniqueIdentifier: "1.085;ARRW;Recursive-SansLinearLight",
			xsfnt.NameIDFull:             "Recursive Sans Linear Light",
			xsfnt.NameIDPostScript:       "Recursive-SansLinearLight",
		},
		Flags: bitflag.Defaults(),
	}
}

func source() Source {
	return Source{Path: "Recursive_VF_1.085.woff", Axes: recursiveAxes()}
}

func assertNoFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		t.Errorf("unexpected file left in output directory: %s", e.Name())
	}
}

// --- Tests -----------------------------------------------------------------

func TestRecursiveInstance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otslice.instance")
	defer teardown()
	tracing.Select("otslice.instance").SetTraceLevel(tracing.LevelDebug)
	//
	spy := newSpy()
	out := filepath.Join(t.TempDir(), "Recursive-SansLinearLight.woff")
	p := NewPipeline(spy)
	var states []State
	p.OnTransition = func(tr Transition) {
		require.NoError(t, tr.Err)
		states = append(states, tr.To)
	}
	path, err := p.Run(context.Background(), out, source(), recursiveJob())
	require.NoError(t, err)
	assert.Equal(t, out, path)
	assert.Equal(t, []State{Loaded, Instantiated, NamesEdited, FlagsEdited, Saved}, states)
	assert.Equal(t, Saved, p.State())
	assert.Equal(t, []string{"Open", "Instantiate", "Save"}, spy.calls)

	want := map[axis.Tag]axis.Value{"wght": axis.Pin(300), "slnt": axis.Pin(0), "CRSV": axis.Pin(0.5)}
	if diff := cmp.Diff(want, spy.request.Map(), cmp.AllowUnexported(axis.Value{})); diff != "" {
		t.Errorf("instance request mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []axis.Tag{"MONO", "CASL"}, spy.request.Variable(recursiveAxes()))

	_, ok := spy.font.NameRecord(names.WindowsEnglish(xsfnt.NameIDTypographicFamily))
	assert.False(t, ok, "empty optional name is removed")
	s, _ := spy.font.NameRecord(names.WindowsEnglish(xsfnt.NameIDPostScript))
	assert.Equal(t, "Recursive-SansLinearLight", s)
	assert.Equal(t, uint16(0), spy.font.fields[bitflag.FsSelection])
	assert.Equal(t, uint16(0), spy.font.fields[bitflag.MacStyle])

	fi, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())
	entries, _ := os.ReadDir(filepath.Dir(out))
	assert.Len(t, entries, 1, "no temporary files left")
}

func TestBogusValueNeverReachesCollaborator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otslice.instance")
	defer teardown()
	//
	spy := newSpy()
	dir := t.TempDir()
	job := recursiveJob()
	job.Axes["wght"] = "BOGUSVALUE"
	_, err := Run(context.Background(), spy, filepath.Join(dir, "out.woff"), source(), job)
	require.Error(t, err)
	assert.Equal(t, core.EINVALIDVALUE, core.Code(err))
	var verr *axis.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, axis.Tag("wght"), verr.Tag)
	assert.Empty(t, spy.calls, "collaborator must not be called")
	assert.Equal(t, uint16(353), spy.font.fields[bitflag.FsSelection], "font untouched")
	assertNoFiles(t, dir)
}

func TestDefaultNotInRangeLeavesFontUntouched(t *testing.T) {
	spy := newSpy()
	dir := t.TempDir()
	job := recursiveJob()
	job.Axes["wght"] = "400:1000"
	p := NewPipeline(spy)
	_, err := p.Run(context.Background(), filepath.Join(dir, "out.woff"), source(), job)
	assert.Equal(t, core.EDEFAULTRANGE, core.Code(err))
	assert.Equal(t, Failed, p.State())
	assert.Empty(t, spy.calls)
	s, _ := spy.font.NameRecord(names.WindowsEnglish(xsfnt.NameIDTypographicFamily))
	assert.Equal(t, "Recursive", s)
	assertNoFiles(t, dir)
}

func TestValidationAfterOpenWithoutCachedAxes(t *testing.T) {
	spy := newSpy()
	job := recursiveJob()
	job.Axes["slnt"] = "-20:-10"
	src := source()
	src.Axes = nil
	_, err := Run(context.Background(), spy, filepath.Join(t.TempDir(), "out.woff"), src, job)
	assert.Equal(t, core.EDEFAULTRANGE, core.Code(err))
	assert.Equal(t, []string{"Open"}, spy.calls, "no instantiation after failed validation")
}

func TestNotAVariableFont(t *testing.T) {
	spy := newSpy()
	spy.font.axes = nil
	src := source()
	src.Axes = nil
	job := recursiveJob()
	job.Axes = axis.Entries{}
	_, err := Run(context.Background(), spy, filepath.Join(t.TempDir(), "out.ttf"), src, job)
	assert.Equal(t, core.ENOTVARIABLE, core.Code(err))
	assert.Equal(t, []string{"Open"}, spy.calls)
}

func TestFailuresLeaveNoOutput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otslice.instance")
	defer teardown()
	//
	cause := errors.New("collaborator exploded")
	for _, tc := range []struct {
		name  string
		setup func(*spyCollab)
		code  int
		state State
	}{
		{"open", func(c *spyCollab) { c.openErr = cause }, core.EINSTANTIATE, Idle},
		{"instantiate", func(c *spyCollab) { c.instErr = cause }, core.EINSTANTIATE, Loaded},
		{"names", func(c *spyCollab) { c.font.nameErr = cause }, core.ENAMEEDIT, Instantiated},
		{"save", func(c *spyCollab) { c.saveErr = cause }, core.EPERSIST, FlagsEdited},
	} {
		t.Run(tc.name, func(t *testing.T) {
			spy := newSpy()
			tc.setup(spy)
			dir := t.TempDir()
			p := NewPipeline(spy)
			var last Transition
			p.OnTransition = func(tr Transition) { last = tr }
			_, err := p.Run(context.Background(), filepath.Join(dir, "out.woff"), source(), recursiveJob())
			require.Error(t, err)
			assert.Equal(t, tc.code, core.Code(err))
			assert.True(t, errors.Is(err, cause), "technical detail is preserved")
			assert.Contains(t, core.Detail(err), "collaborator exploded")
			assert.Equal(t, Failed, last.To)
			assert.Equal(t, tc.state, last.From)
			assert.Equal(t, err, last.Err)
			assertNoFiles(t, dir)
		})
	}
}

func TestFailedSaveKeepsExistingOutput(t *testing.T) {
	spy := newSpy()
	spy.saveErr = errors.New("disk full")
	out := filepath.Join(t.TempDir(), "out.woff")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o644))
	_, err := Run(context.Background(), spy, out, source(), recursiveJob())
	assert.Equal(t, core.EPERSIST, core.Code(err))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(b))
}

func TestOutputPathIsDirectory(t *testing.T) {
	spy := newSpy()
	dir := t.TempDir()
	_, err := Run(context.Background(), spy, dir, source(), recursiveJob())
	assert.Equal(t, core.EPERSIST, core.Code(err))
	assert.NotContains(t, spy.calls, "Save")
}

func TestPipelineIsNotReentrant(t *testing.T) {
	spy := newSpy()
	p := NewPipeline(spy)
	out := filepath.Join(t.TempDir(), "out.woff")
	_, err := p.Run(context.Background(), out, source(), recursiveJob())
	require.NoError(t, err)
	_, err = p.Run(context.Background(), out, source(), recursiveJob())
	assert.Equal(t, core.EINTERNAL, core.Code(err))
	assert.Equal(t, Saved, p.State())
}

func TestCancellationIsIgnoredOnceStarted(t *testing.T) {
	spy := newSpy()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, spy, filepath.Join(t.TempDir(), "out.woff"), source(), recursiveJob())
	require.NoError(t, err)
	for _, e := range spy.ctxErrors {
		assert.NoError(t, e)
	}
}

func TestStart(t *testing.T) {
	spy := newSpy()
	out := filepath.Join(t.TempDir(), "out.woff")
	outcome := <-Start(context.Background(), spy, out, source(), recursiveJob())
	require.NoError(t, outcome.Err)
	assert.Equal(t, out, outcome.Path)

	job := recursiveJob()
	job.Axes["CRSV"] = "x"
	outcome = <-Start(context.Background(), newSpy(), out, source(), job)
	assert.Equal(t, core.EINVALIDVALUE, core.Code(outcome.Err))
	assert.Empty(t, outcome.Path)
}

func TestInvalidEditsAreRejectedUpFront(t *testing.T) {
	spy := newSpy()
	job := recursiveJob()
	job.Names[xsfnt.NameIDVersion] = "2.0"
	_, err := Run(context.Background(), spy, filepath.Join(t.TempDir(), "out.woff"), source(), job)
	assert.Equal(t, core.EINVALIDVALUE, core.Code(err))
	job = recursiveJob()
	job.Flags.Style["bit17"] = true
	_, err = Run(context.Background(), spy, filepath.Join(t.TempDir(), "out.woff"), source(), job)
	assert.Equal(t, core.EINVALIDVALUE, core.Code(err))
	assert.Empty(t, spy.calls)
}

func TestRunReturnsAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path, err := Run(context.Background(), newSpy(), "out.woff", source(), recursiveJob())
	require.NoError(t, err)
	want, err := filepath.Abs("out.woff")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, want, path)
	assert.FileExists(t, path)
}

func TestStateWhileRunningInBackground(t *testing.T) {
	p := NewPipeline(newSpy())
	done := p.Start(context.Background(), filepath.Join(t.TempDir(), "out.woff"), source(), recursiveJob())
	var outcome Outcome
	for polling := true; polling; {
		select {
		case outcome = <-done:
			polling = false
		default:
			_ = p.State().String()
		}
	}
	require.NoError(t, outcome.Err)
	assert.Equal(t, Saved, p.State())
}

func TestPipelineRunsOnce(t *testing.T) {
	p := NewPipeline(newSpy())
	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "out.woff"), source(), recursiveJob())
	require.NoError(t, err)
	_, err = p.Run(context.Background(), filepath.Join(t.TempDir(), "again.woff"), source(), recursiveJob())
	assert.Equal(t, core.EINTERNAL, core.Code(err))
	assert.Equal(t, Saved, p.State())
}
