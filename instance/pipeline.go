package instance

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/npillmayer/otslice/axis"
	"github.com/npillmayer/otslice/bitflag"
	"github.com/npillmayer/otslice/core"
	"github.com/npillmayer/otslice/names"
	"github.com/npillmayer/schuko/tracing"
)

// Source is the font to instantiate.
// Axes are the axis descriptors the caller has read at load time. They are used to
// validate the request before any collaborator call. If Axes is nil, the request
// is validated only after opening the font.
type Source struct {
	Path string
	Axes []axis.Descriptor
}

// Job holds the user's edits, read once per generation.
type Job struct {
	Axes  axis.Entries
	Names names.Entries
	Flags bitflag.Flags
}

// Outcome is the result of a pipeline started with Start.
type Outcome struct {
	Path string
	Err  error
}

// Pipeline runs a single instance generation. A pipeline is not reentrant;
// it may be run once. State may be queried from other goroutines while the
// pipeline runs.
type Pipeline struct {
	collab       Collaborator
	mu           sync.Mutex // guards state and started
	state        State
	started      bool
	id           string
	OnTransition func(Transition) // called synchronously, may be nil
}

// NewPipeline creates a pipeline in state Idle.
func NewPipeline(collab Collaborator) *Pipeline {
	return &Pipeline{
		collab: collab,
		id:     uuid.NewString()[:8],
	}
}

// State returns the pipeline's current state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// ID returns the operation id which prefixes the pipeline's trace output.
func (p *Pipeline) ID() string {
	return p.id
}

// Run generates an instance of src according to job and writes it to outPath.
// It returns the absolute output path on success.
//
// Run is a convenience for NewPipeline(collab).Run(…).
func Run(ctx context.Context, collab Collaborator, outPath string, src Source, job Job) (string, error) {
	return NewPipeline(collab).Run(ctx, outPath, src, job)
}

// Start runs a new pipeline on a goroutine. The returned channel delivers exactly
// one Outcome and is closed afterwards.
func Start(ctx context.Context, collab Collaborator, outPath string, src Source, job Job) <-chan Outcome {
	return NewPipeline(collab).Start(ctx, outPath, src, job)
}

// Start runs p on a goroutine. The returned channel delivers exactly one Outcome
// and is closed afterwards.
func (p *Pipeline) Start(ctx context.Context, outPath string, src Source, job Job) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		path, err := p.Run(ctx, outPath, src, job)
		out <- Outcome{Path: path, Err: err}
	}()
	return out
}

// Run generates an instance of src according to job and writes it to outPath.
// It returns the absolute output path on success. Any error is a core.AppError.
//
// Cancellation of ctx is not honored once the pipeline has started; timeouts of
// the collaborator still apply.
func (p *Pipeline) Run(ctx context.Context, outPath string, src Source, job Job) (string, error) {
	p.mu.Lock()
	if p.started {
		state := p.state
		p.mu.Unlock()
		return "", core.WrapError(nil, core.EINTERNAL, "pipeline has already been run (state %s)", state)
	}
	p.started = true
	p.mu.Unlock()
	if outPath == "" {
		return "", p.fail(core.WrapError(nil, core.EPERSIST, "No output file specified"))
	}
	outPath, err := filepath.Abs(outPath)
	if err != nil {
		return "", p.fail(core.WrapError(err, core.EPERSIST, "Invalid output file"))
	}
	if err := preflight(src, job); err != nil {
		return "", p.fail(err)
	}
	ctx = context.WithoutCancel(ctx)
	tracer().Infof("[%s] generating instance of %s", p.id, src.Path)

	// Idle → Loaded
	f, err := p.collab.Open(ctx, src.Path)
	if err != nil {
		return "", p.fail(core.WrapError(err, core.EINSTANTIATE, "Cannot open font %s", filepath.Base(src.Path)))
	}
	if !f.HasVariableAxes() {
		return "", p.fail(core.WrapError(nil, core.ENOTVARIABLE, "%s is not a variable font", filepath.Base(src.Path)))
	}
	p.transition(Loaded)

	// Loaded → Instantiated
	req, err := axis.BuildRequest(job.Axes, f.Axes())
	if err != nil {
		return "", p.fail(err)
	}
	tracer().Debugf("[%s] instancer arguments: %v", p.id, req.Args())
	inst, err := p.collab.Instantiate(ctx, f, req)
	if err != nil {
		return "", p.fail(core.WrapError(err, core.EINSTANTIATE, "Font instantiation failed"))
	}
	p.transition(Instantiated)

	// Instantiated → NamesEdited
	if _, err := names.Edit(inst, job.Names); err != nil {
		return "", p.fail(core.WrapError(err, core.ENAMEEDIT, "Cannot edit name table"))
	}
	p.transition(NamesEdited)

	// NamesEdited → FlagsEdited
	if err := p.editFlags(inst, job.Flags); err != nil {
		return "", p.fail(core.WrapError(err, core.EINTERNAL, "Cannot edit style bits"))
	}
	p.transition(FlagsEdited)
	p.report(inst)

	// FlagsEdited → Saved
	if err := p.persist(ctx, inst, outPath); err != nil {
		return "", p.fail(core.WrapError(err, core.EPERSIST, "Cannot write %s", outPath))
	}
	p.transition(Saved)
	tracer().Infof("[%s] instance written to %s", p.id, outPath)
	return outPath, nil
}

// preflight validates the user's edits before any collaborator call.
func preflight(src Source, job Job) error {
	if src.Axes != nil {
		if _, err := axis.BuildRequest(job.Axes, src.Axes); err != nil {
			return err
		}
	}
	if err := job.Names.Validate(); err != nil {
		return core.WrapError(err, core.EINVALIDVALUE, "Invalid name entry")
	}
	if err := job.Flags.Validate(); err != nil {
		return core.WrapError(err, core.EINVALIDVALUE, "Invalid style bit")
	}
	return nil
}

func (p *Pipeline) editFlags(f Font, flags bitflag.Flags) error {
	for _, field := range bitflag.EditableFields() {
		s, err := flags.Settings(field)
		if err != nil {
			return err
		}
		v, err := f.Field(field)
		if err != nil {
			return err
		}
		edited := bitflag.Edit(v, s)
		if err := f.SetField(field, edited); err != nil {
			return err
		}
		tracer().Debugf("[%s] %-16s %s → %s", p.id, field, bitflag.Binary(v), bitflag.Binary(edited))
	}
	return nil
}

// persist saves f to a temporary file in the directory of path and renames it
// to path on success. On failure no file is left behind. path is absolute.
func (p *Pipeline) persist(ctx context.Context, f Font, path string) (err error) {
	if fi, statErr := os.Stat(path); statErr == nil && fi.IsDir() {
		return errors.New("output path is a directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	tmp.Close()
	removed := false
	defer func() {
		if !removed {
			os.Remove(tmpName)
		}
	}()
	if err = p.collab.Save(ctx, f, tmpName); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err = os.Rename(tmpName, path); err != nil {
		return err
	}
	removed = true
	return nil
}

func (p *Pipeline) setState(to State) (from State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	from, p.state = p.state, to
	return from
}

func (p *Pipeline) transition(to State) {
	from := p.setState(to)
	tracer().Infof("[%s] %s → %s", p.id, from, to)
	if p.OnTransition != nil {
		p.OnTransition(Transition{From: from, To: to})
	}
}

func (p *Pipeline) fail(err error) error {
	from := p.setState(Failed)
	tracer().Errorf("[%s] %s → %s: %v", p.id, from, Failed, err)
	if p.OnTransition != nil {
		p.OnTransition(Transition{From: from, To: Failed, Err: err})
	}
	return err
}

// report traces the edited name records at debug level.
func (p *Pipeline) report(f Font) {
	if tracer().GetTraceLevel() != tracing.LevelDebug {
		return
	}
	for _, id := range names.Editable() {
		key := names.WindowsEnglish(id)
		if s, ok := f.NameRecord(key); ok {
			tracer().Debugf("[%s] %-18s %q", p.id, names.Label(id), s)
		} else {
			tracer().Debugf("[%s] %-18s <none>", p.id, names.Label(id))
		}
	}
}
