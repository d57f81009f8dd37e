package fonttools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-text/typesetting/font"
	"github.com/npillmayer/otslice/axis"
	"github.com/npillmayer/otslice/instance"
	"github.com/npillmayer/otslice/internal/fontload"
	"github.com/npillmayer/otslice/sfnt"
)

// Backend drives the fontTools command line tool. It implements
// instance.Collaborator.
type Backend struct {
	conf Config
}

var _ instance.Collaborator = (*Backend)(nil)

// New creates a backend for a configuration.
func New(conf Config) *Backend {
	if len(conf.Command) == 0 {
		conf.Command = DefaultConfig().Command
	}
	if conf.Timeout <= 0 {
		conf.Timeout = DefaultConfig().Timeout
	}
	return &Backend{conf: conf}
}

// Config returns the backend's configuration.
func (b *Backend) Config() Config {
	return b.conf
}

// Available checks whether the fontTools executable can be found.
func (b *Backend) Available() error {
	if _, err := exec.LookPath(b.conf.Command[0]); err != nil {
		return fmt.Errorf("cannot find fontTools executable %q, use %s to specify the command: %w",
			b.conf.Command[0], EnvCommand, err)
	}
	return nil
}

// Open opens a font file of any flavor.
func (b *Backend) Open(ctx context.Context, path string) (instance.Font, error) {
	return b.OpenFont(ctx, path)
}

// OpenFont opens a font file of any flavor and returns the concrete font type.
func (b *Backend) OpenFont(ctx context.Context, path string) (*Font, error) {
	sf, err := fontload.LoadFont(path, sfnt.WithWOFF2Codec(b.codec(ctx)))
	if err != nil {
		return nil, err
	}
	f, err := newFont(path, sf.Font)
	if err != nil {
		return nil, err
	}
	f.name = sf.Fontname
	tracer().Infof("opened %s font %q with %d axes", f.Flavor(), f.name, len(f.axes))
	return f, nil
}

// Instantiate runs varLib.instancer on f. Axes not contained in req remain
// fully variable. The result keeps the flavor of f.
func (b *Backend) Instantiate(ctx context.Context, f instance.Font, req axis.Request) (instance.Font, error) {
	src, ok := f.(*Font)
	if !ok {
		return nil, fmt.Errorf("font %s has not been opened by the fontTools backend", f.Path())
	}
	tables, err := src.Tables()
	if err != nil {
		return nil, err
	}
	if !req.HasAxes() {
		tracer().Infof("no axis values, keeping font as is")
		clone, err := newFont(src.path, tables.Clone())
		if err != nil {
			return nil, err
		}
		clone.name = src.name
		return clone, nil
	}
	plain, err := sfnt.EncodeAs(tables, sfnt.Plain)
	if err != nil {
		return nil, err
	}
	var out []byte
	err = b.withTempDir(func(dir string) error {
		in, res := filepath.Join(dir, "in"+ext(tables)), filepath.Join(dir, "out"+ext(tables))
		if err := os.WriteFile(in, plain, 0o600); err != nil {
			return err
		}
		args := append([]string{"varLib.instancer", in}, req.Args()...)
		if err := b.run(ctx, append(args, "-o", res)...); err != nil {
			return err
		}
		out, err = os.ReadFile(res)
		return err
	})
	if err != nil {
		return nil, err
	}
	if b.conf.Verify {
		if err := verify(out); err != nil {
			return nil, err
		}
	}
	otf, err := sfnt.Parse(out)
	if err != nil {
		return nil, fmt.Errorf("cannot read instancer output: %w", err)
	}
	otf.Flavor = src.Flavor()
	inst, err := newFont(src.path, otf)
	if err != nil {
		return nil, err
	}
	inst.name = src.name
	return inst, nil
}

// Save writes f to path, in the flavor f has been opened with.
func (b *Backend) Save(ctx context.Context, f instance.Font, path string) error {
	src, ok := f.(*Font)
	if !ok {
		return fmt.Errorf("font %s has not been opened by the fontTools backend", f.Path())
	}
	tables, err := src.Tables()
	if err != nil {
		return err
	}
	data, err := sfnt.Encode(tables, sfnt.WithWOFF2Codec(b.codec(ctx)))
	if err != nil {
		return err
	}
	tracer().Debugf("writing %d bytes (%s) to %s", len(data), tables.Flavor, path)
	return os.WriteFile(path, data, 0o644)
}

// verify checks font data with go-text's font parser.
func verify(data []byte) error {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("instancer output is not a valid font: %w", err)
	}
	if face == nil || face.Font == nil {
		return errors.New("instancer output is not a valid font")
	}
	return nil
}

func ext(f *sfnt.Font) string {
	if f.Version == 0x4f54544f { // OTTO
		return ".otf"
	}
	return ".ttf"
}

// --- Subprocess ------------------------------------------------------------

func (b *Backend) withTempDir(work func(dir string) error) error {
	dir, err := os.MkdirTemp("", "otslice-")
	if err != nil {
		return err
	}
	if b.conf.KeepTemp {
		tracer().Infof("keeping intermediate files in %s", dir)
	} else {
		defer os.RemoveAll(dir)
	}
	return work(dir)
}

// run invokes fontTools with args. Errors include the subprocess' stderr output.
func (b *Backend) run(ctx context.Context, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, b.conf.Timeout)
	defer cancel()
	argv := append(append([]string{}, b.conf.Command[1:]...), args...)
	cmd := exec.CommandContext(ctx, b.conf.Command[0], argv...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	tracer().Debugf("exec %s %s", b.conf.Command[0], strings.Join(argv, " "))
	err := cmd.Run()
	if out := strings.TrimSpace(stdout.String()); out != "" {
		tracer().Debugf("fonttools: %s", out)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("fonttools %s timed out after %s", args[0], b.conf.Timeout)
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("fonttools %s failed: %w", args[0], err)
		}
		return fmt.Errorf("fonttools %s failed: %w: %s", args[0], err, msg)
	}
	return nil
}

// woff2Codec converts WOFF2 data with fontTools' ttLib.woff2 module.
type woff2Codec struct {
	b   *Backend
	ctx context.Context
}

func (b *Backend) codec(ctx context.Context) sfnt.Codec {
	return woff2Codec{b: b, ctx: ctx}
}

func (c woff2Codec) DecodeWOFF2(data []byte) ([]byte, error) {
	return c.convert("decompress", data)
}

func (c woff2Codec) EncodeWOFF2(plain []byte) ([]byte, error) {
	return c.convert("compress", plain)
}

func (c woff2Codec) convert(op string, data []byte) (out []byte, err error) {
	err = c.b.withTempDir(func(dir string) error {
		in, res := filepath.Join(dir, "in"), filepath.Join(dir, "out")
		if err := os.WriteFile(in, data, 0o600); err != nil {
			return err
		}
		if err := c.b.run(c.ctx, "ttLib.woff2", op, in, "-o", res); err != nil {
			return err
		}
		out, err = os.ReadFile(res)
		return err
	})
	return out, err
}
