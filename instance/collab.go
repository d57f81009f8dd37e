package instance

import (
	"context"

	"github.com/npillmayer/otslice/axis"
	"github.com/npillmayer/otslice/bitflag"
	"github.com/npillmayer/otslice/names"
	"github.com/npillmayer/otslice/sfnt"
)

// Font is a handle for an opened font, as provided by a Collaborator.
type Font interface {
	Path() string        // file the font has been opened from
	Flavor() sfnt.Flavor // container flavor, kept on save
	HasVariableAxes() bool
	Axes() []axis.Descriptor // in declared order
	AxisName(tag axis.Tag) (string, bool)
	names.Table
	Field(field bitflag.Field) (uint16, error)
	SetField(field bitflag.Field, v uint16) error
}

// Collaborator performs font I/O and instantiation.
//
// Instantiate collapses pinned axes, narrows ranged axes and leaves axes not
// contained in the request fully variable. The resulting font has the same
// flavor as the input font.
type Collaborator interface {
	Open(ctx context.Context, path string) (Font, error)
	Instantiate(ctx context.Context, f Font, req axis.Request) (Font, error)
	Save(ctx context.Context, f Font, path string) error
}
