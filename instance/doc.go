/*
Package instance generates a font instance from a variable font.

A Pipeline sequences the steps of one generation: open the font, build and
validate the axis request, instantiate, edit name records, edit style bits, and
persist the result. Any failure ends the pipeline in state Failed and is
reported as exactly one core.AppError.

Font I/O and variation math are delegated to a Collaborator. The pipeline itself
is sequential and holds no locks; the font handle it works on is owned
exclusively by one run.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package instance

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otslice.instance'
func tracer() tracing.Trace {
	return tracing.Select("otslice.instance")
}
