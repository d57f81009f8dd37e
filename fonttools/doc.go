/*
Package fonttools implements the font collaborator of package instance on top
of the fontTools command line tool (https://github.com/fonttools/fonttools).

Fonts are opened and saved natively by package sfnt. fontTools is invoked as a
subprocess for the variation math (varLib.instancer) and for WOFF2
compression (ttLib.woff2). The executable is configured by Config.
*/
package fonttools

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otslice.fonttools'
func tracer() tracing.Trace {
	return tracing.Select("otslice.fonttools")
}
