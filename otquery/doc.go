/*
Package otquery provides typed query views over single tables of a font,
as far as they are needed for instancing variable fonts: axes and named
instances from 'fvar', name records from 'name', and the style bit fields of
'head' and 'OS/2'.

Views decode directly from the raw table bytes of an sfnt.Font. Setters
write a modified copy of the table back to the font.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import (
	"fmt"

	"github.com/npillmayer/otslice/sfnt"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otslice.otquery'
func tracer() tracing.Trace {
	return tracing.Select("otslice.otquery")
}

func errTable(table sfnt.Tag, section string, format string, v ...interface{}) error {
	return sfnt.FontError{
		Table:    table,
		Section:  section,
		Issue:    fmt.Sprintf(format, v...),
		Severity: sfnt.SeverityCritical,
	}
}
