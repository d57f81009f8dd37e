/*
Package axis resolves user input for the design axes of a variable font.

Users type one text entry per axis. An entry is either empty (the axis stays
variable), a single number (the axis is pinned to that value) or a range

	START:END
	START:END [DEFAULT]

which narrows the axis to a sub-space. Both orders of START and END are accepted.
A range must contain the axis' default value. The bracketed DEFAULT is reserved
for multi-level defaults; it is checked to be numeric and otherwise ignored.

BuildRequest folds all entries, in the font's declared axis order, into a Request,
which is what the instancer consumes.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package axis

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'otslice.axis'
func tracer() tracing.Trace {
	return tracing.Select("otslice.axis")
}
