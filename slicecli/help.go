package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg(0))
	return nil, false
}

func help(topic string) {
	tracer().Debugf("help %v", topic)
	switch strings.ToLower(topic) {
	case "axis", "axes":
		pterm.Info.Println("Axis values")
		pterm.Println(`
	axis:<tag>:<value>      pin an axis, e.g. axis:wght:300
	axis:<tag>:<min>:<max>  restrict an axis, e.g. axis:slnt:-15:0
	axis:<tag>              reset to variable

	Values are decimal numbers. A range must include the axis' default value.
	Axes without a value remain fully variable; at least one axis needs a value.
	`)
	case "name", "names":
		pterm.Info.Println("Name records")
		pterm.Println(`
	name:<id>:<text>        e.g. name:1:Recursive Sans Linear

	Name IDs 1, 2, 3, 4 and 6 are always written, even if empty.
	Name IDs 16, 17, 21 and 22 are written if not empty, otherwise removed.
	Only Windows English (3, 1, 1033) records are edited.
	`)
	case "bit", "bits":
		pterm.Info.Println("Style bits")
		pterm.Println(`
	bit:fsselection:<n>:on|off   OS/2.fsSelection bits 0, 5, 6, 8
	bit:macstyle:<n>:on|off      head.macStyle bits 0, 1

	All bits are switched off when a font is loaded. Bits which are not
	offered for editing keep their value.
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	load:<file>         load a variable font
	status              show the loaded font and its head/OS/2 values
	records             list the font's name records as loaded
	axes, names, bits   show the current edits
	instances           list the font's named instances
	use:<n>             take axis values from named instance n
	axis:..., name:..., bit:...   edit, see help:axis, help:name, help:bit
	check               validate the edits
	generate[:<file>]   write the instance
	quit

	Several commands may be given on one line, e.g. "axis:wght:300 generate".
	`)
	}
}
