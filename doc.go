/*
Package otslice generates static or partially static instances of variable
OpenType fonts.

A Session holds one loaded font together with the user's edits: a value or
range per variation axis, texts for the name records to rewrite, and settings
for the style bits of OS/2.fsSelection and head.macStyle. Generate validates
the edits and runs the instance pipeline of package instance.

	s := otslice.NewSession(fonttools.New(fonttools.DefaultConfig()))
	if err := s.Load(ctx, "Recursive.ttf"); err != nil {
		...
	}
	s.SetAxis("wght", "300")
	s.SetAxis("slnt", "-15:0")
	out, err := s.Generate(ctx, "Recursive-Light.ttf")

Axis values are either a single number, which pins an axis, or a range
"min:max", which restricts it. The range has to contain the axis' default.
Axes without a value remain fully variable.

# Status

Font collections (*.ttc) are not supported.

# Links

OpenType font variations:
https://learn.microsoft.com/en-us/typography/opentype/spec/otvaroverview

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otslice

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'otslice'
func tracer() tracing.Trace {
	return tracing.Select("otslice")
}
