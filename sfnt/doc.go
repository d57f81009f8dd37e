/*
Package sfnt holds a font as a set of raw tables and converts between the
table set and its on-disk representation.

Font files come in one of three flavors: plain sfnt (TrueType or CFF
outlines), WOFF and WOFF2. Plain sfnt and WOFF are handled natively. WOFF2
requires an external Codec, which clients provide with WithWOFF2Codec.

Package sfnt does not interpret tables, with one exception: when encoding, the
checksum adjustment of table 'head' is recomputed. Reading and writing single
fields of specific tables is done in package otquery.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package sfnt

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otslice.sfnt'
func tracer() tracing.Trace {
	return tracing.Select("otslice.sfnt")
}
