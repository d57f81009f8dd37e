package fontload

import (
	"os"

	"github.com/npillmayer/otslice/otquery"
	"github.com/npillmayer/otslice/sfnt"
	"github.com/npillmayer/schuko/tracing"
	xsfnt "golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'otslice.fonttools'
func tracer() tracing.Trace {
	return tracing.Select("otslice.fonttools")
}

// ScalableFont is a parsed scalable font with original bytes and table view.
type ScalableFont struct {
	Fontname string
	Filepath string
	Binary   []byte
	Font     *sfnt.Font
}

// LoadFont loads a font file (TTF, OTF, WOFF or WOFF2) from disk.
func LoadFont(fontfile string, opts ...sfnt.Option) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseFont(bytez, opts...)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseFont loads a font from memory.
//
// Plain sfnt fonts are additionally parsed by golang.org/x/image/font/sfnt, which
// checks the required tables for rendering. This check is informational only,
// as instancing operates on tables.
func ParseFont(fbytes []byte, opts ...sfnt.Option) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	if f.Font, err = sfnt.Parse(fbytes, opts...); err != nil {
		return nil, err
	}
	if f.Font.Flavor == sfnt.Plain {
		if xf, err := xsfnt.Parse(fbytes); err != nil {
			tracer().Infof("font is not renderable: %v", err)
		} else if f.Fontname, err = xf.Name(nil, xsfnt.NameIDFull); err == nil {
			return f, nil
		}
	}
	if nt, err := otquery.NameTableOf(f.Font); err == nil {
		f.Fontname, _ = nt.Preferred(xsfnt.NameIDFull)
	}
	return f, nil
}
