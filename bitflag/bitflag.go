/*
Package bitflag edits named bits of 16-bit integer font fields.

Two fields are edited when an instance is generated: OS/2.fsSelection and
head.macStyle. Settings for each field name their bits as "bit<N>" and map them
to on or off. Bits not named by a setting are left untouched.

	flags := bitflag.Defaults()
	flags.Selection["bit5"] = true   // BOLD
	v := bitflag.Edit(fsSelection, flags.Selection)

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package bitflag

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Field identifies an integer field within a font table.
type Field struct {
	Table string // table tag, e.g. "OS/2"
	Name  string // field name as in the OpenType specification
}

func (f Field) String() string {
	return f.Table + "." + f.Name
}

// The two editable fields.
var (
	FsSelection = Field{Table: "OS/2", Name: "fsSelection"}
	MacStyle    = Field{Table: "head", Name: "macStyle"}
)

// Settings maps bit names of the form "bit<N>" to on/off.
type Settings map[string]bool

// Offset parses the bit offset from a bit name, e.g. 5 from "bit5".
func Offset(bitname string) (uint, error) {
	if !strings.HasPrefix(bitname, "bit") {
		return 0, fmt.Errorf("invalid bit name %q", bitname)
	}
	n, err := strconv.ParseUint(bitname[3:], 10, 8)
	if err != nil || n > 15 {
		return 0, fmt.Errorf("invalid bit name %q, expected bit0 … bit15", bitname)
	}
	return uint(n), nil
}

// BitName returns the setting key for a bit offset.
func BitName(offset uint) string {
	return "bit" + strconv.Itoa(int(offset))
}

// Validate checks that all bit names are well formed.
func (s Settings) Validate() error {
	for name := range s {
		if _, err := Offset(name); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the bit names of s, ordered by offset.
func (s Settings) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, _ := Offset(names[i])
		b, _ := Offset(names[j])
		if a == b {
			return names[i] < names[j]
		}
		return a < b
	})
	return names
}

// Clone returns a copy of s.
func (s Settings) Clone() Settings {
	c := make(Settings, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

func (s Settings) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range s.Names() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s:%v", name, s[name])
	}
	sb.WriteByte('}')
	return sb.String()
}

// Edit applies s to v. Named bits set to true are set, named bits set to false
// are cleared, all other bits are preserved. Malformed bit names are skipped;
// use Settings.Validate to reject them up front.
func Edit(v uint16, s Settings) uint16 {
	for name, on := range s {
		offset, err := Offset(name)
		if err != nil {
			continue
		}
		if on {
			v = setBit(v, offset)
		} else {
			v = clearBit(v, offset)
		}
	}
	return v
}

func setBit(v uint16, offset uint) uint16 {
	return v | 1<<offset
}

func clearBit(v uint16, offset uint) uint16 {
	return v &^ (1 << offset)
}

// IsSet reports whether bit offset is set in v.
func IsSet(v uint16, offset uint) bool {
	return v&(1<<offset) != 0
}

// Binary formats v as 16 binary digits, most significant bit first.
func Binary(v uint16) string {
	return fmt.Sprintf("%016b", v)
}
