/*
Package names computes and applies the name table edits which accompany the
generation of a font instance.

All edits are written under a single platform/encoding/language identity,
Windows/Unicode BMP/US English (3, 1, 1033). Records under other identities
are never touched.

Mandatory entries (name IDs 1, 2, 3, 4, 6) are always written from the user's
text, even if it is empty. Optional entries (16, 17, 21, 22) are written if the
user's text is non-empty; otherwise an existing record is removed.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package names

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'otslice.names'
func tracer() tracing.Trace {
	return tracing.Select("otslice.names")
}

// Platform, encoding and language IDs for name records.
const (
	PlatformUnicode   uint16 = 0
	PlatformMacintosh uint16 = 1
	PlatformWindows   uint16 = 3

	EncodingWindowsBMP uint16 = 1
	LanguageEnglishUS  uint16 = 1033
)

// Key identifies a NameRecord entry in OpenType table 'name'.
// The key follows the OpenType NameRecord fields directly.
type Key struct {
	Platform uint16
	Encoding uint16
	Language uint16
	Name     sfnt.NameID
}

func (k Key) String() string {
	return fmt.Sprintf("nameID%d(%d,%d,%d)", k.Name, k.Platform, k.Encoding, k.Language)
}

// WindowsEnglish returns the (3, 1, 1033) key for name ID id.
func WindowsEnglish(id sfnt.NameID) Key {
	return Key{
		Platform: PlatformWindows,
		Encoding: EncodingWindowsBMP,
		Language: LanguageEnglishUS,
		Name:     id,
	}
}

// Mandatory name IDs, always written.
var Mandatory = []sfnt.NameID{
	sfnt.NameIDFamily,
	sfnt.NameIDSubfamily,
	sfnt.NameIDUniqueIdentifier,
	sfnt.NameIDFull,
	sfnt.NameIDPostScript,
}

// Optional name IDs, written or removed.
var Optional = []sfnt.NameID{
	sfnt.NameIDTypographicFamily,
	sfnt.NameIDTypographicSubfamily,
	sfnt.NameIDWWSFamily,
	sfnt.NameIDWWSSubfamily,
}

// Editable returns all editable name IDs, mandatory ones first.
func Editable() []sfnt.NameID {
	ids := make([]sfnt.NameID, 0, len(Mandatory)+len(Optional))
	ids = append(ids, Mandatory...)
	return append(ids, Optional...)
}

// IsMandatory reports whether id is one of the mandatory name IDs.
func IsMandatory(id sfnt.NameID) bool {
	for _, m := range Mandatory {
		if m == id {
			return true
		}
	}
	return false
}

// IsEditable reports whether id is a mandatory or optional name ID.
func IsEditable(id sfnt.NameID) bool {
	if IsMandatory(id) {
		return true
	}
	for _, o := range Optional {
		if o == id {
			return true
		}
	}
	return false
}

var labels = map[sfnt.NameID]string{
	sfnt.NameIDFamily:               "Family",
	sfnt.NameIDSubfamily:            "Subfamily",
	sfnt.NameIDUniqueIdentifier:     "Unique",
	sfnt.NameIDFull:                 "Full",
	sfnt.NameIDPostScript:           "Postscript",
	sfnt.NameIDTypographicFamily:    "Typo Family",
	sfnt.NameIDTypographicSubfamily: "Typo Subfamily",
	sfnt.NameIDWWSFamily:            "WWS Family",
	sfnt.NameIDWWSSubfamily:         "WWS Subfamily",
}

// Label returns a row label for id, e.g. "16 Typo Family".
func Label(id sfnt.NameID) string {
	if l, ok := labels[id]; ok {
		return fmt.Sprintf("%02d %s", id, l)
	}
	return fmt.Sprintf("%02d", id)
}

// Entries holds the user's text per editable name ID. A missing key is
// equivalent to an empty entry.
type Entries map[sfnt.NameID]string

// Validate rejects entries for name IDs which are not editable.
func (e Entries) Validate() error {
	for id := range e {
		if !IsEditable(id) {
			return fmt.Errorf("name ID %d is not editable", id)
		}
	}
	return nil
}

// Clone returns a copy of e.
func (e Entries) Clone() Entries {
	c := make(Entries, len(e))
	for k, v := range e {
		c[k] = v
	}
	return c
}
