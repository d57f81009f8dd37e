package names

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/sfnt"
)

type mapTable struct {
	records map[Key]string
	failOn  *Key
}

func newMapTable() *mapTable {
	return &mapTable{records: make(map[Key]string)}
}

func (m *mapTable) NameRecord(key Key) (string, bool) {
	s, ok := m.records[key]
	return s, ok
}

func (m *mapTable) SetNameRecord(key Key, value string) error {
	if m.failOn != nil && *m.failOn == key {
		return errors.New("disk on fire")
	}
	m.records[key] = value
	return nil
}

func (m *mapTable) RemoveNameRecord(key Key) error {
	delete(m.records, key)
	return nil
}

func mandatoryEntries() Entries {
	return Entries{
		sfnt.NameIDFamily:           "Recursive Sans Linear Light",
		sfnt.NameIDSubfamily:        "Regular",
		sfnt.NameIDUniqueIdentifier: "1.077;ARRW;RecursiveSansLinearLight",
		sfnt.NameIDFull:             "Recursive Sans Linear Light",
		sfnt.NameIDPostScript:       "RecursiveSansLinearLight",
	}
}

func TestEditRemovesEmptyOptionalRecords(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otslice.names")
	defer teardown()
	//
	tab := newMapTable()
	for _, id := range Optional {
		tab.records[WindowsEnglish(id)] = "old"
	}
	mac := Key{Platform: PlatformMacintosh, Encoding: 0, Language: 0, Name: sfnt.NameIDTypographicFamily}
	tab.records[mac] = "mac"

	ops, err := Edit(tab, mandatoryEntries())
	require.NoError(t, err)
	assert.Len(t, ops, len(Mandatory)+len(Optional))
	for _, id := range Optional {
		_, ok := tab.NameRecord(WindowsEnglish(id))
		assert.False(t, ok, "expected optional record %d to be removed", id)
	}
	s, ok := tab.NameRecord(mac)
	assert.True(t, ok)
	assert.Equal(t, "mac", s, "records of other platforms must be untouched")
	for id, text := range mandatoryEntries() {
		s, _ := tab.NameRecord(WindowsEnglish(id))
		assert.Equal(t, text, s)
	}
}

func TestEditSetsOptionalRecords(t *testing.T) {
	tab := newMapTable()
	entries := mandatoryEntries()
	entries[sfnt.NameIDTypographicFamily] = "Recursive"
	entries[sfnt.NameIDTypographicSubfamily] = "Linear Light"
	_, err := Edit(tab, entries)
	require.NoError(t, err)
	s, _ := tab.NameRecord(WindowsEnglish(sfnt.NameIDTypographicFamily))
	assert.Equal(t, "Recursive", s)
	_, ok := tab.NameRecord(WindowsEnglish(sfnt.NameIDWWSFamily))
	assert.False(t, ok)
}

func TestPlanDoesNothingForAbsentOptionalRecords(t *testing.T) {
	ops := Plan(mandatoryEntries(), newMapTable())
	assert.Len(t, ops, len(Mandatory))
	for _, op := range ops {
		assert.Equal(t, OpSet, op.Kind)
	}
}

func TestEmptyMandatoryEntriesAreWritten(t *testing.T) {
	tab := newMapTable()
	tab.records[WindowsEnglish(sfnt.NameIDFamily)] = "Old Family"
	_, err := Edit(tab, Entries{})
	require.NoError(t, err)
	s, ok := tab.NameRecord(WindowsEnglish(sfnt.NameIDFamily))
	assert.True(t, ok)
	assert.Equal(t, "", s)
}

func TestEditErrors(t *testing.T) {
	_, err := Edit(newMapTable(), Entries{sfnt.NameIDVersion: "1.0"})
	assert.Error(t, err)

	tab := newMapTable()
	k := WindowsEnglish(sfnt.NameIDFull)
	tab.failOn = &k
	_, err = Edit(tab, mandatoryEntries())
	assert.ErrorContains(t, err, "disk on fire")
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "01 Family", Label(sfnt.NameIDFamily))
	assert.Equal(t, "22 WWS Subfamily", Label(sfnt.NameIDWWSSubfamily))
	assert.Len(t, Editable(), 9)
	assert.True(t, IsMandatory(sfnt.NameIDPostScript))
	assert.False(t, IsMandatory(sfnt.NameIDWWSFamily))
}
