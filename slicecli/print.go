package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/otslice"
	"github.com/npillmayer/otslice/bitflag"
	"github.com/npillmayer/otslice/names"
	"github.com/pterm/pterm"
)

func axesOp(intp *Intp, op *Op) (error, bool) {
	printAxes(intp.session)
	return nil, false
}

func namesOp(intp *Intp, op *Op) (error, bool) {
	printNames(intp.session)
	return nil, false
}

func bitsOp(intp *Intp, op *Op) (error, bool) {
	printBits(intp.session)
	return nil, false
}

func recordsOp(intp *Intp, op *Op) (error, bool) {
	return printRecords(intp.session), false
}

func instancesOp(intp *Intp, op *Op) (error, bool) {
	printInstances(intp.session)
	return nil, false
}

func printAxes(s *otslice.Session) {
	if len(s.Axes()) == 0 {
		pterm.Println("font has no variation axes")
		return
	}
	entries := s.AxisEntries()
	data := [][]string{
		{"Tag", "Axis", "Range", "Value"},
	}
	for _, d := range s.Axes() {
		data = append(data, []string{
			string(d.Tag),
			s.AxisLabel(d.Tag),
			d.Summary(),
			entries[d.Tag],
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printNames(s *otslice.Session) {
	entries := s.NameEntries()
	data := [][]string{
		{"Name ID", "Text", ""},
	}
	for _, id := range names.Editable() {
		note := ""
		if !names.IsMandatory(id) {
			note = "optional, removed if empty"
		}
		data = append(data, []string{names.Label(id), entries[id], note})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printBits(s *otslice.Session) {
	flags := s.Flags()
	info, err := s.Info()
	if err != nil {
		tracer().Infof("cannot read style bits of font: %v", err)
	}
	current := map[bitflag.Field]uint16{
		bitflag.FsSelection: info.FsSelection,
		bitflag.MacStyle:    info.MacStyle,
	}
	data := [][]string{
		{"Field", "Bit", "Meaning", "Font", "Set"},
	}
	for _, field := range bitflag.EditableFields() {
		settings, _ := flags.Settings(field)
		for _, bit := range settings.Names() {
			offset, _ := bitflag.Offset(bit)
			label, _ := bitflag.Label(field, offset)
			inFont := onOff(current[field]&(1<<offset) != 0)
			data = append(data, []string{field.String(), bit, label, inFont, onOff(settings[bit])})
		}
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printInstances(s *otslice.Session) {
	inst := s.NamedInstances()
	if len(inst) == 0 {
		pterm.Println("font has no named instances")
		return
	}
	data := [][]string{
		{"#", "Name", "Coordinates"},
	}
	for i, ni := range inst {
		coords := make([]string, 0, len(s.Axes()))
		for _, d := range s.Axes() {
			if v, ok := ni.Coordinates[d.Tag]; ok {
				coords = append(coords, fmt.Sprintf("%s=%g", d.Tag, v))
			}
		}
		data = append(data, []string{fmt.Sprintf("%d", i), ni.Name, strings.Join(coords, " ")})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printInfo(s *otslice.Session) error {
	info, err := s.Info()
	if err != nil {
		return err
	}
	data := [][]string{
		{"Field", "Value"},
		{"head.fontRevision", fmt.Sprintf("%.3f", info.Revision)},
		{"head.unitsPerEm", fmt.Sprintf("%d", info.UnitsPerEm)},
		{"head.macStyle", bitflag.Binary(info.MacStyle)},
		{"OS/2.usWeightClass", fmt.Sprintf("%d", info.WeightClass)},
		{"OS/2.usWidthClass", fmt.Sprintf("%d", info.WidthClass)},
		{"OS/2.fsSelection", bitflag.Binary(info.FsSelection)},
		{"maxp.numGlyphs", fmt.Sprintf("%d", info.NumGlyphs)},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil
}

// printRecords lists the name records of the font as loaded, without the
// pending edits.
func printRecords(s *otslice.Session) error {
	recs, err := s.NameRecords()
	if err != nil {
		return err
	}
	data := [][]string{
		{"Platform", "Encoding", "Language", "Name ID", "Text"},
	}
	for _, r := range recs {
		data = append(data, []string{
			fmt.Sprintf("%d", r.Key.Platform),
			fmt.Sprintf("%d", r.Key.Encoding),
			fmt.Sprintf("%d", r.Key.Language),
			names.Label(r.Key.Name),
			r.Text,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil
}

// requestString formats the current axis entries, or the reason why they do not
// form a valid request.
func requestString(s *otslice.Session) string {
	req, err := s.Request()
	if err != nil {
		return "<incomplete>"
	}
	return req.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
