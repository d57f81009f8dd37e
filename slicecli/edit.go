package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/npillmayer/otslice"
	"github.com/npillmayer/otslice/axis"
	"github.com/npillmayer/otslice/bitflag"
	"github.com/npillmayer/otslice/core"
	"github.com/npillmayer/otslice/instance"
	"github.com/pterm/pterm"
	"golang.org/x/image/font/sfnt"
)

// Edits are the edits given on the command line in one-shot mode.
type Edits struct {
	Axes        []string // tag=value
	Names       []string // id=text
	FsSelection string   // comma separated bit offsets to switch on
	MacStyle    string
}

// Apply hands the edits to a session. Bits not listed stay switched off.
func (e Edits) Apply(s *otslice.Session) error {
	for _, a := range e.Axes {
		tag, text, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("axis setting %q: expected tag=value", a)
		}
		if err := s.SetAxis(axis.Tag(strings.TrimSpace(tag)), text); err != nil {
			return err
		}
	}
	for _, n := range e.Names {
		id, text, ok := strings.Cut(n, "=")
		if !ok {
			return fmt.Errorf("name setting %q: expected id=text", n)
		}
		nameID, err := parseNameID(id)
		if err != nil {
			return err
		}
		if err := s.SetName(nameID, text); err != nil {
			return err
		}
	}
	if err := setBits(s, bitflag.FsSelection, e.FsSelection); err != nil {
		return err
	}
	return setBits(s, bitflag.MacStyle, e.MacStyle)
}

func setBits(s *otslice.Session, field bitflag.Field, list string) error {
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSpace(b); b == "" {
			continue
		}
		offset, err := parseBit(b)
		if err != nil {
			return err
		}
		if err := s.SetBit(field, offset, true); err != nil {
			return err
		}
	}
	return nil
}

func parseNameID(s string) (sfnt.NameID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, core.WrapError(err, core.EINVALIDVALUE, "Invalid name ID %q", s)
	}
	return sfnt.NameID(n), nil
}

// parseBit accepts "5" as well as "bit5".
func parseBit(s string) (uint, error) {
	if !strings.HasPrefix(s, "bit") {
		s = "bit" + s
	}
	n, err := bitflag.Offset(s)
	if err != nil {
		return 0, core.WrapError(err, core.EINVALIDVALUE, "Invalid bit %q", s)
	}
	return n, nil
}

func parseField(s string) (bitflag.Field, error) {
	switch strings.ToLower(s) {
	case "fsselection", "os/2":
		return bitflag.FsSelection, nil
	case "macstyle", "head":
		return bitflag.MacStyle, nil
	}
	return bitflag.Field{}, fmt.Errorf("unknown field %q, expected fsselection or macstyle", s)
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "1", "true", "yes":
		return true, nil
	case "off", "0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, have %q", s)
}

// --- REPL ops ---------------------------------------------------------

func axisOp(intp *Intp, op *Op) (error, bool) {
	if op.arg(0) == "" {
		return fmt.Errorf("usage: axis:<tag>:<value|min:max>, empty value to reset"), false
	}
	return intp.session.SetAxis(axis.Tag(op.arg(0)), op.arg(1)), false
}

func useOp(intp *Intp, op *Op) (error, bool) {
	i, err := strconv.Atoi(op.arg(0))
	if err != nil {
		return fmt.Errorf("usage: use:<instance number>"), false
	}
	if err := intp.session.UseNamedInstance(i); err != nil {
		return err, false
	}
	printAxes(intp.session)
	return nil, false
}

func nameOp(intp *Intp, op *Op) (error, bool) {
	id, err := parseNameID(op.arg(0))
	if err != nil {
		return err, false
	}
	return intp.session.SetName(id, op.arg(1)), false
}

func bitOp(intp *Intp, op *Op) (error, bool) {
	field, err := parseField(op.arg(0))
	if err != nil {
		return err, false
	}
	offset, err := parseBit(op.arg(1))
	if err != nil {
		return err, false
	}
	on, err := parseOnOff(op.arg(2))
	if err != nil {
		return err, false
	}
	return intp.session.SetBit(field, offset, on), false
}

func checkOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.session.Validate(); err != nil {
		return err, false
	}
	pterm.Success.Printf("request %s is valid\n", requestString(intp.session))
	return nil, false
}

func generateOp(intp *Intp, op *Op) (error, bool) {
	out := op.arg(0)
	if out == "" {
		out = intp.session.SuggestedOutput()
	}
	spinner, _ := pterm.DefaultSpinner.Start("Generating " + out)
	intp.session.OnTransition = func(tr instance.Transition) {
		spinner.UpdateText(fmt.Sprintf("Generating %s: %s", out, tr.To))
	}
	defer func() { intp.session.OnTransition = nil }()
	start := time.Now()
	outcome := <-intp.session.GenerateAsync(intp.ctx, out)
	if outcome.Err != nil {
		spinner.Fail(core.Summary(outcome.Err))
		return outcome.Err, false
	}
	spinner.Success(fmt.Sprintf("Wrote %s (%s)", outcome.Path, time.Since(start).Round(time.Millisecond)))
	return nil, false
}
