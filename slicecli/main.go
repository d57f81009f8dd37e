package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/npillmayer/otslice"
	"github.com/npillmayer/otslice/core"
	"github.com/npillmayer/otslice/fonttools"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'otslice.cli'
func tracer() tracing.Trace {
	return tracing.Select("otslice.cli")
}

// Trace keys configured by the CLI.
var traceKeys = []string{
	"otslice",
	"otslice.cli",
	"otslice.axis",
	"otslice.names",
	"otslice.sfnt",
	"otslice.otquery",
	"otslice.instance",
	"otslice.fonttools",
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range traceKeys {
		conf["trace."+key] = "Info"
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	var axes, nameTexts stringList
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Variable font to load")
	output := flag.String("o", "", "Write instance to this file and exit")
	flag.Var(&axes, "axis", "Axis value tag=value or tag=min:max (repeatable)")
	flag.Var(&nameTexts, "name", "Name record id=text (repeatable)")
	fsSelection := flag.String("fsselection", "", "OS/2.fsSelection bits to switch on, e.g. 0,5")
	macStyle := flag.String("macstyle", "", "head.macStyle bits to switch on, e.g. 1")
	ftCommand := flag.String("fonttools", "", "fontTools command (default $"+fonttools.EnvCommand+" or fonttools)")
	ftTimeout := flag.Duration("timeout", 0, "Timeout per fontTools invocation")
	ftKeep := flag.Bool("keeptemp", false, "Keep intermediate files")
	flag.Parse()
	if err := setTraceLevel(*tlevel); err != nil {
		pterm.Error.Println(err)
		os.Exit(5)
	}

	// fontTools backend configuration
	if *ftCommand != "" {
		conf[fonttools.KeyCommand] = *ftCommand
	}
	if *ftTimeout > 0 {
		conf[fonttools.KeyTimeout] = ftTimeout.String()
	}
	if *ftKeep {
		conf[fonttools.KeyKeepTemp] = "true"
	}
	ftconf, err := fonttools.ConfigFrom(conf)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}
	backend := fonttools.New(ftconf)
	if err := backend.Available(); err != nil {
		pterm.Warning.Printf("fontTools not found (%s); install with 'pip install fonttools'\n", ftconf)
	}
	tracer().Infof("using fontTools %s", ftconf)
	session := otslice.NewSession(backend)
	ctx := context.Background()

	if *output != "" { // one-shot mode
		edits := Edits{Axes: axes, Names: nameTexts, FsSelection: *fsSelection, MacStyle: *macStyle}
		os.Exit(oneShot(ctx, session, *fontname, *output, edits))
	}

	pterm.Info.Println("Welcome to the variable font slicer") // colored welcome message
	//
	// set up REPL
	repl, err := readline.NewEx(&readline.Config{
		Prompt:       "slice > ",
		AutoComplete: completer,
	})
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	intp := &Intp{repl: repl, session: session, ctx: ctx}
	//
	// load font to use
	if *fontname != "" {
		if err := intp.loadFont(*fontname); err != nil { // font name provided by flag
			showError(err)
			os.Exit(4)
		}
	}
	//
	// start receiving commands
	pterm.Info.Println("Type 'help' for a list of commands, quit with <ctrl>D")
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setTraceLevel(level string) error {
	l := tracing.LevelError
	switch level {
	case "Debug":
		l = tracing.LevelDebug
	case "Info":
		l = tracing.LevelInfo
	case "Error":
		l = tracing.LevelError
	default:
		return fmt.Errorf("invalid trace level: %s", level)
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
	tracer().Infof("Trace level is %s", level)
	return nil
}

// showError displays the user message of an application error. The technical
// detail follows if it adds anything.
func showError(err error) {
	summary, detail := core.Summary(err), core.Detail(err)
	pterm.Error.Println(summary)
	if detail != "" && detail != summary {
		pterm.Println("  " + detail)
	}
}

// stringList collects the values of a repeatable flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// Intp is our interpreter object
type Intp struct {
	session *otslice.Session
	repl    *readline.Instance
	ctx     context.Context
}

func (intp *Intp) String() string {
	if intp == nil || !intp.session.Loaded() {
		return "( no font )"
	}
	return fmt.Sprintf("( %s, request=%s )", intp.session.Path(), requestString(intp.session))
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			showError(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code int
	args []string
}

type Command struct {
	op []Op
}

const (
	QUIT int = iota
	HELP
	LOAD
	STATUS
	AXES
	AXIS
	INSTANCES
	USE
	NAMES
	NAME
	RECORDS
	BITS
	BIT
	CHECK
	GENERATE
)

var opMap = map[string]int{
	"quit":      QUIT,
	"help":      HELP,
	"load":      LOAD,
	"status":    STATUS,
	"axes":      AXES,
	"axis":      AXIS,
	"instances": INSTANCES,
	"use":       USE,
	"names":     NAMES,
	"name":      NAME,
	"records":   RECORDS,
	"bits":      BITS,
	"bit":       BIT,
	"check":     CHECK,
	"generate":  GENERATE,
}

var opNames = []string{
	"quit",
	"help",
	"load",
	"status",
	"axes",
	"axis",
	"instances",
	"use",
	"names",
	"name",
	"records",
	"bits",
	"bit",
	"check",
	"generate",
}

// number of ':'-separated arguments per op; the last one takes the rest of
// the step, e.g. "axis:wght:300:500" has arguments "wght" and "300:500".
var opArgs = map[int]int{
	HELP:     1,
	LOAD:     1,
	AXIS:     2,
	USE:      1,
	NAME:     2,
	BIT:      3,
	GENERATE: 1,
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("quit"),
	readline.PcItem("help"),
	readline.PcItem("load:"),
	readline.PcItem("status"),
	readline.PcItem("axes"),
	readline.PcItem("axis:"),
	readline.PcItem("instances"),
	readline.PcItem("use:"),
	readline.PcItem("names"),
	readline.PcItem("name:"),
	readline.PcItem("records"),
	readline.PcItem("bits"),
	readline.PcItem("bit:",
		readline.PcItem("fsselection:"),
		readline.PcItem("macstyle:"),
	),
	readline.PcItem("check"),
	readline.PcItem("generate"),
)

// parseCommand splits a line into steps separated by blanks, e.g.
// "axis:wght:300 axis:slnt:0 generate". A name step consumes the rest of the
// line, as name texts may contain blanks: "name:1:Recursive Sans".
func parseCommand(line string) (*Command, error) {
	cmd := &Command{}
	steps := strings.Fields(line)
	for i, step := range steps {
		word, rest, _ := strings.Cut(step, ":")
		code, ok := opMap[strings.ToLower(word)]
		if !ok {
			return nil, fmt.Errorf("unknown command %q, try 'help'", word)
		}
		op := Op{code: code}
		if n := opArgs[code]; n > 0 && rest != "" {
			op.args = strings.SplitN(rest, ":", n)
		} else if rest != "" {
			return nil, fmt.Errorf("command %s takes no arguments", opNames[code])
		}
		if code == NAME {
			if len(op.args) < 2 {
				op.args = append(op.args, "")
			}
			tail := strings.Join(steps[i+1:], " ")
			op.args[1] = strings.TrimSpace(op.args[1] + " " + tail)
			cmd.op = append(cmd.op, op)
			break
		}
		cmd.op = append(cmd.op, op)
		if code == QUIT {
			break
		}
	}
	tracer().Debugf("parsed command: %v", cmd.op)
	return cmd, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:      quitOp,
	HELP:      helpOp,
	LOAD:      loadOp,
	STATUS:    statusOp,
	AXES:      axesOp,
	AXIS:      axisOp,
	INSTANCES: instancesOp,
	USE:       useOp,
	NAMES:     namesOp,
	NAME:      nameOp,
	RECORDS:   recordsOp,
	BITS:      bitsOp,
	BIT:       bitOp,
	CHECK:     checkOp,
	GENERATE:  generateOp,
}

// requiresFont lists ops which make no sense without a loaded font.
var requiresFont = map[int]bool{
	AXES: true, AXIS: true, INSTANCES: true, USE: true, NAMES: true,
	NAME: true, RECORDS: true, BITS: true, BIT: true, CHECK: true, GENERATE: true,
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	for _, c := range cmd.op {
		if requiresFont[c.code] && !intp.session.Loaded() {
			return fmt.Errorf("no font loaded, use 'load:<file>'"), false
		}
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = f(intp, &c)
		if err != nil || stop {
			return
		}
	}
	return
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	return nil, true
}

func (op *Op) arg(i int) string {
	if i < len(op.args) {
		return op.args[i]
	}
	return ""
}

// --- Font Loading -----------------------------------------------------

func (intp *Intp) loadFont(path string) error {
	if err := intp.session.Load(intp.ctx, path); err != nil {
		return err
	}
	pterm.Success.Println(intp.session.Status())
	if len(intp.session.Axes()) == 0 {
		pterm.Warning.Println("font has no variation axes")
	}
	return nil
}

func loadOp(intp *Intp, op *Op) (error, bool) {
	if op.arg(0) == "" {
		return fmt.Errorf("usage: load:<file>"), false
	}
	if err := intp.loadFont(op.arg(0)); err != nil {
		return err, false
	}
	printAxes(intp.session)
	return nil, false
}

func statusOp(intp *Intp, op *Op) (error, bool) {
	pterm.Info.Println(intp.session.Status())
	if !intp.session.Loaded() {
		return nil, false
	}
	return printInfo(intp.session), false
}

// --- One-shot mode ----------------------------------------------------

const (
	exitOK = iota
	exitUsage
	exitFailed
)

func oneShot(ctx context.Context, s *otslice.Session, font, output string, edits Edits) int {
	if font == "" {
		pterm.Error.Println("flag -o requires -font")
		return exitUsage
	}
	if err := s.Load(ctx, font); err != nil {
		showError(err)
		return exitFailed
	}
	if err := edits.Apply(s); err != nil {
		showError(err)
		return exitUsage
	}
	spinner, _ := pterm.DefaultSpinner.Start("Generating instance " + requestString(s))
	start := time.Now()
	out, err := s.Generate(ctx, output)
	if err != nil {
		spinner.Fail(core.Summary(err))
		showError(err)
		return exitFailed
	}
	spinner.Success(fmt.Sprintf("Wrote %s (%s)", out, time.Since(start).Round(time.Millisecond)))
	return exitOK
}
