// Command bfc compiles bracket-language programs to 32-bit ARM assembly.
//
// Each FILE is compiled independently; "-" reads the program from stdin.
// Assembly goes to stdout, or to DIR/<name>.s with -out-dir. A file that
// fails to compile is reported on stderr and skipped; the exit status is 1
// if any file failed.
package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/orizon-lang/bfc/internal/cli"
	"github.com/orizon-lang/bfc/internal/codegen"
	"github.com/orizon-lang/bfc/internal/dump"
	"github.com/orizon-lang/bfc/internal/errors"
	"github.com/orizon-lang/bfc/internal/parser"
	"github.com/orizon-lang/bfc/internal/watch"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var command = cli.CommandInfo{
	Name:        "bfc",
	Usage:       "bfc [options] FILE... (- for stdin)",
	Description: "compile bracket-language programs to ARM assembly",
	Flags: []cli.FlagInfo{
		{Name: "config FILE", Usage: "load settings from a TOML file"},
		{Name: "O0", Usage: "disable constant folding and load elimination"},
		{Name: "lenient", Usage: "ignore stray ] and close unterminated [ at end of input"},
		{Name: "tape-size N", Usage: "size of the reserved tape in bytes", Default: "30000"},
		{Name: "out-dir DIR", Usage: "write DIR/<name>.s per input instead of stdout"},
		{Name: "dump-ir FILE", Usage: "write every stage's output as YAML"},
		{Name: "watch", Usage: "recompile inputs when they change"},
		{Name: "min-version C", Usage: "fail unless the compiler satisfies semver constraint C"},
		{Name: "version", Usage: "print version and exit (-json for JSON)"},
		{Name: "v", Usage: "log progress"},
		{Name: "debug", Usage: "log every stage"},
	},
	Examples: []string{
		"bfc hello.bf > hello.s",
		"cat hello.bf | bfc - > hello.s",
		"bfc -out-dir build -O0 a.bf b.bf",
		"bfc -watch -out-dir build hello.bf",
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	noOpt      bool
	lenient    bool
	tapeSize   int
	outDir     string
	dumpIR     string
	watch      bool
	minVersion string
	version    bool
	jsonOut    bool
	verbose    bool
	debug      bool
}

// stdinName labels diagnostics and output for a program read from stdin.
const stdinName = "stdin"

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var o options
	fs := flag.NewFlagSet("bfc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { cli.PrintCommandUsage(stderr, command) }
	fs.StringVar(&o.configPath, "config", "", "")
	fs.BoolVar(&o.noOpt, "O0", false, "")
	fs.BoolVar(&o.lenient, "lenient", false, "")
	fs.IntVar(&o.tapeSize, "tape-size", 0, "")
	fs.StringVar(&o.outDir, "out-dir", "", "")
	fs.StringVar(&o.dumpIR, "dump-ir", "", "")
	fs.BoolVar(&o.watch, "watch", false, "")
	fs.StringVar(&o.minVersion, "min-version", "", "")
	fs.BoolVar(&o.version, "version", false, "")
	fs.BoolVar(&o.jsonOut, "json", false, "")
	fs.BoolVar(&o.verbose, "v", false, "")
	fs.BoolVar(&o.debug, "debug", false, "")
	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if o.version {
		if err := cli.PrintVersion(stdout, command.Name, o.jsonOut); err != nil {
			fmt.Fprintf(stderr, "bfc: %v\n", err)
			return exitFailure
		}
		return exitOK
	}
	if o.minVersion != "" {
		if err := cli.CheckVersion(o.minVersion); err != nil {
			fmt.Fprintf(stderr, "bfc: %v\n", err)
			return exitFailure
		}
	}
	if err := cli.ValidateArgs(fs.Args(), 1, command.Usage); err != nil {
		fmt.Fprintf(stderr, "bfc: %v\n", err)
		return exitUsage
	}

	if o.watch && slices.Contains(fs.Args(), "-") {
		fmt.Fprintln(stderr, "bfc: -watch cannot be combined with stdin input")
		return exitUsage
	}

	cfg, err := cli.LoadConfig(o.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "bfc: %v\n", err)
		if errors.IsCategory(err, errors.CategoryValidation) {
			return exitUsage
		}
		return exitFailure
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	applyFlags(cfg, &o, set)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "bfc: %v\n", err)
		return exitUsage
	}

	cli.ConfigureLogging(cfg.LogVerbosity)
	log := cli.NewLogger("bfc")

	p, err := codegen.NewPipeline(pipelineOptions(cfg), cli.NewLogger("bfc.pipeline"))
	if err != nil {
		fmt.Fprintf(stderr, "bfc: %v\n", err)
		return exitUsage
	}
	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			fmt.Fprintf(stderr, "bfc: %v\n", err)
			return exitFailure
		}
	}

	d := &driver{
		pipeline: p,
		outDir:   cfg.OutDir,
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
		log:      log,
		failed:   make(map[string]bool),
	}
	var units []dump.Unit
	for _, path := range fs.Args() {
		if rep, ok := d.compile(path); ok {
			units = append(units, dump.FromReport(rep))
		}
	}
	dumpFailed := false

	if o.dumpIR != "" {
		doc := &dump.Document{Compiler: command.Name + " " + cli.GetVersionInfo().Version, Units: units}
		if err := dump.WriteFile(o.dumpIR, doc); err != nil {
			fmt.Fprintf(stderr, "bfc: %v\n", err)
			dumpFailed = true
		} else {
			for _, u := range units {
				log.Debug("dumped %s", u.Summary())
			}
		}
	}

	if o.watch {
		log.Info("watching %d file(s)", len(fs.Args()))
		wlog := cli.NewLogger("bfc.watch")
		inputs := make(map[string]string, len(fs.Args()))
		for _, arg := range fs.Args() {
			if abs, err := filepath.Abs(arg); err == nil {
				inputs[abs] = arg
			}
		}
		err := watch.Run(ctx, fs.Args(), watch.DefaultDebounce, func(path string) error {
			wlog.Info("%s changed", path)
			if arg, ok := inputs[path]; ok {
				path = arg
			}
			d.compile(path)
			return nil
		})
		if err != nil {
			fmt.Fprintf(stderr, "bfc: %v\n", err)
			return exitFailure
		}
	}

	if dumpFailed || d.anyFailed() {
		return exitFailure
	}
	return exitOK
}

func applyFlags(cfg *cli.Config, o *options, set map[string]bool) {
	if set["O0"] && o.noOpt {
		cfg.FoldConstants = false
		cfg.EliminateLoads = false
	}
	if set["lenient"] {
		cfg.StrictBrackets = !o.lenient
	}
	if set["tape-size"] {
		cfg.TapeSize = o.tapeSize
	}
	if set["out-dir"] {
		cfg.OutDir = o.outDir
	}
	switch {
	case o.debug:
		cfg.LogVerbosity = cli.VerbosityDebug
	case o.verbose && cfg.LogVerbosity < cli.VerbosityInfo:
		cfg.LogVerbosity = cli.VerbosityInfo
	}
}

func pipelineOptions(cfg *cli.Config) codegen.Options {
	opts := codegen.DefaultOptions()
	opts.Parser = parser.Options{Lenient: !cfg.StrictBrackets, MaxDepth: cfg.MaxDepth}
	opts.FoldConstants = cfg.FoldConstants
	opts.EliminateLoads = cfg.EliminateLoads
	opts.Layout.TapeSize = cfg.TapeSize
	return opts
}

type driver struct {
	pipeline *codegen.Pipeline
	outDir   string
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	log      *cli.Logger
	// failed holds the outcome of the latest compile of each input, so a
	// file fixed during -watch no longer counts against the exit status.
	failed map[string]bool
}

// compile reports its own failures, so callers only need the outcome.
func (d *driver) compile(path string) (*codegen.Report, bool) {
	rep, ok := d.compileOnce(path)
	d.failed[path] = !ok
	return rep, ok
}

func (d *driver) anyFailed() bool {
	for _, failed := range d.failed {
		if failed {
			return true
		}
	}
	return false
}

func (d *driver) compileOnce(path string) (*codegen.Report, bool) {
	var (
		buf bytes.Buffer
		rep *codegen.Report
		err error
	)
	if path == "-" {
		path = stdinName
		rep, err = d.pipeline.Compile(path, d.stdin, &buf)
	} else {
		rep, err = d.pipeline.CompileFile(path, &buf)
	}
	if err != nil {
		fmt.Fprintf(d.stderr, "bfc: %s: %s error: %v\n", path, kind(err), err)
		return nil, false
	}
	if rep.Tokens == 0 {
		d.log.Warn("%s contains no instructions", path)
	}

	if d.outDir == "" {
		if _, err := buf.WriteTo(d.stdout); err != nil {
			fmt.Fprintf(d.stderr, "bfc: %s: %v\n", path, err)
			return nil, false
		}
		return rep, true
	}

	out := OutputPath(d.outDir, path)
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		fmt.Fprintf(d.stderr, "bfc: %s: %v\n", path, err)
		return nil, false
	}
	d.log.Info("wrote %s", out)
	return rep, true
}

// OutputPath maps an input file to its assembly file under dir.
func OutputPath(dir, input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+".s")
}

func kind(err error) string {
	var se *errors.StandardError
	if stderrors.As(err, &se) {
		return strings.ToLower(string(se.Category))
	}
	return "unknown"
}
