package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/midbel/cli"
	"github.com/midbel/gnumeric/formula/eval"
	"github.com/midbel/gnumeric/internal/slx"
)

var errFail = errors.New("fail")

var (
	summary = "gnm evaluates the formulas of spreadsheets"
	help    = `gnm loads gnumeric, csv or yaml workbooks and evaluates their formulas.

global options:
  -config <file>  engine configuration (toml)
  -v              print debug messages`
)

var options struct {
	Config  string
	Verbose bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command given in args and returns the exit code of the
// program.
func run(args []string, stderr io.Writer) int {
	var (
		set  = cli.NewFlagSet("gnm")
		root = prepare()
	)
	set.StringVar(&options.Config, "config", "", "engine configuration file")
	set.BoolVar(&options.Verbose, "v", false, "verbose")
	root.SetSummary(summary)
	root.SetHelp(help)
	if err := set.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.Help()
			return 2
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	if err := root.Execute(set.Args()); err != nil {
		if s, ok := err.(cli.SuggestionError); ok && len(s.Others) > 0 {
			fmt.Fprintln(stderr, "similar command(s)")
			for _, n := range s.Others {
				fmt.Fprintln(stderr, "-", n)
			}
		}
		if !errors.Is(err, errFail) {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}
	return 0
}

func prepare() *cli.CommandTrie {
	root := cli.New()
	root.Register(slx.One("eval"), &evalCmd)
	root.Register(slx.One("refs"), &refsCmd)
	root.Register(slx.One("print"), &printCmd)
	root.Register(slx.One("info"), &infoCmd)
	root.Register(slx.One("text"), &textCmd)
	root.Register(slx.One("export"), &exportCmd)
	root.Register(slx.One("convert"), &convertCmd)
	root.Register(slx.One("funcs"), &funcsCmd)
	root.Register(slx.One("repl"), &replCmd)
	return root
}

// setupEngine builds the engine from the global options. The level given in
// the configuration is replaced by debug in verbose mode.
func setupEngine() (*eval.Engine, error) {
	cfg := eval.DefaultConfig()
	if options.Config != "" {
		c, err := eval.LoadConfig(options.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return nil, err
	}
	if options.Verbose {
		level = slog.LevelDebug
	}
	var (
		opts    = slog.HandlerOptions{Level: level}
		handler slog.Handler
	)
	switch cfg.Log.Format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, &opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, &opts)
	}
	engine := eval.NewEngine(
		eval.WithConfig(cfg),
		eval.WithLogger(slog.New(handler)),
	)
	return engine, nil
}
