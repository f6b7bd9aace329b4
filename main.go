package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsonflat/flatten"
	"github.com/mcncl/jsonflat/internal/config"
	"github.com/mcncl/jsonflat/internal/errors"
	"github.com/mcncl/jsonflat/internal/formatter"
	"github.com/mcncl/jsonflat/internal/parser"
	"github.com/mcncl/jsonflat/jsonvalue"
	"github.com/sirupsen/logrus"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Format      string `help:"Output format: json, yaml or env. Overrides the config file." short:"f"`
	Indent      int    `help:"Indentation width for json and yaml output, 0 for compact json. Overrides the config file." default:"-1"`
	Prefix      string `help:"Prefix for variable names in env output." short:"p"`
	Config      string `help:"Path to config file. If not specified, .jsonflat.yml is searched for in the current and parent directories." short:"c" type:"path"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Log    *logrus.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	app := kong.Must(&CLI,
		kong.Name("jsonflat"),
		kong.Description("Flatten JSON into a single-level object keyed by JSON Pointer"),
		kong.UsageOnError(),
	)

	// No arguments at all means interactive mode
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := app.Parse(os.Args[1:]); err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("jsonflat version %s\n", Version)
		return
	}

	log := newLogger(CLI.Debug)

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, CLI.Format, CLI.Indent, CLI.Prefix, CLI.Debug)
	if err != nil {
		fail(errors.NewConfigError(fmt.Sprintf("failed to load configuration: %v", err), err))
	}
	if cfg.Dev.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	log.WithFields(logrus.Fields{
		"config": configPath,
		"format": cfg.Output.Format,
		"indent": cfg.Output.Indent,
	}).Debug("configuration loaded")

	if err := run(&Context{Debug: cfg.Dev.Debug, Config: cfg, Log: log}); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
	fmt.Fprintf(os.Stderr, "\nFor help, run: jsonflat --help\n")
	os.Exit(1)
}

func newLogger(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// run executes the main program logic
func run(ctx *Context) error {
	log := ctx.Log
	if log == nil {
		log = newLogger(ctx.Debug)
	}
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	// 1. Parse JSON input
	root, err := parseInput()
	if err != nil {
		return err
	}
	log.WithField("kind", root.Kind()).Debug("input parsed")

	// 2. Flatten
	flat := flatten.FromValue(root)
	log.WithField("entries", flat.Len()).Debug("document flattened")

	// 3. Render
	out, err := formatter.NewFormatter(cfg).Format(flat)
	if err != nil {
		return err
	}

	// 4. Output the result
	return writeOutput(out)
}

// parseInput reads JSON from file or stdin
func parseInput() (jsonvalue.Value, error) {
	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return jsonvalue.Value{}, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return jsonvalue.Value{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Piped input
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return jsonvalue.Value{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return jsonvalue.Value{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// writeOutput writes the rendered document to file or stdout
func writeOutput(content string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(content), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Flattened output written to %s\n", CLI.Output)
		return nil
	}

	if _, err := fmt.Print(content); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (jsonvalue.Value, error) {
	fmt.Fprintln(os.Stderr, "jsonflat Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return jsonvalue.Value{}, errors.NewInputError("error reading input", err)
	}
	if len(data) == 0 {
		return jsonvalue.Value{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(string(data))
}
