// Command wisp compiles wisp source files into WebAssembly modules.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/deepnoodle-ai/wisp"
	"github.com/deepnoodle-ai/wisp/dis"
	wisperrors "github.com/deepnoodle-ai/wisp/errors"
)

var (
	version = "dev"
)

func main() {
	var (
		output      string
		showDis     bool
		showVersion bool
		verbose     bool
		noColor     bool
	)
	pflag.StringVarP(&output, "output", "o", "", "output file (defaults to the input name with a .wasm extension)")
	pflag.BoolVar(&showDis, "dis", false, "print a disassembly of the compiled module")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	pflag.BoolVar(&noColor, "no-color", false, "disable colored output")
	pflag.BoolVar(&showVersion, "version", false, "print version information")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: wisp [flags] file.wisp\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	logger := newLogger(verbose)

	if showVersion {
		fmt.Printf("wisp %s\n", version)
		return
	}

	args := pflag.Args()
	if len(args) != 1 {
		pflag.Usage()
		os.Exit(2)
	}
	inputPath := args[0]

	source, err := os.ReadFile(inputPath)
	if err != nil {
		logger.Error().Err(err).Str("path", inputPath).Msg("failed to read input")
		os.Exit(1)
	}

	start := time.Now()
	module, err := wisp.CompileModule(string(source), wisp.WithFilename(inputPath))
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	encoded := module.Encode()
	logger.Debug().
		Str("path", inputPath).
		Int("bytes", len(encoded)).
		Dur("elapsed", time.Since(start)).
		Msg("compiled module")

	if showDis {
		text, err := dis.Module(module)
		if err != nil {
			logger.Error().Err(err).Msg("disassembly failed")
			os.Exit(1)
		}
		fmt.Print(text)
	}

	if output == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		output = base + ".wasm"
	}
	if err := os.WriteFile(output, encoded, 0o644); err != nil {
		logger.Error().Err(err).Str("path", output).Msg("failed to write module")
		os.Exit(1)
	}
	logger.Info().Str("path", output).Int("bytes", len(encoded)).Msg("wrote module")
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// printError prints compile and syntax errors with source context; any
// other error is printed plainly.
func printError(err error) {
	if fe, ok := err.(wisperrors.FormattableError); ok {
		formatter := wisperrors.NewFormatter(!color.NoColor)
		fmt.Fprintln(os.Stderr, formatter.Format(fe.ToFormatted()))
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
