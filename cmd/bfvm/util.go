package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/deepnoodle-ai/bfvm/errz"
	"github.com/deepnoodle-ai/bfvm/vm"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var errNoSources = errors.New("no sources")

func sourcePath(args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", errNoSources
	}
	return args[0], nil
}

func fatal(msg interface{}) {
	var err error
	switch msg := msg.(type) {
	case error:
		err = msg
	default:
		err = fmt.Errorf("%v", msg)
	}
	formatter := errz.NewFormatter("", !color.NoColor)
	fmt.Fprintln(os.Stderr, formatter.Format(errz.SeverityFatal, err))
	os.Exit(1)
}

// reportError writes a single diagnostic line for err. A missing source
// path is reported as fatal.
func reportError(w io.Writer, err error) {
	sev := errz.SeverityError
	if errors.Is(err, errNoSources) {
		sev = errz.SeverityFatal
	}
	formatter := errz.NewFormatter("", !color.NoColor)
	fmt.Fprintln(w, formatter.Format(sev, err))
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func getOutputJSON(result any) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(result, "", "  ")
	}
	return prettyjson.Marshal(result)
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() error {
	if viper.GetBool("no-color") || !isTerminal(os.Stderr) {
		color.NoColor = true
	}
	return configureLogging(os.Stderr)
}

// configureLogging installs the global logger. --trace lowers the level to
// trace so step events are written.
func configureLogging(w io.Writer) error {
	level := viper.GetString("log-level")
	if viper.GetBool("trace") {
		level = zerolog.TraceLevel.String()
	}
	logger, err := newLogger(w, level)
	if err != nil {
		return err
	}
	log.Logger = logger
	return nil
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	if level == "" {
		level = zerolog.WarnLevel.String()
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %q", level)
	}
	console := zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor}
	return zerolog.New(console).Level(lvl).With().Timestamp().Logger(), nil
}

// traceObserver logs every executed instruction at trace level.
func traceObserver(logger zerolog.Logger) vm.Observer {
	return vm.ObserverFunc(func(event vm.StepEvent) bool {
		logger.Trace().
			Int("ip", event.IP).
			Str("op", event.OpcodeName).
			Stringer("loc", event.Location).
			Int("dp", event.DataPointer).
			Uint8("cell", event.Cell).
			Msg("step")
		return true
	})
}
