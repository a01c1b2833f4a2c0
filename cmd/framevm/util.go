package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cloudcmds/framevm/errz"
	"github.com/cloudcmds/framevm/object"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		var se *errz.StructuredError
		if errors.As(msg, &se) {
			s = strings.TrimSuffix(se.FriendlyErrorMessage(), "\n")
		} else {
			s = msg.Error()
		}
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
}

// newLogger returns a console logger writing to w at the given level.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// parseValue interprets a command line value as an int, float or bool,
// falling back to a string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "True", "true":
		return true
	case "False", "false":
		return false
	case "None":
		return nil
	}
	return s
}

func parseGlobal(s string) (string, any, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("invalid global %q (expected name=value)", s)
	}
	return name, parseValue(value), nil
}

// collectGlobals merges the globals file, if any, with name=value pairs.
// Pairs given on the command line win.
func collectGlobals(path string, pairs []string) (map[string]any, error) {
	globals := map[string]any{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := toml.Unmarshal(data, &globals); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	for _, pair := range pairs {
		name, value, err := parseGlobal(pair)
		if err != nil {
			return nil, err
		}
		globals[name] = value
	}
	return globals, nil
}

var outputFormatsCompletion = []string{"json", "text"}

func getOutput(result object.Object, format string) (string, error) {
	switch strings.ToLower(format) {
	case "":
		// With an unspecified format, try to do the most helpful thing:
		//  1. If the result is None, print nothing
		//  2. If the result marshals to JSON, print that
		//  3. Otherwise, print the result's string representation
		if result == object.None {
			return "", nil
		}
		output, err := getOutputJSON(result.Interface())
		if err != nil {
			return object.Str(result), nil
		}
		return string(output), nil
	case "json":
		output, err := getOutputJSON(result.Interface())
		if err != nil {
			return "", err
		}
		return string(output), nil
	case "text":
		return object.Str(result), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

func getOutputJSON(value any) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(value, "", "  ")
	}
	return prettyjson.Marshal(value)
}
