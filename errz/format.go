package errz

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Severity is the level a diagnostic is reported at.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

// String returns the label printed in front of a diagnostic message.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityFatal:
		return "fatal error"
	default:
		return "error"
	}
}

func (s Severity) color() *color.Color {
	switch s {
	case SeverityInfo:
		return color.New(color.FgGreen, color.Bold)
	case SeverityWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// DefaultTitle prefixes every diagnostic line.
const DefaultTitle = "bfvm"

// Formatter renders diagnostics as single lines:
//
//	bfvm: hello.bf:3:14: error: no matching ']'
//	bfvm: error: data pointer out of range
type Formatter struct {
	// Title is printed first on every line.
	Title string
	// Program is the name printed before positioned diagnostics.
	Program string
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a formatter for the program at the given path.
func NewFormatter(path string, useColor bool) *Formatter {
	return &Formatter{
		Title:    DefaultTitle,
		Program:  ProgramName(path),
		UseColor: useColor,
	}
}

// ProgramName extracts the program name from a source path.
func ProgramName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

// Format renders err at the given severity. Errors carrying a source
// location are prefixed with program:line:column.
func (f *Formatter) Format(sev Severity, err error) string {
	var se *StructuredError
	if errors.As(err, &se) {
		if se.HasLocation() {
			return f.line(sev, &se.Location, se.Message)
		}
		return f.line(sev, nil, se.Message)
	}
	return f.line(sev, nil, err.Error())
}

// Formatf renders a message with no source location.
func (f *Formatter) Formatf(sev Severity, format string, args ...any) string {
	return f.line(sev, nil, fmt.Sprintf(format, args...))
}

func (f *Formatter) line(sev Severity, loc *SourceLocation, msg string) string {
	var b strings.Builder
	title := f.Title
	if title == "" {
		title = DefaultTitle
	}
	b.WriteString(f.paint(color.New(color.FgWhite, color.Bold), title+": "))
	if loc != nil {
		program := loc.Filename
		if program == "" {
			program = f.Program
		} else {
			program = ProgramName(program)
		}
		b.WriteString(f.paint(color.New(color.FgWhite, color.Bold),
			fmt.Sprintf("%s:%d:%d: ", program, loc.Line, loc.Column)))
	}
	b.WriteString(f.paint(sev.color(), sev.String()+": "))
	b.WriteString(msg)
	return b.String()
}

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}
