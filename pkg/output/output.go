// Package output provides styled terminal output for the weaver CLI.
//
// Commands print human-facing results through these helpers so styling stays
// consistent. Functions use lipgloss for styling but abstract away the
// details from callers. Diagnostics meant for logs go through package logger.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Bold(true)

	verboseMode bool
	writer      io.Writer = os.Stdout
)

// SetVerbose enables or disables verbose output.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// SetWriter redirects all output, typically to a command's writer.
// A nil writer restores os.Stdout.
func SetWriter(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	writer = w
}

// Success prints a success message in green.
//
// Example:
//
//	output.Success("12 components resolved")
func Success(msg string) {
	fmt.Fprintln(writer, successStyle.Render("✔ "+msg))
}

// Error prints an error message in red.
func Error(msg string) {
	fmt.Fprintln(writer, errorStyle.Render("✖ "+msg))
}

// Warn prints a warning in yellow.
func Warn(msg string) {
	fmt.Fprintln(writer, warnStyle.Render("! "+msg))
}

// Info prints an informational message in cyan.
func Info(msg string) {
	fmt.Fprintln(writer, infoStyle.Render(msg))
}

// Header prints a bold section title.
func Header(msg string) {
	fmt.Fprintln(writer, headerStyle.Render(msg))
}

// Step prints an indented item in gray.
//
// Example:
//
//	output.Step("PROJECT_1.WEBSITE.DATABASE (mysql)")
func Step(msg string) {
	fmt.Fprintln(writer, stepStyle.Render("   "+msg))
}

// Verbose prints a debug message only if verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(writer, stepStyle.Render("· "+msg))
	}
}
