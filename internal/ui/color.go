// Package ui provides terminal UI utilities for rcstrings.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color function types for styled output.
var (
	// Success is used for successful operations (green).
	Success = color.New(color.FgGreen).SprintFunc()
	// Error is used for errors and failures (red).
	Error = color.New(color.FgRed).SprintFunc()
	// Warning is used for warnings and cautions (yellow).
	Warning = color.New(color.FgYellow).SprintFunc()
	// Info is used for informational messages (cyan).
	Info = color.New(color.FgCyan).SprintFunc()
	// Bold is used for emphasis (bold white).
	Bold = color.New(color.Bold).SprintFunc()
	// Dim is used for secondary information (faint).
	Dim = color.New(color.Faint).SprintFunc()
	// Header is used for table headers (bold cyan).
	Header = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Status symbols with colors.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolSkipped = "-"
	SymbolPending = "○"
)

// StatusSuccess returns a green checkmark with optional message.
func StatusSuccess(msg string) string {
	if msg == "" {
		return Success(SymbolSuccess)
	}
	return Success(SymbolSuccess) + " " + msg
}

// StatusError returns a red X with optional message.
func StatusError(msg string) string {
	if msg == "" {
		return Error(SymbolError)
	}
	return Error(SymbolError) + " " + msg
}

// StatusWarning returns a yellow warning with optional message.
func StatusWarning(msg string) string {
	if msg == "" {
		return Warning(SymbolWarning)
	}
	return Warning(SymbolWarning) + " " + msg
}

// StatusSkipped returns a dimmed skip symbol with optional message.
func StatusSkipped(msg string) string {
	if msg == "" {
		return Dim(SymbolSkipped)
	}
	return Dim(SymbolSkipped) + " " + msg
}

// DisableColors disables all color output.
// This is useful for piping output or for users who prefer no colors.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output.
func EnableColors() {
	color.NoColor = false
}

// IsColorEnabled returns whether colors are currently enabled.
func IsColorEnabled() bool {
	return !color.NoColor
}

// Color modes accepted by ApplyColorMode.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ApplyColorMode enables or disables color output. In auto mode colors are
// used only when out is a terminal and NO_COLOR is unset.
func ApplyColorMode(mode string, out *os.File) error {
	switch mode {
	case ColorAlways:
		EnableColors()
	case ColorNever:
		DisableColors()
	case ColorAuto, "":
		if os.Getenv("NO_COLOR") != "" || out == nil || !IsTerminal(out) {
			DisableColors()
		} else {
			EnableColors()
		}
	default:
		return fmt.Errorf("unknown color mode %q (want auto, always or never)", mode)
	}
	return nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 - file descriptors fit in int
}

var titleCaser = cases.Title(language.English)

// Title capitalizes each word of s, for labels such as backup kinds.
func Title(s string) string {
	return titleCaser.String(s)
}
