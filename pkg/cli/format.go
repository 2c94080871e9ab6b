// Package cli provides shared formatting helpers for the confgen tools.
package cli

import (
	"os"
	"strings"
)

// colorEnabled is false when NO_COLOR env var is set (per no-color.org).
var colorEnabled = os.Getenv("NO_COLOR") == ""

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
)

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + ansiReset
}

// Green wraps s in ANSI green.
func Green(s string) string { return paint(ansiGreen, s) }

// Yellow wraps s in ANSI yellow.
func Yellow(s string) string { return paint(ansiYellow, s) }

// Red wraps s in ANSI red.
func Red(s string) string { return paint(ansiRed, s) }

// Bold wraps s in ANSI bold.
func Bold(s string) string { return paint(ansiBold, s) }

// Dim wraps s in ANSI dim.
func Dim(s string) string { return paint(ansiDim, s) }

// Status renders an audit outcome as a colored ok/FAIL word.
func Status(success bool) string {
	if success {
		return Green("ok")
	}
	return Red("FAIL")
}

// OrDash returns s, or a dimmed "-" when s is empty. Used for table cells
// such as an unresolved interface name.
func OrDash(s string) string {
	if s == "" {
		return Dim("-")
	}
	return s
}

// DotPad pads name with dots to the given width.
// Example: DotPad("enp3s0", 16) → "enp3s0 ........."
func DotPad(name string, width int) string {
	if width <= 0 || len(name) >= width-1 {
		return name
	}
	return name + " " + strings.Repeat(".", width-len(name)-1)
}
