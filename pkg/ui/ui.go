package ui

import (
	"fmt"
	"io"
)

// ANSI color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
)

// Pluralize returns the singular or plural form based on count
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// PrintSuccess prints a success message with green color
func PrintSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%sok%s - "+format+"\n", append([]interface{}{ColorGreen, ColorReset}, args...)...)
}

// PrintWarning prints a warning message with yellow color
func PrintWarning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%swarning%s - "+format+"\n", append([]interface{}{ColorYellow, ColorReset}, args...)...)
}

// PrintError prints an error message with red color
func PrintError(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%serror%s - "+format+"\n", append([]interface{}{ColorRed, ColorReset}, args...)...)
}
