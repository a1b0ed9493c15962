package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // Cyan

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")). // Green
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("63")). // Purple
			Padding(0, 1)
)

// Stepf prints a progress line.
func Stepf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, stepStyle.Render("==> "+fmt.Sprintf(format, args...)))
}

// Successf prints a completion line.
func Successf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints a failure line, normally to stderr.
func Errorf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf(format, args...)))
}

// Headingf prints a section heading.
func Headingf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf(format, args...)))
}
