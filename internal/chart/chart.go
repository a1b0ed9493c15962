// Package chart renders the comparison PNG by generating a gnuplot
// script over each alternative's timing file and invoking gnuplot once.
package chart

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"abgraph/internal/alternative"
	"abgraph/internal/apperr"
	"abgraph/internal/ui"
)

// Seam for tests.
var execCommand = exec.CommandContext

// fontCandidates are probed in order; the first file that exists is
// embedded in the script, otherwise gnuplot's default font is used.
var fontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/Library/Fonts/Verdana.ttf",
	"/System/Library/Fonts/Supplemental/Verdana.ttf",
}

// Renderer holds the chart configuration for one run.
type Renderer struct {
	// GnuplotPath is the gnuplot executable name, normally "gnuplot".
	GnuplotPath string
	// Output is the destination PNG path.
	Output string
	// Width and Height are the image dimensions in pixels.
	Width, Height int

	Stdout io.Writer
}

// Render writes the gnuplot script to a temporary file, runs gnuplot and
// removes the script again on every path. On success each alternative's
// timing file has been consumed and is deleted.
func (r *Renderer) Render(ctx context.Context, alts []*alternative.Alternative) error {
	ui.Headingf(r.stdout(), "Rendering chart")

	script, err := os.CreateTemp("", "abgraph-*.gp")
	if err != nil {
		return apperr.WrapProcess("cannot create gnuplot script", err, "")
	}
	defer os.Remove(script.Name())

	if _, err := script.WriteString(r.Script(alts)); err != nil {
		script.Close()
		return apperr.WrapProcess("cannot write gnuplot script", err, "")
	}
	if err := script.Close(); err != nil {
		return apperr.WrapProcess("cannot write gnuplot script", err, "")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	cmd := execCommand(ctx, r.GnuplotPath, script.Name())
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return apperr.WrapProcess("gnuplot failed", err, out.String())
	}

	for _, alt := range alts {
		alt.Cleanup()
	}
	ui.Successf(r.stdout(), "Chart written to %s", r.Output)
	return nil
}

// Script assembles the gnuplot script: one plot clause per alternative,
// sourcing column 10 (per-request elapsed time) of its timing file with
// a smoothing spline.
func (r *Renderer) Script(alts []*alternative.Alternative) string {
	var b strings.Builder

	terminal := fmt.Sprintf("set terminal png size %d,%d", r.Width, r.Height)
	if font := findFont(); font != "" {
		terminal += fmt.Sprintf(" font %q", font)
	}
	b.WriteString(terminal + "\n")
	fmt.Fprintf(&b, "set output %q\n", r.Output)
	b.WriteString("set title \"Benchmark comparison\"\n")
	b.WriteString("set xlabel \"request\"\n")
	b.WriteString("set ylabel \"response time (ms)\"\n")
	b.WriteString("set grid y\n")
	b.WriteString("set key left top\n")

	clauses := make([]string, 0, len(alts))
	for _, alt := range alts {
		clauses = append(clauses, fmt.Sprintf("%q using 10 smooth sbezier with lines title %q",
			alt.DataFile, alt.Name))
	}
	b.WriteString("plot " + strings.Join(clauses, ", \\\n     ") + "\n")
	return b.String()
}

// findFont is a seam in tests.
var findFont = func() string {
	for _, path := range fontCandidates {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func (r *Renderer) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}
