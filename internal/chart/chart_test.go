package chart

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abgraph/internal/alternative"
)

func noFont(t *testing.T) {
	t.Helper()
	orig := findFont
	t.Cleanup(func() { findFont = orig })
	findFont = func() string { return "" }
}

func newRenderer() *Renderer {
	return &Renderer{
		GnuplotPath: "gnuplot",
		Output:      "/tmp/out.png",
		Width:       640,
		Height:      480,
		Stdout:      io.Discard,
	}
}

func TestScriptOneClausePerAlternative(t *testing.T) {
	noFont(t)
	alts := []*alternative.Alternative{
		{Name: "main", DataFile: "/tmp/a.dat"},
		{Name: "feature/fast", DataFile: "/tmp/b.dat"},
	}

	script := newRenderer().Script(alts)

	assert.Contains(t, script, "set terminal png size 640,480")
	assert.Contains(t, script, `set output "/tmp/out.png"`)
	assert.Contains(t, script, `"/tmp/a.dat" using 10 smooth sbezier with lines title "main"`)
	assert.Contains(t, script, `"/tmp/b.dat" using 10 smooth sbezier with lines title "feature/fast"`)
	assert.Equal(t, 1, strings.Count(script, "plot "), "a single plot statement")
}

func TestScriptSingleAlternative(t *testing.T) {
	noFont(t)
	alts := []*alternative.Alternative{{Name: "http://x.test/", DataFile: "/tmp/a.dat"}}

	script := newRenderer().Script(alts)
	assert.Equal(t, 1, strings.Count(script, "using 10"), "exactly one plot series")
}

func TestScriptEmbedsFontWhenPresent(t *testing.T) {
	orig := findFont
	t.Cleanup(func() { findFont = orig })
	findFont = func() string { return "/fonts/DejaVuSans.ttf" }

	script := newRenderer().Script(nil)
	assert.Contains(t, script, `font "/fonts/DejaVuSans.ttf"`)
}

func TestScriptCustomSize(t *testing.T) {
	noFont(t)
	r := newRenderer()
	r.Width, r.Height = 800, 600

	script := r.Script(nil)
	assert.Contains(t, script, "set terminal png size 800,600")
}

func TestRenderFailureCarriesOutput(t *testing.T) {
	noFont(t)
	orig := execCommand
	t.Cleanup(func() { execCommand = orig })
	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "echo 'line 2: unknown command'; exit 1")
	}

	err := newRenderer().Render(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gnuplot failed")
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRenderDeletesScriptAndTimingFiles(t *testing.T) {
	noFont(t)
	orig := execCommand
	t.Cleanup(func() { execCommand = orig })

	var scriptPath string
	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		require.Len(t, args, 1)
		scriptPath = args[0]
		// The script must exist while gnuplot runs.
		return exec.CommandContext(ctx, "test", "-f", scriptPath)
	}

	timing, err := os.CreateTemp(t.TempDir(), "timing-*.dat")
	require.NoError(t, err)
	timing.Close()

	alt := &alternative.Alternative{Name: "main", DataFile: timing.Name()}
	require.NoError(t, newRenderer().Render(context.Background(), []*alternative.Alternative{alt}))

	_, statErr := os.Stat(scriptPath)
	assert.True(t, os.IsNotExist(statErr), "script removed after rendering")

	_, statErr = os.Stat(timing.Name())
	assert.True(t, os.IsNotExist(statErr), "timing file consumed and deleted")
	assert.Empty(t, alt.DataFile)
}

func TestScriptQuotesTitles(t *testing.T) {
	noFont(t)
	alts := []*alternative.Alternative{{Name: `with "quotes"`, DataFile: "/tmp/a.dat"}}
	script := newRenderer().Script(alts)
	assert.Contains(t, script, fmt.Sprintf("title %q", `with "quotes"`))
}
