package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"abgraph/internal/apperr"
	"abgraph/internal/options"
	"abgraph/internal/ui"
)

const (
	defaultWidth  = 640
	defaultHeight = 480
)

// runConfig is immutable once resolved.
type runConfig struct {
	Cycles        int
	Output        string
	Width, Height int
}

// resolveRunConfig consumes the general options, prompting for anything
// missing. Invalid values supplied via options are fatal; invalid
// interactive answers are re-requested.
func resolveRunConfig(opts *options.Set, out io.Writer) (*runConfig, error) {
	cfg := &runConfig{Width: defaultWidth, Height: defaultHeight}

	if raw, ok := opts.Pop("cycles"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, apperr.InvalidOption("cycles", raw, "expected a positive integer")
		}
		cfg.Cycles = n
	} else {
		for cfg.Cycles <= 0 {
			raw, err := ui.Input("Number of request cycles:", "100")
			if err != nil {
				return nil, err
			}
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				cfg.Cycles = n
			} else {
				fmt.Fprintln(out, "please enter a positive integer")
			}
		}
	}

	if raw, ok := opts.Pop("size"); ok {
		w, h, err := parseSize(raw)
		if err != nil {
			return nil, err
		}
		cfg.Width, cfg.Height = w, h
	}

	if path, ok := opts.Pop("output"); ok {
		cfg.Output = path
	} else {
		for cfg.Output == "" {
			path, err := ui.Input("Output PNG path:", "benchmark.png")
			if err != nil {
				return nil, err
			}
			cfg.Output = path
		}
	}

	if err := resolveOverwrite(opts, cfg.Output); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveOverwrite decides what to do when the output file already
// exists: the --overwrite flag answers without prompting, otherwise the
// user is asked. Declining counts as a user abort.
func resolveOverwrite(opts *options.Set, output string) error {
	overwrite, present, err := opts.PopBool("overwrite")
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(output); statErr != nil {
		return nil
	}
	if present {
		if !overwrite {
			return apperr.Failf("output file %s already exists", output)
		}
		return nil
	}
	overwrite, err = ui.Confirm(fmt.Sprintf("File %s already exists. Overwrite?", output), false)
	if err != nil {
		return err
	}
	if !overwrite {
		return apperr.ErrAborted
	}
	return nil
}

// parseSize parses "<width>x<height>" in pixels.
func parseSize(raw string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(raw), "x")
	if ok {
		width, werr := strconv.Atoi(w)
		height, herr := strconv.Atoi(h)
		if werr == nil && herr == nil && width > 0 && height > 0 {
			return width, height, nil
		}
	}
	return 0, 0, apperr.InvalidOption("size", raw, "expected <width>x<height>, e.g. 800x600")
}
