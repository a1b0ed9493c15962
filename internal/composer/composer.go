// Package composer runs the dependency manager after a branch switch.
package composer

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"abgraph/internal/apperr"
)

// Seam for tests.
var execCommand = exec.CommandContext

// Client runs composer in a repository directory.
type Client struct {
	// Binary is the composer executable name, normally "composer".
	Binary string
	// Stdout receives install progress. Defaults to os.Stdout.
	Stdout io.Writer
}

// NewClient creates a composer client using the given executable name.
func NewClient(binary string) *Client {
	if binary == "" {
		binary = "composer"
	}
	return &Client{Binary: binary, Stdout: os.Stdout}
}

// Install runs "composer install" in dir. Output is streamed to the user
// and captured for the error on failure.
func (c *Client) Install(ctx context.Context, dir string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()
	cmd := execCommand(ctx, c.Binary, "install")
	cmd.Dir = dir
	stdout := c.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	var out bytes.Buffer
	cmd.Stdout = io.MultiWriter(stdout, &out)
	cmd.Stderr = io.MultiWriter(stdout, &out)
	if err := cmd.Run(); err != nil {
		return apperr.WrapProcess("composer install failed", err, out.String())
	}
	return nil
}
