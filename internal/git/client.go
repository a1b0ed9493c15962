// Package git wraps the git operations the branch comparison needs.
package git

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"abgraph/internal/apperr"
)

// Seam for tests.
var execCommand = exec.CommandContext

// Client handles git interactions for one run.
type Client struct {
	// Binary is the git executable name, normally "git".
	Binary string
	// Stdout receives checkout progress. Defaults to os.Stdout.
	Stdout io.Writer
}

// NewClient creates a git client using the given executable name.
func NewClient(binary string) *Client {
	if binary == "" {
		binary = "git"
	}
	return &Client{Binary: binary, Stdout: os.Stdout}
}

// IsRepository reports whether dir looks like a git working copy: the
// directory exists and carries a .git/config file.
func (c *Client) IsRepository(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git", "config"))
	return err == nil && info.Mode().IsRegular()
}

// Branches lists the local branches of dir, most recently committed
// first. The list is fetched once per run and threaded through the
// builder; there is no hidden cache.
func (c *Client) Branches(ctx context.Context, dir string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	cmd := execCommand(ctx, c.Binary, "branch", "--list", "--sort=-committerdate", "--format=%(refname:short)")
	cmd.Dir = dir
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return nil, apperr.WrapProcess("git branch --list failed", err, out.String()+errBuf.String())
	}
	return parseBranches(out.String()), nil
}

func parseBranches(output string) []string {
	var branches []string
	for _, line := range strings.Split(output, "\n") {
		name := strings.TrimSpace(line)
		if name != "" {
			branches = append(branches, name)
		}
	}
	return branches
}

// CurrentBranch returns the name of the branch dir currently has checked
// out, or "" for a detached HEAD.
func (c *Client) CurrentBranch(ctx context.Context, dir string) (string, error) {
	cmd := execCommand(ctx, c.Binary, "branch", "--show-current")
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", apperr.WrapProcess("git branch --show-current failed", err, out.String())
	}
	return strings.TrimSpace(out.String()), nil
}

// Checkout switches dir to branch. Output is captured and attached to
// the error on failure.
func (c *Client) Checkout(ctx context.Context, dir, branch string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	cmd := execCommand(ctx, c.Binary, "checkout", branch)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = io.MultiWriter(c.stdout(), &out)
	cmd.Stderr = io.MultiWriter(c.stdout(), &out)
	if err := cmd.Run(); err != nil {
		return apperr.WrapProcess("git checkout "+branch+" failed", err, out.String())
	}
	return nil
}

func (c *Client) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}
