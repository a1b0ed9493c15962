package alternative

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"abgraph/internal/apperr"
	"abgraph/internal/envcheck"
	"abgraph/internal/options"
	"abgraph/internal/site"
	"abgraph/internal/ui"
)

// GitClient is the subset of the git client the builder needs.
type GitClient interface {
	IsRepository(dir string) bool
	Branches(ctx context.Context, dir string) ([]string, error)
}

// Builder constructs the ordered Alternative list for one run.
type Builder struct {
	Opts *options.Set
	Git  GitClient
	// EnsureCommand verifies an external binary up front. Defaults to
	// envcheck.Ensure.
	EnsureCommand func(names ...string) error
	Stdout        io.Writer
}

const doneChoice = "(done picking branches)"

// Build resolves the comparison mode and constructs the alternatives.
// Mode and every other missing value fall back to interactive prompts;
// invalid values supplied via options are fatal.
func (b *Builder) Build(ctx context.Context) ([]*Alternative, error) {
	kind, present := b.Opts.Pop("kind")
	if !present {
		choice, err := ui.Select("What do you want to compare?", []string{
			"branch - git branches of one codebase serving one URL",
			"url - several URLs",
		})
		if err != nil {
			return nil, err
		}
		kind = "url"
		if strings.HasPrefix(choice, "branch") {
			kind = "branch"
		}
	}

	switch kind {
	case "branch":
		return b.buildBranches(ctx)
	case "url":
		return b.buildURLs()
	}
	return nil, apperr.InvalidOption("kind", kind, "expected branch or url")
}

func (b *Builder) buildBranches(ctx context.Context) ([]*Alternative, error) {
	if err := b.ensure("git"); err != nil {
		return nil, err
	}

	dir, err := b.resolveDir()
	if err != nil {
		return nil, err
	}
	shared, err := b.resolveSharedSite()
	if err != nil {
		return nil, err
	}
	installDeps, err := b.resolveInstallDeps()
	if err != nil {
		return nil, err
	}

	known, err := b.Git.Branches(ctx, dir)
	if err != nil {
		return nil, err
	}
	if len(known) == 0 {
		return nil, apperr.Failf("repository %s has no local branches", dir)
	}

	names, err := b.resolveBranchNames(known)
	if err != nil {
		return nil, err
	}

	alts := make([]*Alternative, 0, len(names))
	for _, name := range names {
		alts = append(alts, &Alternative{
			Kind:        KindBranch,
			Name:        name,
			Site:        shared,
			Dir:         dir,
			Branch:      name,
			InstallDeps: installDeps,
		})
	}
	return alts, nil
}

func (b *Builder) resolveDir() (string, error) {
	if dir, ok := b.Opts.Pop("dir"); ok {
		if !b.Git.IsRepository(dir) {
			return "", apperr.InvalidOption("dir", dir, "not a git repository (no .git/config)")
		}
		return dir, nil
	}
	def, _ := os.Getwd()
	for {
		dir, err := ui.Input("Path to the git repository:", def)
		if err != nil {
			return "", err
		}
		if dir != "" && b.Git.IsRepository(dir) {
			return dir, nil
		}
		fmt.Fprintf(b.stdout(), "%s is not a git repository, try again\n", dir)
	}
}

func (b *Builder) resolveSharedSite() (*site.Site, error) {
	if raw, ok := b.Opts.Pop("url"); ok {
		s, err := site.Parse(raw)
		if err != nil {
			return nil, apperr.InvalidOption("url", raw, err.Error())
		}
		return s, nil
	}
	return b.promptSite("URL to benchmark:", true)
}

func (b *Builder) resolveInstallDeps() (bool, error) {
	installDeps, present, err := b.Opts.PopBool("composer")
	if err != nil {
		return false, err
	}
	if !present {
		installDeps, err = ui.Confirm("Run composer install after each branch switch?", false)
		if err != nil {
			return false, err
		}
	}
	if installDeps {
		// Checked up front so a missing composer does not abort the run
		// halfway through the sweep.
		if err := b.ensure("composer"); err != nil {
			return false, err
		}
	}
	return installDeps, nil
}

// resolveBranchNames reads contiguous --branchN options, or falls back to
// a menu of the known branches (most recent first).
func (b *Builder) resolveBranchNames(known []string) ([]string, error) {
	var names []string
	for i := 1; ; i++ {
		opt := fmt.Sprintf("branch%d", i)
		name, ok := b.Opts.Pop(opt)
		if !ok {
			break
		}
		if !contains(known, name) {
			return nil, apperr.InvalidOption(opt, name, "not a local branch of the repository")
		}
		names = append(names, name)
	}
	if len(names) > 0 {
		return names, nil
	}

	for {
		// A branch already picked would only yield a duplicate
		// alternative, so it is no longer offered.
		available := make([]string, 0, len(known))
		for _, branch := range known {
			if !contains(names, branch) {
				available = append(available, branch)
			}
		}
		if len(available) == 0 {
			return names, nil
		}
		choices := available
		if len(names) > 0 {
			choices = append([]string{doneChoice}, available...)
		}
		msg := fmt.Sprintf("Pick branch #%d:", len(names)+1)
		choice, err := ui.Select(msg, choices)
		if err != nil {
			return nil, err
		}
		if choice == doneChoice {
			return names, nil
		}
		names = append(names, choice)
	}
}

func (b *Builder) buildURLs() ([]*Alternative, error) {
	var sites []*site.Site
	for i := 1; ; i++ {
		opt := fmt.Sprintf("url%d", i)
		raw, ok := b.Opts.Pop(opt)
		if !ok {
			break
		}
		s, err := site.Parse(raw)
		if err != nil {
			return nil, apperr.InvalidOption(opt, raw, err.Error())
		}
		sites = append(sites, s)
	}

	if len(sites) == 0 {
		for {
			required := len(sites) == 0
			msg := fmt.Sprintf("URL #%d:", len(sites)+1)
			if !required {
				msg = fmt.Sprintf("URL #%d (empty to finish):", len(sites)+1)
			}
			s, err := b.promptSite(msg, required)
			if err != nil {
				return nil, err
			}
			if s == nil {
				break
			}
			sites = append(sites, s)
		}
	}

	alts := make([]*Alternative, 0, len(sites))
	for _, s := range sites {
		alts = append(alts, &Alternative{Kind: KindURL, Name: s.URL(), Site: s})
	}
	return alts, nil
}

// promptSite asks for a URL until it parses. When required is false an
// empty answer returns (nil, nil) to signal the end of collection.
func (b *Builder) promptSite(message string, required bool) (*site.Site, error) {
	for {
		raw, err := ui.Input(message, "")
		if err != nil {
			return nil, err
		}
		if raw == "" {
			if !required {
				return nil, nil
			}
			continue
		}
		s, err := site.Parse(raw)
		if err != nil {
			fmt.Fprintf(b.stdout(), "%v, try again\n", err)
			continue
		}
		return s, nil
	}
}

func (b *Builder) ensure(names ...string) error {
	ensure := b.EnsureCommand
	if ensure == nil {
		ensure = envcheck.Ensure
	}
	return ensure(names...)
}

func (b *Builder) stdout() io.Writer {
	if b.Stdout != nil {
		return b.Stdout
	}
	return os.Stdout
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
