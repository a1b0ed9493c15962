package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"abgraph/internal/alternative"
	"abgraph/internal/apperr"
	"abgraph/internal/bench"
	"abgraph/internal/chart"
	"abgraph/internal/composer"
	"abgraph/internal/envcheck"
	"abgraph/internal/git"
	"abgraph/internal/options"
)

// Seams for tests.
var (
	inContainer   = envcheck.InContainer
	hostGatewayIP = envcheck.HostGatewayIP
	ensureCommand = envcheck.Ensure
)

// runRoot is the whole pipeline: resolve options, probe the environment,
// build the alternatives, benchmark them sequentially, render the chart.
func runRoot(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, arg := range args {
		if isHelpToken(arg) {
			fmt.Fprintln(out, usageText)
			return nil
		}
	}

	opts := options.Parse(args)
	cfg, err := resolveRunConfig(opts, out)
	if err != nil {
		return err
	}

	if err := ensureCommand(viper.GetString("ab_path"), viper.GetString("gnuplot_path")); err != nil {
		return err
	}

	gitClient := git.NewClient(viper.GetString("git_path"))
	gitClient.Stdout = out

	builder := &alternative.Builder{
		Opts:          opts,
		Git:           gitClient,
		EnsureCommand: ensureResolved,
		Stdout:        out,
	}
	ctx := cmd.Context()
	alts, err := builder.Build(ctx)
	if err != nil {
		return err
	}
	if len(alts) == 0 {
		return apperr.Failf("at least one alternative is required")
	}

	if keys := opts.Remaining(); len(keys) > 0 {
		return apperr.Unrecognized(keys)
	}

	// Timing files are deleted on every exit path; under normal
	// operation the renderer has already consumed and removed them.
	defer func() {
		for _, alt := range alts {
			alt.Cleanup()
		}
	}()

	// Leave the repository on the branch it started on.
	if restore := rememberBranch(ctx, gitClient, alts); restore != nil {
		defer restore()
	}

	runner := &bench.Runner{
		Cycles:         cfg.Cycles,
		ABPath:         viper.GetString("ab_path"),
		ProbeTimeout:   time.Duration(viper.GetInt("probe_timeout")) * time.Second,
		WarmupRequests: viper.GetInt("warmup_requests"),
		HostsPath:      viper.GetString("hosts_path"),
		HostIP:         hostIPResolver(),
		Git:            gitClient,
		Composer:       composer.NewClient(viper.GetString("composer_path")),
		Stdout:         out,
	}
	if err := runner.Run(ctx, alts); err != nil {
		return err
	}

	renderer := &chart.Renderer{
		GnuplotPath: viper.GetString("gnuplot_path"),
		Output:      cfg.Output,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Stdout:      out,
	}
	return renderer.Render(ctx, alts)
}

// ensureResolved maps logical command names (git, composer) through
// their configured binary paths before probing.
func ensureResolved(names ...string) error {
	resolved := make([]string, 0, len(names))
	for _, name := range names {
		if path := viper.GetString(name + "_path"); path != "" {
			name = path
		}
		resolved = append(resolved, name)
	}
	return ensureCommand(resolved...)
}

// hostIPResolver returns the lazy gateway lookup handed to the runner,
// or nil outside a container. The address is resolved at most once, the
// first time an alternative needs it.
func hostIPResolver() func() (string, error) {
	if !inContainer() {
		return nil
	}
	cached := ""
	return func() (string, error) {
		if cached == "" {
			ip, err := hostGatewayIP()
			if err != nil {
				return "", err
			}
			cached = ip
		}
		return cached, nil
	}
}

// rememberBranch records the branch the repository currently has checked
// out and returns a closure restoring it, or nil when not in branch mode.
func rememberBranch(ctx context.Context, gitClient *git.Client, alts []*alternative.Alternative) func() {
	if alts[0].Kind != alternative.KindBranch {
		return nil
	}
	dir := alts[0].Dir
	current, err := gitClient.CurrentBranch(ctx, dir)
	if err != nil || current == "" {
		return nil
	}
	return func() {
		gitClient.Checkout(ctx, dir, current)
	}
}
