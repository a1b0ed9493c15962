// Package bench drives ab against each alternative: prepare, response
// check, warm-up, response check, measure. Alternatives run strictly
// sequentially so measurements never share client-side contention.
package bench

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"time"

	"abgraph/internal/alternative"
	"abgraph/internal/apperr"
	"abgraph/internal/composer"
	"abgraph/internal/envcheck"
	"abgraph/internal/git"
	"abgraph/internal/hosts"
	"abgraph/internal/ui"
)

// Seams for tests.
var (
	execCommand = exec.CommandContext
	patchHosts  = hosts.Patch
)

// Runner holds the per-run benchmark configuration.
type Runner struct {
	// Cycles is the number of measured requests per alternative.
	Cycles int
	// ABPath is the ab executable name, normally "ab".
	ABPath string
	// ProbeTimeout bounds the response checks.
	ProbeTimeout time.Duration
	// WarmupRequests is the size of the throwaway run before measuring.
	WarmupRequests int
	// HostsPath is the hosts file patched when a site carries a resolved
	// IP. Empty disables patching.
	HostsPath string
	// HostIP resolves the host-visible address for loopback sites when
	// running inside a container. Nil when no translation applies. It is
	// called at the moment an alternative actually needs the address,
	// and a failure is fatal to that alternative only.
	HostIP func() (string, error)

	Git      *git.Client
	Composer *composer.Client
	Stdout   io.Writer
}

// Run benchmarks every alternative in order, failing fast on the first
// error.
func (r *Runner) Run(ctx context.Context, alts []*alternative.Alternative) error {
	if len(alts) == 0 {
		return apperr.Failf("nothing to benchmark")
	}
	for _, alt := range alts {
		if err := r.runOne(ctx, alt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runOne(ctx context.Context, alt *alternative.Alternative) (err error) {
	ui.Headingf(r.stdout(), "Benchmarking %s", alt.Name)

	restore, patchErr := r.patchHostsFor(alt)
	if patchErr != nil {
		return patchErr
	}
	if restore != nil {
		// Restore must happen on every exit path of this alternative.
		defer func() {
			if restoreErr := restore(); restoreErr != nil && err == nil {
				err = restoreErr
			}
		}()
	}

	if err := r.prepare(ctx, alt); err != nil {
		return err
	}
	if err := r.checkResponse(ctx, alt); err != nil {
		return err
	}
	if err := r.warmUp(ctx, alt); err != nil {
		return err
	}
	if err := r.checkResponse(ctx, alt); err != nil {
		return err
	}
	return r.measure(ctx, alt)
}

// patchHostsFor applies the hosts-file entry for an alternative whose
// site must be reached through the container host. The gateway address
// is looked up here, not up front, so a lookup failure only surfaces
// once an alternative actually depends on it.
func (r *Runner) patchHostsFor(alt *alternative.Alternative) (func() error, error) {
	ip := alt.Site.IP()
	if ip == "" && r.HostIP != nil && envcheck.IsLoopbackHost(alt.Site.Host()) {
		resolved, err := r.HostIP()
		if err != nil {
			return nil, err
		}
		ip = resolved
		alt.Site = alt.Site.WithIP(ip)
	}
	if ip == "" || r.HostsPath == "" {
		return nil, nil
	}
	return patchHosts(r.HostsPath, ip, alt.Site.Host())
}

func (r *Runner) prepare(ctx context.Context, alt *alternative.Alternative) error {
	if alt.Kind != alternative.KindBranch {
		ui.Stepf(r.stdout(), "Target %s", alt.Site.URL())
		return nil
	}
	ui.Stepf(r.stdout(), "Checking out branch %s", alt.Branch)
	if err := r.Git.Checkout(ctx, alt.Dir, alt.Branch); err != nil {
		return err
	}
	if alt.InstallDeps {
		ui.Stepf(r.stdout(), "Reinstalling dependencies")
		if err := r.Composer.Install(ctx, alt.Dir); err != nil {
			return err
		}
	}
	return nil
}

// checkResponse issues one GET with a bounded timeout and no redirect
// following; anything but a 200 is fatal for the alternative.
func (r *Runner) checkResponse(ctx context.Context, alt *alternative.Alternative) error {
	ui.Stepf(r.stdout(), "Checking that %s responds", alt.Site.URL())
	client := &http.Client{
		Timeout: r.ProbeTimeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, alt.Site.URL(), nil)
	if err != nil {
		return apperr.WrapProcess("cannot build probe request for "+alt.Site.URL(), err, "")
	}
	resp, err := client.Do(req)
	if err != nil {
		return apperr.WrapProcess(alt.Site.URL()+" did not respond", err, "")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return apperr.Failf("%s answered %d, expected 200", alt.Site.URL(), resp.StatusCode)
	}
	return nil
}

func (r *Runner) warmUp(ctx context.Context, alt *alternative.Alternative) error {
	ui.Stepf(r.stdout(), "Warming up (%d requests)", r.WarmupRequests)
	cmd := execCommand(ctx, r.ABPath, "-n", strconv.Itoa(r.WarmupRequests), "-c", "1", alt.Site.URL())
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return apperr.WrapProcess("warm-up run failed for "+alt.Name, err, out.String())
	}
	return nil
}

// measure runs the real benchmark, writing per-request timings to a
// fresh temporary file. On failure the partial file is removed.
func (r *Runner) measure(ctx context.Context, alt *alternative.Alternative) error {
	f, err := os.CreateTemp("", "abgraph-*.dat")
	if err != nil {
		return apperr.WrapProcess("cannot create timing file", err, "")
	}
	dataFile := f.Name()
	f.Close()

	ui.Stepf(r.stdout(), "Measuring %d cycles", r.Cycles)
	cmd := execCommand(ctx, r.ABPath,
		"-n", strconv.Itoa(r.Cycles),
		"-c", "1",
		"-g", dataFile,
		alt.Site.URL())
	var out bytes.Buffer
	// ab narrates its own progress; stream it through.
	cmd.Stdout = io.MultiWriter(r.stdout(), &out)
	cmd.Stderr = io.MultiWriter(r.stdout(), &out)
	if err := cmd.Run(); err != nil {
		os.Remove(dataFile)
		return apperr.WrapProcess(fmt.Sprintf("benchmark run failed for %s", alt.Name), err, out.String())
	}
	alt.DataFile = dataFile
	return nil
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}
