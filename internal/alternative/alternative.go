// Package alternative defines the benchmarking targets and builds the
// ordered list of them from options or interactive prompts.
package alternative

import (
	"os"

	"abgraph/internal/site"
)

// Kind selects the comparison mode an Alternative belongs to.
type Kind int

const (
	// KindBranch benchmarks one git branch of a shared URL.
	KindBranch Kind = iota
	// KindURL benchmarks a standalone URL.
	KindURL
)

// Alternative is one benchmarking target. For the duration of a run it
// owns the raw timing file produced by ab; Cleanup removes it.
type Alternative struct {
	Kind Kind
	Name string
	Site *site.Site

	// Branch mode only.
	Dir         string
	Branch      string
	InstallDeps bool

	// DataFile is set after a successful measurement and cleared once
	// the file has been deleted.
	DataFile string
}

// Cleanup deletes the timing file if one is still around. Safe to call
// repeatedly and on alternatives that never ran.
func (a *Alternative) Cleanup() {
	if a.DataFile == "" {
		return
	}
	os.Remove(a.DataFile)
	a.DataFile = ""
}
