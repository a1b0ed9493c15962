// Package hosts patches the system host-name resolution file for the
// duration of a benchmark run. The patch is scoped: Patch returns a
// restore function that the caller defers, so the original contents come
// back on every exit path.
package hosts

import (
	"fmt"
	"os"

	"abgraph/internal/apperr"
)

// DefaultPath is the hosts file on every platform this tool targets.
const DefaultPath = "/etc/hosts"

// Patch prepends a "ip hostname" entry to the hosts file at path and
// returns a function restoring the exact original bytes. The snapshot is
// taken before any modification, so restoration is bit-identical.
func Patch(path, ip, hostname string) (restore func() error, err error) {
	original, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.WrapProcess(fmt.Sprintf("cannot read hosts file %s", path), err, "")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperr.WrapProcess(fmt.Sprintf("cannot stat hosts file %s", path), err, "")
	}
	mode := info.Mode().Perm()

	entry := fmt.Sprintf("%s %s\n", ip, hostname)
	if err := os.WriteFile(path, append([]byte(entry), original...), mode); err != nil {
		return nil, apperr.WrapProcess(fmt.Sprintf("cannot patch hosts file %s", path), err, "")
	}

	return func() error {
		if err := os.WriteFile(path, original, mode); err != nil {
			return apperr.WrapProcess(fmt.Sprintf("cannot restore hosts file %s", path), err, "")
		}
		return nil
	}, nil
}
