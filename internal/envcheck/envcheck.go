// Package envcheck probes the local environment: which external binaries
// are reachable, whether the process runs inside a container, and how to
// reach the container's host from the inside.
package envcheck

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"abgraph/internal/apperr"
)

// Seams for tests.
var (
	lookPath      = exec.LookPath
	lookupHost    = net.LookupHost
	dockerEnvPath = "/.dockerenv"
	cgroupPath    = "/proc/1/cgroup"
	routePath     = "/proc/net/route"
)

// CommandExists reports whether name resolves on the PATH.
func CommandExists(name string) bool {
	_, err := lookPath(name)
	return err == nil
}

// Ensure verifies that every named binary is reachable, returning a
// missing-command error with remediation instructions for the first one
// that is not.
func Ensure(names ...string) error {
	for _, name := range names {
		if !CommandExists(name) {
			return apperr.MissingCommand(name, remediation(name))
		}
	}
	return nil
}

func remediation(name string) string {
	pkg := map[string]string{
		"ab":       "apache2-utils",
		"gnuplot":  "gnuplot",
		"git":      "git",
		"composer": "composer",
	}[name]
	if pkg == "" {
		pkg = name
	}
	switch runtime.GOOS {
	case "darwin":
		if name == "ab" {
			return "ab ships with macOS; ensure the Xcode command line tools are installed"
		}
		return fmt.Sprintf("install it with: brew install %s", pkg)
	case "linux":
		return fmt.Sprintf("install it with: apt-get install %s (or your distribution's equivalent)", pkg)
	}
	return fmt.Sprintf("install %q and make sure it is on your PATH", name)
}

// InContainer reports whether the process appears to run inside a
// container, judged from /.dockerenv and the init process's cgroups.
func InContainer() bool {
	if _, err := os.Stat(dockerEnvPath); err == nil {
		return true
	}
	data, err := os.ReadFile(cgroupPath)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, "docker") || strings.Contains(line, "lxc") || strings.Contains(line, "kubepods") {
			return true
		}
	}
	return false
}

// IsLoopbackHost reports whether host names the local machine: either a
// literal loopback address or a name resolving only to loopback.
func IsLoopbackHost(host string) bool {
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	addrs, err := lookupHost(host)
	if err != nil || len(addrs) == 0 {
		return false
	}
	for _, addr := range addrs {
		ip := net.ParseIP(addr)
		if ip == nil || !ip.IsLoopback() {
			return false
		}
	}
	return true
}

// HostGatewayIP resolves the address of the container's host. It prefers
// the Docker-provided host.docker.internal name and falls back to the
// default gateway from the kernel routing table.
func HostGatewayIP() (string, error) {
	if addrs, err := lookupHost("host.docker.internal"); err == nil && len(addrs) > 0 {
		return addrs[0], nil
	}
	gw, err := defaultGateway()
	if err != nil {
		return "", apperr.WrapProcess("cannot resolve the container host address", err, "")
	}
	return gw, nil
}

// defaultGateway parses /proc/net/route for the gateway of the default
// route. Fields are hex-encoded little-endian IPv4 addresses.
func defaultGateway() (string, error) {
	data, err := os.ReadFile(routePath)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(data), "\n")[1:] {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[1] != "00000000" {
			continue
		}
		gw, err := parseHexIP(fields[2])
		if err != nil {
			return "", err
		}
		return gw, nil
	}
	return "", fmt.Errorf("no default route found")
}

func parseHexIP(hex string) (string, error) {
	if len(hex) != 8 {
		return "", fmt.Errorf("malformed route entry %q", hex)
	}
	var octets [4]uint8
	for i := 0; i < 4; i++ {
		var b uint8
		if _, err := fmt.Sscanf(hex[i*2:i*2+2], "%02x", &b); err != nil {
			return "", fmt.Errorf("malformed route entry %q", hex)
		}
		// Little-endian: last byte pair is the first octet.
		octets[3-i] = b
	}
	return net.IPv4(octets[0], octets[1], octets[2], octets[3]).String(), nil
}
