package session

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

const (
	// DefaultSlot is the slot PCSX2 listens on unless configured otherwise.
	DefaultSlot uint16 = 28011

	// DefaultName is the endpoint name of PCSX2.
	DefaultName = "pcsx2"
)

// Target names an emulator endpoint.
type Target struct {
	// Name is the emulator's endpoint name, e.g. "pcsx2" or "rpcs3".
	// Empty means DefaultName.
	Name string

	// Slot distinguishes multiple instances and is the TCP port for TCP
	// endpoints. Zero means DefaultSlot, so slot 0 itself cannot be
	// addressed; it is not a dialable TCP port either.
	Slot uint16
}

func (t Target) normalize() Target {
	if t.Name == "" {
		t.Name = DefaultName
	}
	if t.Slot == 0 {
		t.Slot = DefaultSlot
	}
	return t
}

// Endpoint is a dialable transport address.
type Endpoint struct {
	Network string
	Address string
}

// String returns the address in network:address form.
func (e Endpoint) String() string {
	return e.Network + ":" + e.Address
}

// ResolveEndpoint derives the endpoint of target. A non-empty tcpHost selects
// TCP on host:slot; otherwise the platform convention applies. The socket
// file is not required to exist.
func ResolveEndpoint(target Target, tcpHost string) (Endpoint, error) {
	return resolveEndpoint(runtime.GOOS, os.Getenv, target, tcpHost)
}

func resolveEndpoint(goos string, getenv func(string) string, target Target, tcpHost string) (Endpoint, error) {
	t := target.normalize()
	port := strconv.Itoa(int(t.Slot))

	if tcpHost != "" {
		return Endpoint{Network: "tcp", Address: net.JoinHostPort(tcpHost, port)}, nil
	}

	var dir string
	switch goos {
	case "windows":
		return Endpoint{Network: "tcp", Address: net.JoinHostPort("127.0.0.1", port)}, nil
	case "linux":
		dir = getenv("XDG_RUNTIME_DIR")
	case "darwin":
		dir = getenv("TMPDIR")
	default:
		return Endpoint{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
	if dir == "" {
		dir = "/tmp"
	}

	file := t.Name + ".sock"
	if t.Slot != DefaultSlot {
		file += "." + port
	}
	return Endpoint{Network: "unix", Address: filepath.Join(dir, file)}, nil
}
