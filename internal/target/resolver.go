package target

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pranshuparmar/daxprobe/internal/proc"
	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// DefaultLoopback lists the socket prefixes that count as loopback.
var DefaultLoopback = []string{"127.0.0.1:", "[::1]:"}

// PortResolver maps a process to the loopback port it is bound to.
type PortResolver interface {
	ResolvePort(ctx context.Context, pid int) (int, error)
}

// CommandRunner runs an external program to completion and returns
// everything it wrote to stdout and stderr.
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// ExecRunner is the CommandRunner backed by os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// NetstatResolver resolves ports from the text table printed by
// `netstat -ano`. The column layout is locale and OS-version dependent, so
// the native resolvers are preferred where one exists.
type NetstatResolver struct {
	Run      CommandRunner
	Loopback []string
}

func (r NetstatResolver) ResolvePort(ctx context.Context, pid int) (int, error) {
	run := r.Run
	if run == nil {
		run = ExecRunner
	}
	stdout, stderr, err := run(ctx, "netstat", "-ano")
	if err != nil {
		return 0, commandFailed("netstat", err, stderr)
	}

	port, ok := FindLoopbackPort(stdout, pid, loopbackOr(r.Loopback))
	if !ok {
		return 0, fmt.Errorf("%w: pid %d", ErrPortNotFound, pid)
	}
	return port, nil
}

// FindLoopbackPort scans netstat output for the first line owned by pid whose
// local socket is on loopback, and returns that socket's port.
//
// Each line is split on whitespace. The last field is the owning pid and the
// field after the protocol is the local socket. The port is whatever follows
// the socket's last colon. Only the first matching line is read: if its port
// is not a number the result is not found.
func FindLoopbackPort(out []byte, pid int, loopback []string) (int, bool) {
	pidStr := strconv.Itoa(pid)

	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		if fields[len(fields)-1] != pidStr {
			continue
		}
		socket := fields[1]
		if !hasAnyPrefix(socket, loopback) {
			continue
		}
		idx := strings.LastIndex(socket, ":")
		port, err := strconv.Atoi(socket[idx+1:])
		if err != nil {
			return 0, false
		}
		return port, true
	}
	return 0, false
}

// LsofResolver asks lsof for the TCP listeners of one process.
type LsofResolver struct {
	Run      CommandRunner
	Loopback []string
}

func (r LsofResolver) ResolvePort(ctx context.Context, pid int) (int, error) {
	run := r.Run
	if run == nil {
		run = ExecRunner
	}
	// -a ANDs the -p and -i selections; lsof exits 1 with no output when the
	// process has no matching sockets.
	stdout, stderr, err := run(ctx, "lsof", "-nP", "-a", "-p", strconv.Itoa(pid), "-iTCP", "-sTCP:LISTEN", "-F", "pcPTn")
	if err != nil {
		if len(stdout) == 0 && len(bytes.TrimSpace(stderr)) == 0 {
			return 0, fmt.Errorf("%w: pid %d", ErrPortNotFound, pid)
		}
		return 0, commandFailed("lsof", err, stderr)
	}

	port, ok := matchConnections(proc.ParseLsof(stdout), pid, loopbackOr(r.Loopback))
	if !ok {
		return 0, fmt.Errorf("%w: pid %d", ErrPortNotFound, pid)
	}
	return port, nil
}

// SocketTableResolver matches against the platform's full connection table
// as listed by List.
type SocketTableResolver struct {
	List     func() ([]model.Connection, error)
	Loopback []string
}

func (r SocketTableResolver) ResolvePort(_ context.Context, pid int) (int, error) {
	list := r.List
	if list == nil {
		list = proc.GetAllConnections
	}
	conns, err := list()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPortResolutionFailed, err)
	}
	port, ok := matchConnections(conns, pid, loopbackOr(r.Loopback))
	if !ok {
		return 0, fmt.Errorf("%w: pid %d", ErrPortNotFound, pid)
	}
	return port, nil
}

// Chain tries each resolver in turn. A resolver that finds nothing hands over
// to the next one; any other failure ends the chain.
type Chain []PortResolver

func (c Chain) ResolvePort(ctx context.Context, pid int) (int, error) {
	err := fmt.Errorf("%w: pid %d", ErrPortNotFound, pid)
	for _, r := range c {
		var port int
		port, err = r.ResolvePort(ctx, pid)
		if err == nil {
			return port, nil
		}
		if !errors.Is(err, ErrPortNotFound) {
			return 0, err
		}
	}
	return 0, err
}

// NewResolver builds the resolver named by kind: "auto", "netstat",
// "procnet", "lsof" or "sockets".
func NewResolver(kind string, loopback []string) (PortResolver, error) {
	switch kind {
	case "", "auto":
		return DefaultResolver(loopback), nil
	case "netstat":
		return NetstatResolver{Loopback: loopback}, nil
	case "lsof":
		return LsofResolver{Loopback: loopback}, nil
	case "procnet":
		return newProcNetResolver(loopback)
	case "sockets":
		return SocketTableResolver{Loopback: loopback}, nil
	default:
		return nil, fmt.Errorf("unknown port resolver %q", kind)
	}
}

// matchConnections picks the port of pid's first loopback listener, falling
// back to its first loopback socket in any state.
func matchConnections(conns []model.Connection, pid int, loopback []string) (int, bool) {
	fallback := 0
	for _, c := range conns {
		if c.PID != pid || c.LocalPort == 0 {
			continue
		}
		socket := net.JoinHostPort(c.LocalAddr, strconv.Itoa(c.LocalPort))
		if !hasAnyPrefix(socket, loopback) {
			continue
		}
		if c.State == "LISTEN" || c.State == "LISTENING" {
			return c.LocalPort, true
		}
		if fallback == 0 {
			fallback = c.LocalPort
		}
	}
	return fallback, fallback != 0
}

func commandFailed(name string, err error, stderr []byte) error {
	msg := strings.TrimSpace(string(stderr))
	if msg == "" {
		return fmt.Errorf("%w: %s: %v", ErrPortResolutionFailed, name, err)
	}
	return fmt.Errorf("%w: %s: %v: %s", ErrPortResolutionFailed, name, err, msg)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func loopbackOr(loopback []string) []string {
	if len(loopback) == 0 {
		return DefaultLoopback
	}
	return loopback
}
