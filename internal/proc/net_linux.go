//go:build linux

package proc

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// tcpStates maps the hex st column of /proc/net/tcp to netstat names.
var tcpStates = map[int64]string{
	0x01: "ESTABLISHED",
	0x02: "SYN_SENT",
	0x03: "SYN_RECV",
	0x04: "FIN_WAIT1",
	0x05: "FIN_WAIT2",
	0x06: "TIME_WAIT",
	0x07: "CLOSE",
	0x08: "CLOSE_WAIT",
	0x09: "LAST_ACK",
	0x0A: "LISTEN",
	0x0B: "CLOSING",
}

func parseAddr(raw string, ipv6 bool) (string, int) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return "", 0
	}
	port, _ := strconv.ParseInt(parts[1], 16, 32)

	b, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", int(port)
	}

	if ipv6 {
		if len(b) != 16 {
			return "::", int(port)
		}
		// /proc/net/tcp6 stores IPv6 as 4 little-endian 32-bit groups
		ip := make(net.IP, 16)
		for i := 0; i < 4; i++ {
			ip[i*4+0] = b[i*4+3]
			ip[i*4+1] = b[i*4+2]
			ip[i*4+2] = b[i*4+1]
			ip[i*4+3] = b[i*4+0]
		}
		return ip.String(), int(port)
	}

	if len(b) < 4 {
		return "", int(port)
	}
	return net.IPv4(b[3], b[2], b[1], b[0]).String(), int(port)
}

// socketOwners maps socket inodes to the pid holding them open. When only is
// non-zero just that process's fd table is read.
func socketOwners(only int) map[string]int {
	owners := make(map[string]int)

	var pids []int
	if only > 0 {
		pids = []int{only}
	} else {
		entries, _ := os.ReadDir("/proc")
		for _, e := range entries {
			if pid, err := strconv.Atoi(e.Name()); err == nil {
				pids = append(pids, pid)
			}
		}
	}

	for _, pid := range pids {
		fdPath := fmt.Sprintf("/proc/%d/fd", pid)
		fds, err := os.ReadDir(fdPath)
		if err != nil {
			continue
		}
		for _, fd := range fds {
			link, err := os.Readlink(fdPath + "/" + fd.Name())
			if err != nil {
				continue
			}
			if strings.HasPrefix(link, "socket:[") {
				owners[link[8:len(link)-1]] = pid
			}
		}
	}
	return owners
}

func readConnections(owners map[string]int, withUDP bool) []model.Connection {
	var connections []model.Connection
	names := make(map[int]string)

	parse := func(path string, protocol string, ipv6 bool) {
		f, err := os.Open(path)
		if err != nil {
			return
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Scan() // skip header

		for scanner.Scan() {
			fields := strings.Fields(scanner.Text())
			if len(fields) < 10 {
				continue
			}

			pid, ok := owners[fields[9]]
			if !ok {
				continue
			}
			if _, seen := names[pid]; !seen {
				names[pid] = commName(pid)
			}

			localIP, localPort := parseAddr(fields[1], ipv6)
			remoteIP, remotePort := parseAddr(fields[2], ipv6)

			state := ""
			if protocol == "TCP" {
				st, _ := strconv.ParseInt(fields[3], 16, 64)
				state = tcpStates[st]
			}

			connections = append(connections, model.Connection{
				Protocol:   protocol,
				LocalAddr:  localIP,
				LocalPort:  localPort,
				RemoteAddr: remoteIP,
				RemotePort: remotePort,
				State:      state,
				PID:        pid,
				Process:    names[pid],
			})
		}
	}

	parse("/proc/net/tcp", "TCP", false)
	parse("/proc/net/tcp6", "TCP", true)
	if withUDP {
		parse("/proc/net/udp", "UDP", false)
		parse("/proc/net/udp6", "UDP", true)
	}
	return connections
}

// GetAllConnections reads every TCP and UDP socket whose owner is visible to
// the caller.
func GetAllConnections() ([]model.Connection, error) {
	return readConnections(socketOwners(0), true), nil
}

// GetTCPConnectionsForPID reads only the TCP sockets owned by pid.
func GetTCPConnectionsForPID(pid int) ([]model.Connection, error) {
	if _, err := os.Stat(fmt.Sprintf("/proc/%d", pid)); err != nil {
		return nil, fmt.Errorf("process %d: %w", pid, err)
	}
	return readConnections(socketOwners(pid), false), nil
}
