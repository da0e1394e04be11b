package proc

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// The parsers below take raw tool output so they can be exercised on any
// platform; the OS-specific files only decide where the bytes come from.

// ParseTasklist parses `tasklist /FO CSV /NH` output:
//
//	"msmdsrv.exe","10432","Console","1","512,340 K"
func ParseTasklist(out []byte) ([]model.ProcessSummary, error) {
	r := csv.NewReader(bytes.NewReader(out))
	r.FieldsPerRecord = -1

	var processes []model.ProcessSummary
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse tasklist output: %w", err)
		}
		if len(rec) < 2 {
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			// "INFO: No tasks are running which match the specified criteria."
			continue
		}
		processes = append(processes, model.ProcessSummary{
			PID:     pid,
			Command: strings.TrimSpace(rec[0]),
		})
	}
	return processes, nil
}

// ParsePs parses `ps -e -o pid,ppid,user,comm` output, header included.
func ParsePs(out []byte) []model.ProcessSummary {
	var processes []model.ProcessSummary

	lines := strings.Split(string(out), "\n")
	for i, line := range lines {
		if i == 0 || len(line) == 0 {
			continue // skip header
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		ppid, _ := strconv.Atoi(fields[1])

		processes = append(processes, model.ProcessSummary{
			PID:     pid,
			PPID:    ppid,
			User:    fields[2],
			Command: strings.Join(fields[3:], " "),
		})
	}
	return processes
}

// parseStat pulls the command name and parent pid out of /proc/<pid>/stat.
// The name sits in parentheses and may itself contain spaces or ')'.
func parseStat(data []byte) (string, int, error) {
	s := string(data)
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return "", 0, fmt.Errorf("malformed stat line")
	}
	comm := s[open+1 : end]
	rest := strings.Fields(s[end+1:])
	if len(rest) < 2 {
		return comm, 0, fmt.Errorf("malformed stat line")
	}
	ppid, err := strconv.Atoi(rest[1])
	if err != nil {
		return comm, 0, fmt.Errorf("malformed ppid %q", rest[1])
	}
	return comm, ppid, nil
}

// ParseNetstat parses `netstat -ano` output into connections:
//
//	Proto  Local Address          Foreign Address        State           PID
//	TCP    127.0.0.1:50484        0.0.0.0:0              LISTENING       10432
//	UDP    0.0.0.0:5353           *:*                                    2204
func ParseNetstat(out []byte) []model.Connection {
	var connections []model.Connection

	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		proto := strings.ToUpper(fields[0])
		if !strings.HasPrefix(proto, "TCP") && !strings.HasPrefix(proto, "UDP") {
			continue
		}
		pid, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			continue
		}

		localAddr, localPort := SplitAddr(fields[1])
		remoteAddr, remotePort := SplitAddr(fields[2])
		state := ""
		if len(fields) >= 5 {
			state = fields[3]
		}

		connections = append(connections, model.Connection{
			Protocol:   proto[:3],
			LocalAddr:  localAddr,
			LocalPort:  localPort,
			RemoteAddr: remoteAddr,
			RemotePort: remotePort,
			State:      state,
			PID:        pid,
		})
	}
	return connections
}

// ParseLsof parses `lsof -F pcPTn` field output. Each process starts with a
// 'p' line; every 'n' line after it is one socket of that process, and the
// TST= line following an 'n' line carries that socket's TCP state.
func ParseLsof(out []byte) []model.Connection {
	var connections []model.Connection

	var (
		pid   int
		comm  string
		proto string
		last  = -1
	)
	for _, line := range strings.Split(string(out), "\n") {
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case 'p':
			pid, _ = strconv.Atoi(line[1:])
			comm = ""
			last = -1
		case 'c':
			comm = line[1:]
		case 'P':
			proto = line[1:]
		case 'T':
			if state, ok := strings.CutPrefix(line, "TST="); ok && last >= 0 {
				connections[last].State = state
			}
		case 'n':
			// n127.0.0.1:8080 or n127.0.0.1:8080->127.0.0.1:54321
			addr := line[1:]
			var c model.Connection
			if local, remote, ok := strings.Cut(addr, "->"); ok {
				c.LocalAddr, c.LocalPort = SplitAddr(local)
				c.RemoteAddr, c.RemotePort = SplitAddr(remote)
			} else {
				c.LocalAddr, c.LocalPort = SplitAddr(addr)
			}
			if c.LocalPort == 0 {
				last = -1
				continue
			}
			c.Protocol = proto
			c.PID = pid
			c.Process = comm
			connections = append(connections, c)
			last = len(connections) - 1
		}
	}
	return connections
}

// SplitAddr splits "127.0.0.1:8080", "[::1]:8080" or "*:8080" into address
// and port. A port that does not parse is returned as 0.
func SplitAddr(addr string) (string, int) {
	if strings.HasPrefix(addr, "[") {
		end := strings.LastIndex(addr, "]")
		if end == -1 {
			return "", 0
		}
		ip := addr[1:end]
		rest := addr[end+1:]
		if len(rest) < 2 || rest[0] != ':' {
			return ip, 0
		}
		port, _ := strconv.Atoi(rest[1:])
		return ip, port
	}

	idx := strings.LastIndex(addr, ":")
	if idx == -1 {
		return addr, 0
	}
	ip := addr[:idx]
	if ip == "*" {
		ip = "0.0.0.0"
	}
	port, _ := strconv.Atoi(addr[idx+1:])
	return ip, port
}

// ParseSockstat parses FreeBSD `sockstat -46 -s` output:
//
//	USER     COMMAND    PID   FD PROTO  LOCAL ADDRESS   FOREIGN ADDRESS   CONN STATE
//	root     nginx      1234  6  tcp4   *:80            *:*               LISTEN
//
// The state column is only present for TCP sockets.
func ParseSockstat(out []byte) []model.Connection {
	var connections []model.Connection

	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 7 || fields[0] == "USER" {
			continue
		}
		pid, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		proto := strings.ToLower(fields[4])
		if !strings.HasPrefix(proto, "tcp") && !strings.HasPrefix(proto, "udp") {
			continue
		}

		c := model.Connection{
			Protocol: strings.ToUpper(proto[:3]),
			PID:      pid,
			Process:  fields[1],
		}
		c.LocalAddr, c.LocalPort = sockstatAddr(fields[5], proto)
		c.RemoteAddr, c.RemotePort = sockstatAddr(fields[6], proto)
		if len(fields) >= 8 {
			c.State = fields[7]
		}
		if c.LocalPort == 0 {
			continue
		}
		connections = append(connections, c)
	}
	return connections
}

func sockstatAddr(addr, proto string) (string, int) {
	ip, port := SplitAddr(addr)
	if ip == "0.0.0.0" && strings.HasSuffix(proto, "6") {
		ip = "::"
	}
	return ip, port
}
