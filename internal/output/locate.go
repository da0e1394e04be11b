package output

import (
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// Endpoint is what discovery found.
type Endpoint struct {
	Process    model.ProcessHandle `json:"process"`
	Port       int                 `json:"port"`
	Descriptor string              `json:"descriptor"`
	Driver     string              `json:"driver"`
	// LaunchedBy lists the engine's parents, root first.
	LaunchedBy []model.ProcessHandle `json:"launched_by,omitempty"`
}

// RenderEndpoint prints a discovered endpoint as label/value lines.
func RenderEndpoint(w io.Writer, e Endpoint, colorEnabled bool) {
	p := NewPrinter(w, colorEnabled)

	line := func(label, value string) {
		p.Printf("%s%s\n", p.paint(colorDim, padRight(label, 12)), value)
	}
	if e.Process.PID > 0 {
		line("Process", e.Process.Name+" (pid "+strconv.Itoa(e.Process.PID)+")")
	}
	if len(e.LaunchedBy) > 0 {
		chain := make([]string, len(e.LaunchedBy))
		for i, h := range e.LaunchedBy {
			chain[i] = h.Name + " (" + strconv.Itoa(h.PID) + ")"
		}
		line("Launched by", strings.Join(chain, " > "))
	}
	line("Port", strconv.Itoa(e.Port))
	line("Descriptor", e.Descriptor)
	line("Driver", e.Driver)
}

// ConnectionsTable turns connection rows into a result so they render like
// any other table.
func ConnectionsTable(conns []model.Connection) model.QueryResult {
	cols := []string{"Proto", "Local Address", "Remote Address", "State", "PID", "Process"}
	res := model.QueryResult{Columns: cols}
	for _, c := range conns {
		values := []string{
			c.Protocol,
			joinAddr(c.LocalAddr, c.LocalPort),
			joinAddr(c.RemoteAddr, c.RemotePort),
			c.State,
			strconv.Itoa(c.PID),
			c.Process,
		}
		row := make(model.Row, len(cols))
		for i, v := range values {
			row[i] = model.Cell{Name: cols[i], Value: v, Raw: v}
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func joinAddr(addr string, port int) string {
	if addr == "" && port == 0 {
		return ""
	}
	return net.JoinHostPort(addr, strconv.Itoa(port))
}

func padRight(s string, n int) string {
	for len(s) < n {
		s += " "
	}
	return s
}
