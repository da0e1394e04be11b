package connector

import (
	"fmt"
	"strconv"
	"strings"
)

// serverKeys are the connection string keys naming the host, compared
// lowercase with spaces removed.
var serverKeys = map[string]bool{
	"datasource":     true,
	"server":         true,
	"address":        true,
	"addr":           true,
	"networkaddress": true,
}

// DriverDSN returns the string handed to the driver for base and port.
// Drivers with their own connection string format get a translation; every
// other driver receives BuildDescriptor(base, port) unchanged.
func DriverDSN(driver, base string, port int) (string, error) {
	switch driver {
	case "sqlserver", "mssql":
		return sqlServerDSN(base, port)
	}
	return BuildDescriptor(base, port), nil
}

// sqlServerDSN rewrites a "Key=Value;..." base for go-mssqldb, which reads
// the port only from its own "port" key.
//
//	sqlServerDSN("Data Source=localhost;Initial Catalog=model", 50484)
//	  == "server=localhost;port=50484;Initial Catalog=model"
func sqlServerDSN(base string, port int) (string, error) {
	var host string
	rest := make([]string, 0, 4)
	for _, part := range strings.Split(base, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return "", fmt.Errorf("connection string %q: %q is not key=value", base, part)
		}
		key := strings.ToLower(strings.ReplaceAll(k, " ", ""))
		switch {
		case serverKeys[key]:
			host = strings.TrimSpace(v)
		case key == "port":
		default:
			rest = append(rest, part)
		}
	}
	if host == "" {
		return "", fmt.Errorf("connection string %q names no data source", base)
	}

	dsn := "server=" + host + ";port=" + strconv.Itoa(port)
	if len(rest) > 0 {
		dsn += ";" + strings.Join(rest, ";")
	}
	return dsn, nil
}
