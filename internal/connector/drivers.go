package connector

import _ "github.com/microsoft/go-mssqldb" // registers "sqlserver"

// DefaultDriver is the database/sql driver used when none is configured.
//
// go-mssqldb speaks TDS, the SQL Server wire protocol. msmdsrv answers XMLA,
// and no Go driver in this module speaks it, so against a live Power BI
// engine the default driver fails the connection handshake with
// ErrConnectionOpenFailed. Discovery and the connection string are still
// correct: DriverDSN hands the resolved port to the driver as "port=N".
// A driver that can reach msmdsrv is selected with WithDriver (or the
// driver setting) once it is linked into the binary; unknown drivers
// receive the descriptor unchanged.
const DefaultDriver = "sqlserver"
