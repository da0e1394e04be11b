package connector

import "strconv"

// BuildDescriptor appends the engine port to a base connection string:
//
//	BuildDescriptor("DataSource=localhost", 50484) == "DataSource=localhost:50484"
//
// The base string is not inspected; a malformed one fails when the
// connection is opened.
func BuildDescriptor(base string, port int) string {
	return base + ":" + strconv.Itoa(port)
}
