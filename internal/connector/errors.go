package connector

import "errors"

var (
	// ErrConnectionOpenFailed is returned when no session could be opened to
	// the engine: wrong port, engine still starting, driver not registered.
	ErrConnectionOpenFailed = errors.New("connection open failed")

	// ErrQueryExecutionFailed is returned when the engine rejects the query
	// text or the result does not have the requested shape.
	ErrQueryExecutionFailed = errors.New("query execution failed")
)
