package model

// ProcessHandle identifies a running OS process. It is read fresh from the
// process table every time a connector is built and never persisted.
type ProcessHandle struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
}

// ProcessSummary holds basic information about a process for listing
type ProcessSummary struct {
	PID     int
	PPID    int
	User    string
	Command string
}
