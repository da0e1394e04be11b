package model

// PortBinding associates a process with the loopback port it is bound to.
// Derived from live OS state; callers should not cache it.
type PortBinding struct {
	PID     int    `json:"pid"`
	Address string `json:"address,omitempty"`
	Port    int    `json:"port"`
}

// Connection represents a network connection (TCP or UDP)
type Connection struct {
	Protocol   string `json:"protocol"` // TCP or UDP
	LocalAddr  string `json:"local_addr"`
	LocalPort  int    `json:"local_port"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	RemotePort int    `json:"remote_port,omitempty"`
	State      string `json:"state,omitempty"`
	PID        int    `json:"pid"`
	Process    string `json:"process,omitempty"`
}
