// Package entity defines data structures shared by the web layer.
package entity

// Msg represents a standard API response message with success status, message
// text, and optional data object.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

// RoomMembers pairs the caller's role in a room with its member listing.
type RoomMembers struct {
	MyRole  string `json:"myRole"`
	Members any    `json:"members"`
}

// StatusSnapshot is the operational status served to administrators.
type StatusSnapshot struct {
	Cpu        float64 `json:"cpu"`
	MemUsed    uint64  `json:"memUsed"`
	MemTotal   uint64  `json:"memTotal"`
	Uptime     int64   `json:"uptime"`
	Goroutines int     `json:"goroutines"`
	Version    string  `json:"version"`
}
