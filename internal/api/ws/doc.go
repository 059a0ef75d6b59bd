// Package ws streams host events to the UI over a WebSocket.
//
// The hub fans events out to every attached connection and implements the
// terminal sink, so PTY output and exit notifications reach the UI without
// the session manager knowing about transports. Inbound traffic is minimal:
// pings and buffer replay requests.
package ws
