// Package server assembles the host: configuration, logging, metrics, the
// terminal session manager, service providers, and the bridge router that
// exposes them to the UI process.
package server
