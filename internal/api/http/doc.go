// Package http implements the host's request/response control surface: the
// UI discovers services, executes tools, and polls health over plain JSON
// endpoints. Streaming traffic lives in the ws package.
package http
