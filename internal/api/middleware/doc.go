// Package middleware provides gin middleware for the bridge surface: CORS for
// the local UI origin, per-client rate limiting, and request correlation IDs.
package middleware
