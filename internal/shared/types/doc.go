// Package types defines the shared contracts between the bridge surface and
// the privileged service providers: service/tool metadata, execution results,
// and the request shapes accepted from the UI process.
package types
