// Package service implements the provider registry behind the bridge: each
// privileged capability (terminal, links, credentials) registers itself as a
// Provider and the registry routes tool invocations by ID prefix.
package service
