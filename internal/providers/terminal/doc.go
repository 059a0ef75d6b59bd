// Package terminal implements the embedded multi-session terminal subsystem.
//
// Each session spawns a shell under a PTY (pseudo-terminal), buffers the most
// recent 100 KiB of output for UI replay, and streams output and exit events
// to a delivery sink. Sessions are fully independent; the manager owns the
// registry and is the only component that spawns or tears down PTY processes.
//
// Lifecycle:
//   - create spawns the shell and registers the session
//   - output/exit arrive asynchronously and update the buffer and liveness
//   - a natural exit marks the session dead but keeps its buffer readable
//   - only an explicit kill removes the registry entry
//
// Failure policy: a spawn failure is the only error create can return. Every
// other operation treats unknown or dead sessions as a benign no-op, because
// UI-initiated teardown and process exit race by design.
//
// The environment composer prepends bundled tool locations to PATH and
// publishes a wrapper script so the application's own CLI is invocable by
// name inside spawned shells.
//
// Tools:
//   - terminal.create: spawn a new shell session
//   - terminal.write: send input to a session
//   - terminal.resize: change dimensions (clamped to 1x1 minimum)
//   - terminal.kill: terminate and unregister a session
//   - terminal.list: snapshot of session IDs and liveness
//   - terminal.get_buffer: fetch the replay buffer
package terminal
