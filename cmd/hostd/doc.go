// Command hostd runs the desktop host: the privileged local process that
// spawns terminal sessions, brokers credential and link operations, and
// serves the bridge endpoints the UI talks to.
package main
