// Package main hosts the filmstripd daemon entrypoint.
//
// Startup is deliberately linear: load configuration, build the logger,
// run preflight, assemble the render services, then hand everything to
// the daemon and wait for a signal. All behavior lives in the internal
// packages; this package only wires them together.
package main
