// Package daemon hosts the filmstripd runtime: a single-instance lock, the
// HTTP API the CLI and external callers submit render jobs through, and the
// background sweeps that keep the workspace root and asset cache bounded.
package daemon
