// Package preflight provides readiness checks for the filesystem paths
// and external binaries that filmstrip depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll before accepting jobs. Hard failures keep
//     the daemon from starting at all rather than failing every job.
//   - The CLI "filmstrip health" path uses individual check functions
//     (CheckDirectoryAccess, CheckSystemDeps) to display readiness.
package preflight
