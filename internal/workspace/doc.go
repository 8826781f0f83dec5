// Package workspace manages per-job scratch directories.
//
// Every render job receives a session directory named by a process-unique
// token rather than the caller-supplied job ID, so concurrent submissions
// sharing an ID never collide on disk. Sessions own everything beneath
// them: fetched assets, generated subtitles, per-segment clips, and the
// final rendered artifact before publication. Release is idempotent and
// never fails the job; a sweep reclaims directories that outlive their
// jobs, for example after a daemon crash.
package workspace
