// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no filmstrip-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties (images probe as one video stream)
//   - Format: container-level metadata
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// The composition engine probes every segment image for its native pixel
// dimensions before building scale and pad filters.
package ffprobe
