// Package textutil provides text processing utilities for filename
// sanitization and subtitle text shaping.
//
// The primary use cases are:
//   - Sanitizing caller-supplied identifiers for safe filesystem use
//   - Normalizing subtitle text to NFC with collapsed whitespace
//   - Wrapping subtitle text into display lines under a character budget
package textutil
