// Package subtitles generates per-segment SRT files from normalized caption
// text and word-timing hints.
//
// The generator owns cue splitting, timing distribution, and SRT formatting.
// When a segment carries word-timing hints their sum replaces the segment
// duration, and the caller is expected to honor the returned value before
// validating durations. Rendering text into frames is out of scope; the
// composition engine receives the generated files aligned by segment index
// and decides what to do with them.
package subtitles
