// Package compose renders ordered image segments into a single H.264 video.
//
// Two strategies share one output profile (libx264, yuv420p, faststart, no
// audio). The fast path feeds every segment into a single ffmpeg invocation
// whose filter graph scales, letterboxes, and concatenates in one pass. When
// the fast path fails, the fallback renders each segment to its own clip
// under a per-segment deadline and stitches the clips losslessly with the
// concat demuxer. The orchestrator inspects the fast path's result to decide
// fallback eligibility; a fallback failure is terminal for the job.
//
// Images are never upscaled: a source smaller than the target frame is
// centered and padded rather than stretched.
package compose
