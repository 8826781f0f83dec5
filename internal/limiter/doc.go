// Package limiter bounds concurrent work with first-come first-served
// admission.
//
// The render pipeline fans out per-segment work (asset downloads, fallback
// clip renders) across a limiter sized to the host CPU count. Items are
// admitted in submission order and their failures stay independent: one
// segment's error never cancels its siblings, so callers always receive a
// complete per-item result set.
package limiter
