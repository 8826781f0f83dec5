// Package pipeline sequences a render job through its stages: normalize,
// fetch, subtitle processing, validation, composition, and publish. It is
// the sole decision point for fallback composition, cleanup policy, and
// failure shaping.
package pipeline
