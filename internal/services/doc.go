// Package services defines shared utilities consumed by the render pipeline
// stages and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failures
//     classifiable (validation vs external tool vs transient) all the way up
//     to the HTTP layer without string matching.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability, response shaping) stays uniform across the
// pipeline.
package services
