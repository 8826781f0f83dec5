// Package segment defines the canonical render segment model and the
// normalizer that maps loosely-shaped intake payloads onto it.
//
// Upstream producers disagree on field names, so each logical field is
// resolved through a fixed priority list of known aliases; the first alias
// present in the payload wins and unrecognized keys are ignored. Duration
// validation is deliberately separate from normalization because subtitle
// processing may recalculate durations from word timing hints before the
// values are checked.
package segment
