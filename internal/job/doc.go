// Package job defines the render job model shared across the daemon.
//
// A Job tracks one render request from intake through publication. Jobs are
// held in an in-memory Registry keyed by caller-supplied job ID; resubmitting
// an ID replaces the previous record, mirroring the overwrite semantics of
// published artifacts. Terminal jobs are retained in a bounded history so the
// API can answer status queries for recently finished work.
package job
