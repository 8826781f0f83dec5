// Package notifications delivers render lifecycle events to an ntfy topic.
//
// Notifications are strictly best-effort: the pipeline logs delivery
// failures and moves on. When no topic is configured the service degrades
// to a noop so callers never branch.
package notifications
