// Package fetch downloads remote segment assets into job workspaces.
//
// One Fetcher with a shared keep-alive HTTP client serves all segment
// downloads. Failed attempts are retried with a linear backoff except for
// status codes that can never heal (bad request, auth failures, not found),
// which abort immediately. Every attempt is logged with its URL and status,
// and the terminal error carries both so job failure payloads can name the
// exact asset that broke the render.
package fetch
