// Package assetcache indexes downloaded segment images by source URL so jobs
// that reuse an image skip the network fetch.
//
// The index is a single-table SQLite database living alongside the cached
// files. The cache is optional: an empty directory in the configuration
// disables it, and a nil *Cache is safe to call. Cache failures are never
// fatal to a job; callers fall back to a normal download.
package assetcache
