// Package frequency provides ranked word lists per language.
//
// Raw lists come from a Fetcher (a plain "word count" text list, an HTML
// table, or the small samples compiled into the binary). Store turns them
// into a Dataset grouped by part of speech and keeps a JSON snapshot per
// language on disk. A snapshot younger than the configured TTL is served
// without touching the network.
package frequency
