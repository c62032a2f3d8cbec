// Package wiki implements a document source for Confluence-compatible
// wikis. It crawls spaces through the REST API, strips the storage-format
// HTML down to plain text and emits domain documents ready for ingestion.
//
// Requests are rate limited with a token bucket and back off when the
// server answers 429.
package wiki
