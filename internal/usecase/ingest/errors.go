// Package ingest drives source adapters and commits their stubs to the article store.
// Duplicates are rejected by the store and counted; they never abort a batch.
package ingest

import "errors"

// ErrUnknownTag is returned when no source is registered for a tag.
var ErrUnknownTag = errors.New("no source registered for tag")
