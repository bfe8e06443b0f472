package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNoEmbedding means the embedding service returned an empty result
	ErrNoEmbedding = goerr.New("no embedding returned")

	// ErrDimensionMismatch means the embedding service returned a vector whose
	// length does not match the configured dimensions. Accepting it would
	// corrupt similarity search, so it is always a hard failure.
	ErrDimensionMismatch = goerr.New("unexpected embedding dimension")

	// ErrPersistence means a datastore write failed. It is never swallowed;
	// the pipeline chains it so callers can distinguish it from compute errors.
	ErrPersistence = goerr.New("datastore write failed")

	// ErrInvalidCursor means a pagination cursor failed to decode. This is a
	// client error, not an implicit "first page".
	ErrInvalidCursor = goerr.New("invalid cursor")

	ErrEntryNotFound   = goerr.New("entry not found")
	ErrInvalidCategory = goerr.New("invalid category")
	ErrInvalidDate     = goerr.New("invalid date")
)
