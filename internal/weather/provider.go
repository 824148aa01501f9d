package weather

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrFetch marks a transport failure reaching an upstream source.
	ErrFetch = errors.New("fetch failed")
	// ErrParse marks an upstream payload that does not have the expected shape.
	ErrParse = errors.New("parse failed")
)

// RawDocument is an upstream document as retrieved, before parsing.
// Body is always UTF-8.
type RawDocument struct {
	URL       string
	Body      []byte
	FetchedAt time.Time
}

// Source abstracts one upstream data source producing a T
// (e.g. one AWS station, one forecast point).
type Source[T any] interface {
	Name() string
	Fetch(ctx context.Context) (RawDocument, error)
	Parse(doc RawDocument) (T, error)
}

// Store is the contract the in-memory history ledger must satisfy.
type Store interface {
	// Append stores snapshot and reports whether it was kept.
	Append(snapshot Snapshot, now time.Time) bool
	Page(index int) PageResult
	Len() int
}
