package salsadb

import "fmt"

// QueryPanic is the diagnostic produced when a derived query's compute
// function panics. The panic is recovered at the query boundary so it
// never crosses into the caller or affects any other query; Get returns
// this as an error instead.
type QueryPanic struct {
	Query string
	Key   string
	Cause any
}

func (e *QueryPanic) Error() string {
	return fmt.Sprintf("salsadb: query %s(%s) panicked: %v", e.Query, e.Key, e.Cause)
}
