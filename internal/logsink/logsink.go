// Package logsink provides the append-only interaction log. The core writes
// to it and never reads; failures are swallowed so logging can never fail a
// request.
package logsink

import "time"

// Record is one logged interaction.
type Record struct {
	ID        string
	Timestamp time.Time
	Provider  string
	UserID    string
	UserText  string
	ReplyText string
}

// Sink accepts interaction records, best effort.
type Sink interface {
	// Append enqueues a record for durable storage. Never blocks the
	// caller and never returns an error.
	Append(rec Record)

	// Close flushes pending records and releases resources.
	Close() error
}

// Nop is a sink that discards everything. Used when logging is disabled.
type Nop struct{}

func (Nop) Append(Record) {}
func (Nop) Close() error  { return nil }
