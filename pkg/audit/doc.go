// Package audit keeps a metadata-only trail of conversion requests in a
// local SQLite database.
//
// Only request metadata is recorded: formats, sizes, duration, outcome,
// trace ID. Document content never touches the store. Writes go through
// an async recorder so the request path is never blocked on disk; when
// the buffer is full the record is dropped and counted, favouring
// request latency over trail completeness.
package audit
