package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Recorder writes audit records asynchronously through a buffered channel
// so conversion handlers never wait on SQLite.
type Recorder struct {
	store  *Store
	logger *slog.Logger

	ch      chan *Record
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Int64
}

// NewRecorder creates a recorder with the given buffer size and starts
// its writer goroutine.
func NewRecorder(store *Store, bufferSize int, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{
		store:  store,
		logger: logger,
		ch:     make(chan *Record, bufferSize),
	}

	r.wg.Add(1)
	go r.writeLoop()

	return r
}

// Record enqueues one audit record. Missing ID and CreatedAt are filled
// in. When the buffer is full the record is dropped, not blocked on.
func (r *Recorder) Record(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	select {
	case r.ch <- rec:
	default:
		r.dropped.Add(1)
	}
}

// Dropped returns the number of records lost to a full buffer.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close drains the buffer and stops the writer.
func (r *Recorder) Close() {
	r.once.Do(func() { close(r.ch) })
	r.wg.Wait()
}

func (r *Recorder) writeLoop() {
	defer r.wg.Done()

	for rec := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.store.Insert(ctx, rec); err != nil {
			r.logger.Warn("Failed to write audit record",
				"trace_id", rec.TraceID,
				"error", err,
			)
		}
		cancel()
	}
}
