// Package journal keeps a client-side record of control-plane calls.
//
// Events leave the call path through a buffered channel and never block it:
// when the buffer is full the event is dropped and counted. A single worker
// groups events into batches and writes them to a Sink when the batch is full
// or the flush interval elapses. Stop closes the channel, waits for the worker
// to drain what is left and performs a final flush.
package journal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Sink persists batches of events.
type Sink interface {
	// WriteBatch stores the whole batch at once.
	WriteBatch(ctx context.Context, events []CallEvent) error
}

// Config sizes the journal. Zero values take the defaults.
type Config struct {
	BufferSize    int
	BatchSize     int
	FlushInterval time.Duration
	// WriteTimeout bounds a single WriteBatch call.
	WriteTimeout time.Duration
}

const (
	DefaultBufferSize    = 10000
	DefaultBatchSize     = 100
	DefaultFlushInterval = 500 * time.Millisecond
	DefaultWriteTimeout  = 5 * time.Second
)

type Journal struct {
	ch     chan CallEvent
	sink   Sink
	cfg    Config
	logger *zap.Logger
	wg     sync.WaitGroup

	mu      sync.RWMutex
	closed  bool
	once    sync.Once
	dropped atomic.Uint64
}

func New(sink Sink, cfg Config, logger *zap.Logger) *Journal {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{
		ch:     make(chan CallEvent, cfg.BufferSize),
		sink:   sink,
		cfg:    cfg,
		logger: logger.With(zap.String("mod", "journal")),
	}
}

func (j *Journal) Start() {
	j.wg.Add(1)
	go j.worker()
}

// Stop rejects new events, drains the buffer and returns after the final
// flush. It is safe to call more than once.
func (j *Journal) Stop() {
	j.once.Do(func() {
		j.mu.Lock()
		j.closed = true
		close(j.ch)
		j.mu.Unlock()

		j.logger.Debug("stopping journal: flushing buffer")
		j.wg.Wait()
		if n := j.dropped.Load(); n > 0 {
			j.logger.Warn("journal stopped with dropped events", zap.Uint64("dropped", n))
		}
	})
}

// Log queues an event without blocking.
func (j *Journal) Log(event CallEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		j.dropped.Add(1)
		j.logger.Debug("journal event dropped: journal is stopped", zap.String("id", event.ID))
		return
	}

	select {
	case j.ch <- event:
	default:
		j.dropped.Add(1)
		j.logger.Warn("journal_buffer_overflow",
			zap.String("method", event.Method),
			zap.String("trace_id", event.TraceID),
		)
	}
}

// Dropped returns how many events were shed.
func (j *Journal) Dropped() uint64 {
	return j.dropped.Load()
}

func (j *Journal) worker() {
	defer j.wg.Done()

	batch := make([]CallEvent, 0, j.cfg.BatchSize)
	ticker := time.NewTicker(j.cfg.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// Background: the caller's context may be gone by now
		ctx, cancel := context.WithTimeout(context.Background(), j.cfg.WriteTimeout)
		if err := j.sink.WriteBatch(ctx, batch); err != nil {
			j.logger.Error("journal flush failed", zap.Int("events", len(batch)), zap.Error(err))
		}
		cancel()
		batch = make([]CallEvent, 0, j.cfg.BatchSize)
	}

	for {
		select {
		case event, ok := <-j.ch:
			if !ok {
				flush()
				return
			}
			batch = append(batch, event)
			if len(batch) >= j.cfg.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
