package recorder

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sebastiansucker/mAIrchen/pkg/usage"
)

// Config contains configuration for the usage recorder.
type Config struct {
	// BufferSize is the size of the async write channel buffer.
	// Default: 1000
	BufferSize int

	// WriteTimeout bounds both the wait for queue space and a single store
	// write.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() Config {
	return Config{
		BufferSize:   1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder queues usage records and writes them in the background.
type Recorder struct {
	storage    usage.Storage
	config     Config
	recordChan chan *usage.Record
	wg         sync.WaitGroup
	done       chan struct{}
	closeOnce  sync.Once
	dropped    atomic.Int64
	written    atomic.Int64
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a recorder writing to storage and starts its worker.
func New(storage usage.Storage, config Config) *Recorder {
	def := DefaultConfig()
	if config.BufferSize <= 0 {
		config.BufferSize = def.BufferSize
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = def.WriteTimeout
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *usage.Record, config.BufferSize),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "usage.recorder"),
		now:        time.Now,
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("usage recorder initialized",
		"buffer_size", config.BufferSize,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record enqueues record for writing. A missing ID or CreatedAt is filled
// in. It returns a *usage.RecorderError when the record was dropped.
func (r *Recorder) Record(ctx context.Context, record *usage.Record) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.now().UTC()
	}

	select {
	case <-r.done:
		r.dropped.Add(1)
		return usage.NewRecorderError(record.ID, usage.ErrRecorderClosed)
	default:
	}

	timer := time.NewTimer(r.config.WriteTimeout)
	defer timer.Stop()

	select {
	case r.recordChan <- record:
		r.logger.DebugContext(ctx, "usage record enqueued",
			"record_id", record.ID,
			"outcome", string(record.Outcome),
		)
		return nil
	case <-timer.C:
		r.dropped.Add(1)
		r.logger.ErrorContext(ctx, "usage record channel full, dropping record",
			"record_id", record.ID,
			"channel_capacity", r.config.BufferSize,
		)
		return usage.NewRecorderError(record.ID, context.DeadlineExceeded)
	case <-ctx.Done():
		r.dropped.Add(1)
		return usage.NewRecorderError(record.ID, ctx.Err())
	case <-r.done:
		r.dropped.Add(1)
		r.logger.Warn("recorder shutting down, dropping record", "record_id", record.ID)
		return usage.NewRecorderError(record.ID, usage.ErrRecorderClosed)
	}
}

// Dropped returns the number of records that were not queued.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Written returns the number of records stored successfully.
func (r *Recorder) Written() int64 {
	return r.written.Load()
}

// Close stops accepting records, drains the queue and waits for the worker.
// The storage is not closed.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.logger.Info("shutting down usage recorder")
		close(r.done)
		r.wg.Wait()
		r.logger.Info("usage recorder shut down complete",
			"written", r.written.Load(),
			"dropped", r.dropped.Load(),
		)
	})
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			r.logger.Debug("draining usage channel before shutdown",
				"pending_count", len(r.recordChan),
			)
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) writeRecord(record *usage.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store usage record",
			"record_id", record.ID,
			"request_id", record.RequestID,
			"error", err,
		)
		return
	}
	r.written.Add(1)

	if duration := time.Since(start); duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow usage write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
		)
	}
}
