package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"depth-crawler/internal/store"
)

// State is a worker lifecycle state. Transitions only move forward.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// WorkerConfig controls the poll cadence of a worker.
type WorkerConfig struct {
	// PollTimeout bounds each blocking Pop on the input queue.
	PollTimeout time.Duration
	// IdleBackoff is slept after an empty poll or a storage error.
	IdleBackoff time.Duration
}

// Worker runs one stage in a poll-process loop over its input queue. A failing
// item is logged and dropped; the loop keeps going until Stop.
type Worker[T any] struct {
	name    string
	source  Source[T]
	stage   Stage[T]
	cfg     WorkerConfig
	metrics *Metrics
	logger  zerolog.Logger

	mu     sync.Mutex
	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWorker builds an Idle worker.
func NewWorker[T any](name string, source Source[T], stage Stage[T], cfg WorkerConfig, metrics *Metrics, logger zerolog.Logger) *Worker[T] {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Worker[T]{
		name:    name,
		source:  source,
		stage:   stage,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With().Str("worker", name).Logger(),
		done:    make(chan struct{}),
	}
}

// Name returns the worker name.
func (w *Worker[T]) Name() string {
	return w.name
}

// State returns the current lifecycle state.
func (w *Worker[T]) State() State {
	return State(w.state.Load())
}

// Done is closed once the worker reaches Stopped.
func (w *Worker[T]) Done() <-chan struct{} {
	return w.done
}

// Start launches the run loop on its own goroutine. The loop exits when ctx is
// cancelled or Stop is called.
func (w *Worker[T]) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.State() != StateIdle {
		return ErrWorkerStarted
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.state.Store(int32(StateRunning))
	atomic.AddInt64(&w.metrics.workersRunning, 1)
	go w.run(runCtx)
	return nil
}

// Stop asks the loop to exit after the current item and blocks until the worker
// is Stopped. A pending Pop is interrupted. Stopping an Idle worker moves it
// straight to Stopped. Stop is safe to call more than once.
func (w *Worker[T]) Stop() {
	w.mu.Lock()
	switch w.State() {
	case StateIdle:
		w.state.Store(int32(StateStopped))
		close(w.done)
		w.mu.Unlock()
		return
	case StateRunning:
		w.state.Store(int32(StateStopping))
		w.cancel()
	}
	w.mu.Unlock()
	<-w.done
}

func (w *Worker[T]) run(ctx context.Context) {
	w.logger.Info().Msg("worker started")
	defer func() {
		w.mu.Lock()
		w.state.Store(int32(StateStopped))
		w.mu.Unlock()
		atomic.AddInt64(&w.metrics.workersRunning, -1)
		w.logger.Info().Msg("worker stopped")
		close(w.done)
	}()

	for {
		if ctx.Err() != nil {
			w.markStopping()
			return
		}
		item, ok, err := w.source.Pop(ctx, w.cfg.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				w.markStopping()
				return
			}
			if errors.Is(err, store.ErrUnavailable) {
				atomic.AddUint64(&w.metrics.storageErrors, 1)
			}
			w.logger.Error().Err(err).Msg("poll failed")
			w.backoff(ctx)
			continue
		}
		if !ok {
			w.backoff(ctx)
			continue
		}
		// In-flight items run to completion even when a stop arrives mid-item.
		if err := w.process(context.WithoutCancel(ctx), item); err != nil {
			if errors.Is(err, store.ErrUnavailable) {
				atomic.AddUint64(&w.metrics.storageErrors, 1)
			}
			w.logger.Error().Err(err).Msg("item failed")
		}
	}
}

func (w *Worker[T]) process(ctx context.Context, item T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage panic: %v", r)
		}
	}()
	return w.stage(ctx, item)
}

func (w *Worker[T]) backoff(ctx context.Context) {
	if w.cfg.IdleBackoff <= 0 {
		return
	}
	timer := time.NewTimer(w.cfg.IdleBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (w *Worker[T]) markStopping() {
	w.mu.Lock()
	if w.State() == StateRunning {
		w.state.Store(int32(StateStopping))
	}
	w.mu.Unlock()
}
