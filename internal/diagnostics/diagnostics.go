// Package diagnostics captures unexpected errors without ever failing the
// caller.
package diagnostics

import (
	"log/slog"
	"sync"
	"time"
)

type Report struct {
	Err       error
	Component string
	Attrs     map[string]any
	At        time.Time
}

type Reporter interface {
	Capture(component string, err error, attrs map[string]any)
}

// Sink persists or forwards reports. It runs on the dispatcher goroutine.
type Sink func(Report)

// AsyncReporter queues reports on a bounded channel and hands them to the
// sink from a single worker. A full queue drops the report, and so does a
// report captured after Close.
type AsyncReporter struct {
	sink  Sink
	log   *slog.Logger
	queue chan Report
	wg    sync.WaitGroup
	now   func() time.Time

	mu     sync.RWMutex
	closed bool
}

func NewAsyncReporter(log *slog.Logger, sink Sink) *AsyncReporter {
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = LogSink(log)
	}
	r := &AsyncReporter{
		sink:  sink,
		log:   log,
		queue: make(chan Report, 64),
		now:   time.Now,
	}
	r.wg.Add(1)
	go r.worker()
	return r
}

func (r *AsyncReporter) worker() {
	defer r.wg.Done()
	for rep := range r.queue {
		r.deliver(rep)
	}
}

func (r *AsyncReporter) deliver(rep Report) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("diagnostics sink panicked", "panic", p)
		}
	}()
	r.sink(rep)
}

func (r *AsyncReporter) Capture(component string, err error, attrs map[string]any) {
	if err == nil {
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.log.Error("captured error after shutdown", "component", component, "err", err)
		return
	}
	select {
	case r.queue <- Report{Err: err, Component: component, Attrs: attrs, At: r.now()}:
	default:
		r.log.Warn("diagnostics queue full, dropping report", "component", component)
	}
}

// Close flushes pending reports. Calling it again is a no-op.
func (r *AsyncReporter) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
}

// LogSink writes each report as one structured error line.
func LogSink(log *slog.Logger) Sink {
	return func(rep Report) {
		args := []any{"component", rep.Component, "err", rep.Err}
		for k, v := range rep.Attrs {
			args = append(args, k, v)
		}
		log.Error("captured error", args...)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Capture(string, error, map[string]any) {}
