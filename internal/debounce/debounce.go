// Package debounce delays propagation of a rapidly changing value until it
// has been stable for a fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Debouncer emits the latest value passed to Set once no new value has
// arrived for the configured delay. Each Set cancels the pending emission and
// restarts the timer. After Stop returns nothing is emitted.
//
// emit runs on the timer goroutine (or on the caller of Flush). It may call
// Set but must not call Flush or Stop.
type Debouncer[T any] struct {
	delay time.Duration
	emit  func(T)

	// emitMu is held while emit runs so that Stop can wait for an in-flight emission.
	emitMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	value   T
	pending bool
	stopped bool
}

func New[T any](delay time.Duration, emit func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay: delay,
		emit:  emit,
	}
}

func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

func (d *Debouncer[T]) Set(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}

	d.seq++
	seq := d.seq
	d.value = value
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(seq)
	})
}

// Flush emits the pending value immediately, if there is one.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	d.fire(seq)
}

func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels any pending emission and waits for a running one to finish.
// Later calls to Set are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.emitMu.Lock()
	d.emitMu.Unlock()
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	// A newer Set, a Flush or Stop superseded this timer.
	if d.stopped || !d.pending || seq != d.seq {
		d.mu.Unlock()
		return
	}
	value := d.value
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.emit(value)
}
