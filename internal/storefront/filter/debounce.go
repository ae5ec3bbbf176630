package filter

import (
	"sync"
	"time"

	"github.com/micronstore/storefront/internal/storefront/view"
)

// DebounceDelay is the quiet period slider movement must settle for.
const DebounceDelay = 300 * time.Millisecond

// Debouncer is a single slot trailing timer: scheduling replaces whatever
// was pending.
type Debouncer struct {
	delay     time.Duration
	afterFunc view.AfterFunc

	mu    sync.Mutex
	timer view.Timer
	gen   uint64
}

func NewDebouncer(delay time.Duration, afterFunc view.AfterFunc) *Debouncer {
	if afterFunc == nil {
		afterFunc = view.RealAfterFunc
	}
	return &Debouncer{delay: delay, afterFunc: afterFunc}
}

// Trigger cancels the pending call, if any, and schedules fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.afterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
