package advisor

import (
	"context"
	"sync"
	"time"

	"github.com/srikolla28/trackfina/internal/core"
)

// DefaultQuietPeriod matches the original input debounce.
const DefaultQuietPeriod = 500 * time.Millisecond

// minTriggerLength: very short item names never trigger a lookup.
const minTriggerLength = 4

// Debouncer coalesces rapid input changes into a single advisory lookup.
//
// Each Trigger cancels any pending timer and bumps a generation counter;
// only the lookup whose generation is still current delivers the
// suggester's answer. Every Trigger delivers exactly once: the answer when
// the input survives the quiet period, an empty category otherwise (short
// input, superseded input, lookup failure, Close). Callers can therefore
// block on delivery without leaking.
type Debouncer struct {
	mu        sync.Mutex
	suggester Suggester
	quiet     time.Duration
	timer     *time.Timer
	pending   func(core.Category)
	gen       uint64
	closed    bool
}

func NewDebouncer(s Suggester, quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Debouncer{suggester: s, quiet: quiet}
}

// Trigger schedules a lookup for itemName after the quiet period, replacing
// any pending one. The replaced waiter receives an empty category. Items of
// three characters or fewer skip the lookup and deliver an empty category
// immediately so the caller can drop a stale on-screen suggestion.
func (d *Debouncer) Trigger(itemName string, deliver func(core.Category)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.gen++
	gen := d.gen
	d.cancelPendingLocked()

	if len(itemName) < minTriggerLength {
		go deliver("")
		return
	}

	d.pending = deliver
	d.timer = time.AfterFunc(d.quiet, func() {
		d.lookup(gen, itemName, deliver)
	})
}

// cancelPendingLocked stops a not-yet-fired lookup and releases its waiter
// with an empty category. A lookup already in flight is left alone; its
// generation check hands the empty category to the waiter instead.
func (d *Debouncer) cancelPendingLocked() {
	if d.timer == nil {
		return
	}
	if d.timer.Stop() && d.pending != nil {
		go d.pending("")
	}
	d.timer = nil
	d.pending = nil
}

func (d *Debouncer) lookup(gen uint64, itemName string, deliver func(core.Category)) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	cat, err := d.suggester.SuggestCategory(ctx, itemName)
	if err != nil {
		// Advisory failures degrade to "no suggestion".
		cat = ""
	}

	d.mu.Lock()
	if d.closed || gen != d.gen {
		cat = ""
	}
	d.mu.Unlock()
	deliver(cat)
}

// Close stops any pending lookup, releasing its waiter with an empty
// category. Triggers after Close are ignored.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.cancelPendingLocked()
}
