package detect

import (
	"sync"
	"time"

	"github.com/EOPeakDesigns/applink/internal/clock"
)

// Signal is one page lifecycle event observed after a launch attempt.
type Signal string

const (
	SignalHidden   Signal = "visibility-hidden"
	SignalVisible  Signal = "visibility-visible"
	SignalBlur     Signal = "blur"
	SignalFocus    Signal = "focus"
	SignalPageHide Signal = "pagehide"
)

// ParseSignal maps a raw event name to a Signal, false if unknown.
func ParseSignal(raw string) (Signal, bool) {
	switch Signal(raw) {
	case SignalHidden, SignalVisible, SignalBlur, SignalFocus, SignalPageHide:
		return Signal(raw), true
	default:
		return "", false
	}
}

// Config tunes one observation.
type Config struct {
	// Window bounds how long the detector waits for a signal.
	Window time.Duration

	// BlurGrace is the debounce applied to a bare blur before the
	// visibility condition is re-checked.
	BlurGrace time.Duration
}

// Detector observes page lifecycle signals after a launch attempt and
// decides, within a bounded window, whether the attempt succeeded.
// States: armed -> confirmed-open | timed-out. One Detector observes
// exactly one attempt; re-arming means building a new one.
type Detector struct {
	mu  sync.Mutex
	clk clock.Clock
	cfg Config

	armed         bool
	initialHidden bool
	hidden        bool
	startedAt     time.Time
	onResult      func(opened bool)

	windowTimer clock.Timer
	blurTimer   clock.Timer
}

// New creates an unarmed detector.
func New(clk clock.Clock, cfg Config) *Detector {
	return &Detector{clk: clk, cfg: cfg}
}

// Arm starts the observation. initialHidden is the page's hidden state
// recorded before the launch attempt ran: a hidden signal only counts
// as a transition when the page was visible at start.
func (d *Detector) Arm(initialHidden bool, onResult func(opened bool)) {
	d.mu.Lock()
	d.armed = true
	d.initialHidden = initialHidden
	d.hidden = initialHidden
	d.startedAt = d.clk.Now()
	d.onResult = onResult
	d.windowTimer = d.clk.AfterFunc(d.cfg.Window, d.onWindowExpired)
	d.mu.Unlock()
}

// OnSignal feeds one page lifecycle event into the state machine.
// Signals arriving after confirm, timeout or cancel are no-ops.
func (d *Detector) OnSignal(sig Signal) {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return
	}

	switch sig {
	case SignalHidden:
		d.hidden = true
		if !d.initialHidden {
			// Strongest signal: the page went hidden after the
			// attempt started. The app took over.
			d.finishLocked(true)
			return
		}
	case SignalVisible, SignalFocus:
		d.hidden = false
	case SignalBlur:
		// Blur alone is not trusted: permission prompts and focus
		// moves fire it without any app opening. Debounce, then
		// re-check the visibility condition.
		if d.blurTimer == nil {
			d.blurTimer = d.clk.AfterFunc(d.cfg.BlurGrace, d.onBlurGrace)
		}
	case SignalPageHide:
		// The page is leaving regardless of cause.
		d.finishLocked(true)
		return
	}
	d.mu.Unlock()
}

// Cancel tears down all timers without invoking the callback. Safe to
// call at any time, including after a result has been delivered.
func (d *Detector) Cancel() {
	d.mu.Lock()
	d.armed = false
	d.onResult = nil
	d.stopTimersLocked()
	d.mu.Unlock()
}

// Armed reports whether the detector is still waiting for a result.
func (d *Detector) Armed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

func (d *Detector) onWindowExpired() {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return
	}
	d.finishLocked(false)
}

func (d *Detector) onBlurGrace() {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return
	}
	d.blurTimer = nil
	if d.hidden && !d.initialHidden {
		d.finishLocked(true)
		return
	}
	// Blur without hide: false alarm, keep waiting for the window.
	d.mu.Unlock()
}

// finishLocked delivers the result exactly once and releases every
// timer. Called with d.mu held; unlocks before invoking the callback.
func (d *Detector) finishLocked(opened bool) {
	d.armed = false
	d.stopTimersLocked()
	cb := d.onResult
	d.onResult = nil
	d.mu.Unlock()

	if cb != nil {
		cb(opened)
	}
}

func (d *Detector) stopTimersLocked() {
	if d.windowTimer != nil {
		d.windowTimer.Stop()
		d.windowTimer = nil
	}
	if d.blurTimer != nil {
		d.blurTimer.Stop()
		d.blurTimer = nil
	}
}
