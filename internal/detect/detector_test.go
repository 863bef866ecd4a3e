package detect

import (
	"testing"
	"time"

	"github.com/EOPeakDesigns/applink/internal/clock"
)

var testConfig = Config{
	Window:    time.Second,
	BlurGrace: 200 * time.Millisecond,
}

type result struct {
	fired  bool
	opened bool
	count  int
}

func (r *result) callback() func(bool) {
	return func(opened bool) {
		r.fired = true
		r.opened = opened
		r.count++
	}
}

func TestHiddenTransitionConfirmsOpen(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	d := New(clk, testConfig)

	var res result
	d.Arm(false, res.callback())

	clk.Advance(200 * time.Millisecond)
	d.OnSignal(SignalHidden)

	if !res.fired || !res.opened {
		t.Fatalf("result = %+v, want confirmed open", res)
	}
	if clk.Pending() != 0 {
		t.Errorf("timers still pending after confirm: %d", clk.Pending())
	}
}

func TestInitiallyHiddenPageDoesNotConfirm(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	d := New(clk, testConfig)

	var res result
	d.Arm(true, res.callback())

	d.OnSignal(SignalHidden)
	if res.fired {
		t.Fatal("hidden signal on an already-hidden page must not confirm")
	}

	clk.Advance(testConfig.Window)
	if !res.fired || res.opened {
		t.Fatalf("result = %+v, want timed out", res)
	}
}

func TestPageHideAlwaysConfirms(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	d := New(clk, testConfig)

	var res result
	d.Arm(true, res.callback()) // even initially hidden

	d.OnSignal(SignalPageHide)
	if !res.fired || !res.opened {
		t.Fatalf("result = %+v, want confirmed open on pagehide", res)
	}
}

func TestBlurWithQuickFocusReturnDoesNotConfirm(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	d := New(clk, testConfig)

	var res result
	d.Arm(false, res.callback())

	d.OnSignal(SignalBlur)
	clk.Advance(50 * time.Millisecond)
	d.OnSignal(SignalFocus)

	// Debounce expires with the page still visible: no confirm.
	clk.Advance(testConfig.BlurGrace)
	if res.fired {
		t.Fatal("blur without hide confirmed open")
	}

	clk.Advance(testConfig.Window)
	if !res.fired || res.opened {
		t.Fatalf("result = %+v, want timed out", res)
	}
	if res.count != 1 {
		t.Errorf("callback fired %d times, want 1", res.count)
	}
}

func TestBlurThenHiddenConfirmsAfterGrace(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	d := New(clk, testConfig)

	var res result
	d.Arm(false, res.callback())

	d.OnSignal(SignalBlur)
	// Note: an explicit hidden signal confirms directly; this exercises
	// the debounce path where only the tracked state flipped.
	d.OnSignal(SignalHidden)

	if !res.fired || !res.opened {
		t.Fatalf("result = %+v, want confirmed open", res)
	}
	if res.count != 1 {
		t.Errorf("callback fired %d times, want 1", res.count)
	}
}

func TestWindowExpiryTimesOut(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	d := New(clk, testConfig)

	var res result
	d.Arm(false, res.callback())

	clk.Advance(testConfig.Window - time.Millisecond)
	if res.fired {
		t.Fatal("fired before window elapsed")
	}
	clk.Advance(time.Millisecond)
	if !res.fired || res.opened {
		t.Fatalf("result = %+v, want timed out", res)
	}
}

func TestSignalsAfterResultAreNoOps(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	d := New(clk, testConfig)

	var res result
	d.Arm(false, res.callback())

	clk.Advance(testConfig.Window)
	d.OnSignal(SignalHidden)
	d.OnSignal(SignalPageHide)

	if res.count != 1 {
		t.Fatalf("callback fired %d times, want 1", res.count)
	}
}

func TestCancelSuppressesResultAndReleasesTimers(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	d := New(clk, testConfig)

	var res result
	d.Arm(false, res.callback())
	d.OnSignal(SignalBlur)

	d.Cancel()
	if clk.Pending() != 0 {
		t.Errorf("timers still pending after cancel: %d", clk.Pending())
	}

	clk.Advance(2 * testConfig.Window)
	d.OnSignal(SignalHidden)
	if res.fired {
		t.Fatal("callback fired after cancel")
	}
	if d.Armed() {
		t.Error("detector still armed after cancel")
	}
}

func TestParseSignal(t *testing.T) {
	tests := []struct {
		raw    string
		wantOK bool
	}{
		{"visibility-hidden", true},
		{"pagehide", true},
		{"blur", true},
		{"focus", true},
		{"visibility-visible", true},
		{"resize", false},
		{"", false},
	}

	for _, tt := range tests {
		if _, ok := ParseSignal(tt.raw); ok != tt.wantOK {
			t.Errorf("ParseSignal(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
		}
	}
}
