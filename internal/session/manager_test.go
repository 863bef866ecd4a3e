package session

import (
	"testing"
	"time"

	"github.com/EOPeakDesigns/applink/internal/clock"
	"github.com/EOPeakDesigns/applink/internal/detect"
	"github.com/EOPeakDesigns/applink/internal/domain"
)

// A second click from the same owner supersedes the first session
// entirely: signals only affect the new session, and the old one never
// takes a terminal action.
func TestOwnerSupersession(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	m := newTestManager(t, clk, Config{})

	navA, termA := &fakeNav{}, &fakeTerm{}
	a, err := m.Begin("card-1", instagramAction(), mobileSnap, false, navA, termA)
	if err != nil {
		t.Fatalf("Begin(A) error = %v", err)
	}

	navB, termB := &fakeNav{}, &fakeTerm{}
	b, err := m.Begin("card-1", domain.Action{
		Platform: domain.PlatformTwitter,
		WebURL:   "https://twitter.com/bob",
	}, mobileSnap, false, navB, termB)
	if err != nil {
		t.Fatalf("Begin(B) error = %v", err)
	}

	if a.Outcome() != OutcomeSuperseded {
		t.Fatalf("A outcome = %s, want superseded", a.Outcome())
	}

	// Hide confirms only B.
	if err := m.Signal(b.ID, detect.SignalHidden); err != nil {
		t.Fatalf("Signal(B) error = %v", err)
	}
	if err := m.Signal(a.ID, detect.SignalHidden); err != nil {
		t.Fatalf("Signal(A) error = %v", err)
	}
	clk.Advance(10 * time.Second)

	if b.Outcome() != OutcomeAppOpened {
		t.Errorf("B outcome = %s, want app_opened", b.Outcome())
	}
	if a.Outcome() != OutcomeSuperseded {
		t.Errorf("A outcome = %s, want still superseded", a.Outcome())
	}
	if termA.terminalCount() != 0 {
		t.Errorf("A terminal actions = %d, want 0", termA.terminalCount())
	}
}

// Distinct owners resolve independently.
func TestOwnersAreIsolated(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	m := newTestManager(t, clk, Config{})

	navA, termA := &fakeNav{}, &fakeTerm{}
	a, err := m.Begin("card-1", instagramAction(), mobileSnap, false, navA, termA)
	if err != nil {
		t.Fatalf("Begin(A) error = %v", err)
	}
	navB, termB := &fakeNav{}, &fakeTerm{}
	b, err := m.Begin("card-2", instagramAction(), mobileSnap, false, navB, termB)
	if err != nil {
		t.Fatalf("Begin(B) error = %v", err)
	}

	b.Signal(detect.SignalHidden)
	clk.Advance(10 * time.Second)

	if b.Outcome() != OutcomeAppOpened {
		t.Errorf("B outcome = %s, want app_opened", b.Outcome())
	}
	if a.Outcome() != OutcomeExhausted {
		t.Errorf("A outcome = %s, want exhausted", a.Outcome())
	}
	if termA.terminalCount() != 1 {
		t.Errorf("A terminal actions = %d, want 1", termA.terminalCount())
	}
}

func TestSignalUnknownSession(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	m := newTestManager(t, clk, Config{})

	s, err := m.Begin("card-1", instagramAction(), mobileSnap, false, &fakeNav{}, &fakeTerm{})
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	m.mu.Lock()
	delete(m.sessions, s.ID)
	m.mu.Unlock()

	if err := m.Signal(s.ID, detect.SignalHidden); err == nil {
		t.Error("Signal() on removed session returned nil error")
	}
}

func TestBeginRejectsInvalidAction(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	m := newTestManager(t, clk, Config{})

	if _, err := m.Begin("card-1", domain.Action{Platform: domain.PlatformInstagram}, mobileSnap, false, &fakeNav{}, &fakeTerm{}); err == nil {
		t.Error("Begin() without a web url returned nil error")
	}
	if _, err := m.Begin("card-1", domain.Action{Platform: domain.PlatformEmail, WebURL: "https://x.y"}, mobileSnap, false, &fakeNav{}, &fakeTerm{}); err == nil {
		t.Error("Begin() email without address returned nil error")
	}
}

func TestSweepDropsExpiredSessions(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	m := newTestManager(t, clk, Config{SessionTTL: time.Minute})

	live, err := m.Begin("card-live", instagramAction(), mobileSnap, false, &fakeNav{}, &fakeTerm{})
	if err != nil {
		t.Fatalf("Begin(live) error = %v", err)
	}
	done, err := m.Begin("card-done", instagramAction(), mobileSnap, false, &fakeNav{}, &fakeTerm{})
	if err != nil {
		t.Fatalf("Begin(done) error = %v", err)
	}
	done.Signal(detect.SignalPageHide)

	if got := m.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
	if got := m.ActiveCount(); got != 1 {
		t.Fatalf("ActiveCount() = %d, want 1", got)
	}

	// Too early: nothing expires yet.
	if removed := m.Sweep(clk.Now().Add(30 * time.Second)); removed != 0 {
		t.Fatalf("Sweep() removed %d sessions before the TTL", removed)
	}

	if removed := m.Sweep(clk.Now().Add(2 * time.Minute)); removed != 1 {
		t.Fatalf("Sweep() removed %d sessions, want 1", removed)
	}
	if _, ok := m.Get(done.ID); ok {
		t.Error("finished session still retrievable after sweep")
	}
	if _, ok := m.Get(live.ID); !ok {
		t.Error("live session dropped by sweep")
	}

	// The owner slot must be reusable after the sweep.
	if _, err := m.Begin("card-done", instagramAction(), mobileSnap, false, &fakeNav{}, &fakeTerm{}); err != nil {
		t.Errorf("Begin() after sweep error = %v", err)
	}
}
