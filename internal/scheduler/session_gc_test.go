package scheduler

import (
	"testing"
	"time"

	"github.com/EOPeakDesigns/applink/internal/clock"
	"github.com/EOPeakDesigns/applink/internal/detect"
	"github.com/EOPeakDesigns/applink/internal/domain"
	"github.com/EOPeakDesigns/applink/internal/env"
	"github.com/EOPeakDesigns/applink/internal/logger"
	"github.com/EOPeakDesigns/applink/internal/registry"
	"github.com/EOPeakDesigns/applink/internal/resolve"
	"github.com/EOPeakDesigns/applink/internal/session"
)

func TestSessionCollector_Collect(t *testing.T) {
	log := logger.Nop()
	clk := clock.NewFake(time.Now().Add(-time.Hour))
	resolver := resolve.New(registry.NewIndex())
	mgr := session.NewManager(resolver, clk, log, session.Config{SessionTTL: time.Minute})

	snap := env.Snapshot{
		UserAgent:     "Mozilla/5.0 (Linux; Android 14) Mobile Safari/537.36",
		ViewportWidth: 412,
	}
	action := domain.Action{Platform: domain.PlatformInstagram, WebURL: "https://instagram.com/alice"}

	// Finished an hour ago: eligible for collection.
	done, err := mgr.Begin("card-done", action, snap, false, nil, nil)
	if err != nil {
		t.Fatalf("Begin(done) error = %v", err)
	}
	done.Signal(detect.SignalPageHide)

	// Still attempting: must survive the sweep.
	if _, err := mgr.Begin("card-live", action, snap, false, nil, nil); err != nil {
		t.Fatalf("Begin(live) error = %v", err)
	}

	sc := NewSessionCollector(mgr, log, time.Minute)
	sc.Collect()

	if got := mgr.Count(); got != 1 {
		t.Errorf("Count() after collect = %d, want 1", got)
	}
	if _, ok := mgr.Get(done.ID); ok {
		t.Error("finished session was not collected")
	}
}
