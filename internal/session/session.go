package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EOPeakDesigns/applink/internal/clock"
	"github.com/EOPeakDesigns/applink/internal/detect"
	"github.com/EOPeakDesigns/applink/internal/domain"
	"github.com/EOPeakDesigns/applink/internal/env"
	"github.com/EOPeakDesigns/applink/internal/launch"
	"github.com/EOPeakDesigns/applink/internal/logger"
)

// State of a resolution session.
type State string

const (
	StateIdle       State = "idle"
	StateAttempting State = "attempting"
	StateAppOpened  State = "app_opened"
	StateExhausted  State = "exhausted"

	// StateDismissed: the user explicitly closed the chooser. Terminal;
	// suppresses every late-arriving fallback trigger for this action.
	StateDismissed State = "dismissed"

	// StateSuperseded: a newer session for the same owner took over the
	// page listeners before this one resolved.
	StateSuperseded State = "superseded"
)

// Outcome of a resolution session.
type Outcome string

const (
	OutcomePending    Outcome = "pending"
	OutcomeAppOpened  Outcome = "app_opened"
	OutcomeExhausted  Outcome = "exhausted"
	OutcomeDismissed  Outcome = "dismissed"
	OutcomeSuperseded Outcome = "superseded"
)

// Config tunes the orchestrator.
type Config struct {
	// MobileWindow bounds detection on mobile environments, where an
	// installed app genuinely may intercept the scheme.
	MobileWindow time.Duration

	// DesktopWindow bounds detection on desktop. Desktop apps
	// essentially never intercept custom schemes, so fail fast.
	DesktopWindow time.Duration

	// BlurGrace is the blur debounce forwarded to the detector.
	BlurGrace time.Duration

	// SafetyMargin is added to the window for the secondary safety
	// timer that double-checks the terminal action under races.
	SafetyMargin time.Duration

	// PresentChoice selects the chooser terminal policy instead of a
	// direct web navigation, when the plan carries an app or store URI.
	PresentChoice bool

	// SessionTTL is how long finished sessions stay queryable before
	// the sweeper drops them.
	SessionTTL time.Duration
}

// WithDefaults fills the zero fields with the tuned defaults.
func (c Config) WithDefaults() Config {
	if c.MobileWindow <= 0 {
		c.MobileWindow = time.Second
	}
	if c.DesktopWindow <= 0 {
		c.DesktopWindow = 500 * time.Millisecond
	}
	if c.BlurGrace <= 0 {
		c.BlurGrace = 200 * time.Millisecond
	}
	if c.SafetyMargin <= 0 {
		c.SafetyMargin = 300 * time.Millisecond
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 5 * time.Minute
	}
	return c
}

// Session is the live state machine for one action. It sequences the
// candidate list, arms and disarms detection, and guarantees exactly
// one terminal action per action, whatever order signals and timers
// arrive in.
type Session struct {
	ID uuid.UUID

	mu          sync.Mutex
	action      domain.Action
	facts       env.Facts
	candidates  []domain.Candidate
	displayName string
	idx         int
	state       State
	outcome     Outcome
	hidden      bool
	window      time.Duration
	startedAt   time.Time
	finishedAt  time.Time

	cfg       Config
	clk       clock.Clock
	log       logger.Logger
	attempter *launch.Attempter
	terminal  Terminal
	detector  *detect.Detector
	safety    clock.Timer

	// terminalTaken is checked before every fallback invocation so a
	// slow blur confirmation and the safety timer cannot double-fire.
	terminalTaken bool

	recorder *Recorder
}

// start launches the first attempt. Called once by the manager, inside
// the click's call path.
func (s *Session) start(initialHidden bool) {
	s.mu.Lock()
	s.hidden = initialHidden
	s.startedAt = s.clk.Now()
	s.state = StateAttempting
	s.idx = -1
	s.advanceLocked()
}

// Signal feeds one page lifecycle event into the session. Events for
// finished sessions are no-ops.
func (s *Session) Signal(sig detect.Signal) {
	s.mu.Lock()
	switch sig {
	case detect.SignalHidden:
		s.hidden = true
	case detect.SignalVisible, detect.SignalFocus:
		s.hidden = false
	}
	det := s.detector
	attempting := s.state == StateAttempting
	s.mu.Unlock()

	if attempting && det != nil {
		det.OnSignal(sig)
	}
}

// Dismiss records that the user explicitly closed the chooser. All
// late fallback triggers for this action are suppressed from here on.
func (s *Session) Dismiss() {
	s.mu.Lock()
	if s.state == StateAppOpened || s.state == StateDismissed || s.state == StateSuperseded {
		s.mu.Unlock()
		return
	}
	s.state = StateDismissed
	s.outcome = OutcomeDismissed
	s.terminalTaken = true
	det := s.teardownLocked()
	s.mu.Unlock()

	if det != nil {
		det.Cancel()
	}
	s.log.Debug("session dismissed by user", logger.String("session_id", s.ID.String()))
}

// supersede tears the session down because a newer session for the
// same owner is about to arm its own listeners.
func (s *Session) supersede() {
	s.mu.Lock()
	if s.finishedLocked() {
		s.mu.Unlock()
		return
	}
	s.state = StateSuperseded
	s.outcome = OutcomeSuperseded
	s.terminalTaken = true
	det := s.teardownLocked()
	s.mu.Unlock()

	if det != nil {
		det.Cancel()
	}
	s.log.Debug("session superseded by a newer click", logger.String("session_id", s.ID.String()))
}

// advanceLocked moves to the next candidate worth attempting. Store
// candidates are chooser material and the web candidate is the
// terminal fallback, so only app candidates get a launch attempt and a
// detection window. Called with s.mu held; always releases it.
func (s *Session) advanceLocked() {
	for {
		s.idx++
		if s.idx >= len(s.candidates) {
			// The plan always ends in a web candidate, but guard the
			// impossible anyway: never strand the user.
			s.terminalLocked()
			return
		}

		c := s.candidates[s.idx]
		switch {
		case c.Kind == domain.CandidateStore:
			continue
		case c.Kind == domain.CandidateWeb:
			s.terminalLocked()
			return
		}

		if err := s.attempter.Attempt(c); err != nil {
			// Equivalent to an instant timeout: skip, never retry.
			s.log.Warn("launch attempt failed, skipping candidate",
				logger.String("session_id", s.ID.String()),
				logger.String("kind", string(c.Kind)),
				logger.Error(err))
			continue
		}

		s.armLocked()
		s.mu.Unlock()
		return
	}
}

// armLocked arms a fresh detector and re-arms the safety timer for the
// candidate just attempted. The previous attempt's detector has
// already finished; one session never has two armed detectors.
func (s *Session) armLocked() {
	det := detect.New(s.clk, detect.Config{Window: s.window, BlurGrace: s.cfg.BlurGrace})
	s.detector = det
	det.Arm(s.hidden, s.onDetect)

	if s.safety != nil {
		s.safety.Stop()
	}
	s.safety = s.clk.AfterFunc(s.window+s.cfg.SafetyMargin, s.onSafety)
}

// onDetect receives the detector verdict for the current attempt.
func (s *Session) onDetect(opened bool) {
	s.mu.Lock()
	if s.state != StateAttempting {
		s.mu.Unlock()
		return
	}

	if opened {
		s.state = StateAppOpened
		s.outcome = OutcomeAppOpened
		s.teardownLocked()
		s.mu.Unlock()
		s.log.Info("app took over the page",
			logger.String("session_id", s.ID.String()),
			logger.String("platform", string(s.action.Platform)))
		return
	}

	s.advanceLocked()
}

// onSafety is the secondary timer. If the primary path wedged without
// taking a terminal action, force the guaranteed fallback.
func (s *Session) onSafety() {
	s.mu.Lock()
	if s.state != StateAttempting || s.terminalTaken {
		s.mu.Unlock()
		return
	}
	s.log.Warn("safety timer fired with session still attempting",
		logger.String("session_id", s.ID.String()))
	s.terminalLocked()
}

// terminalLocked performs the one definitive outcome of the session.
// Called with s.mu held; always releases it. The terminalTaken flag is
// set exactly once and checked here, before any fallback invocation.
func (s *Session) terminalLocked() {
	if s.terminalTaken {
		s.mu.Unlock()
		return
	}
	s.terminalTaken = true
	s.state = StateExhausted
	s.outcome = OutcomeExhausted

	choice := s.choiceLocked()
	webURI := choice.WebURL
	term := s.terminal
	det := s.teardownLocked()
	s.mu.Unlock()

	if det != nil {
		det.Cancel()
	}

	if s.cfg.PresentChoice && (choice.AppURI != "" || choice.StoreURI != "") {
		term.PresentChoice(choice)
		s.announce("Choose how to open " + choice.PlatformDisplayName)
	} else {
		term.NavigateWeb(webURI)
		s.announce("Opening in browser")
	}

	s.log.Info("session exhausted, terminal fallback taken",
		logger.String("session_id", s.ID.String()),
		logger.String("platform", string(s.action.Platform)),
		logger.String("web_url", webURI))
}

// choiceLocked assembles the chooser payload from the candidate plan.
func (s *Session) choiceLocked() Choice {
	c := Choice{PlatformDisplayName: s.displayName, WebURL: s.action.WebURL}
	for _, cand := range s.candidates {
		switch cand.Kind {
		case domain.CandidatePrimaryApp:
			if c.AppURI == "" {
				c.AppURI = cand.URI
			}
		case domain.CandidateStore:
			c.StoreURI = cand.URI
		case domain.CandidateWeb:
			c.WebURL = cand.URI
		}
	}
	return c
}

// teardownLocked stops the timers, detaches the detector and stamps
// the finish time. Returns the detached detector so the caller can
// cancel it outside the session lock.
func (s *Session) teardownLocked() *detect.Detector {
	if s.safety != nil {
		s.safety.Stop()
		s.safety = nil
	}
	det := s.detector
	s.detector = nil
	s.finishedAt = s.clk.Now()
	return det
}

func (s *Session) finishedLocked() bool {
	return s.state != StateIdle && s.state != StateAttempting
}

func (s *Session) announce(text string) {
	if a, ok := s.terminal.(Announcer); ok {
		a.Announce(text)
	}
}

// ─────────────────────────────────────────────────────────────────
// Read accessors
// ─────────────────────────────────────────────────────────────────

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Outcome returns the current outcome.
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Finished reports whether the session reached a terminal state.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishedLocked()
}

// FinishedAt returns when the session finished, zero if still live.
func (s *Session) FinishedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishedAt
}

// Candidates returns a copy of the resolved plan.
func (s *Session) Candidates() []domain.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Status is the wire-facing snapshot of a session.
type Status struct {
	ID             string      `json:"id"`
	State          State       `json:"state"`
	Outcome        Outcome     `json:"outcome"`
	CandidateIndex int         `json:"candidate_index"`
	WindowMs       int64       `json:"window_ms"`
	Directives     []Directive `json:"directives,omitempty"`
}

// Status snapshots the session and drains any directives buffered for
// a polling collaborator.
func (s *Session) Status() Status {
	s.mu.Lock()
	st := Status{
		ID:             s.ID.String(),
		State:          s.state,
		Outcome:        s.outcome,
		CandidateIndex: s.idx,
		WindowMs:       s.window.Milliseconds(),
	}
	rec := s.recorder
	s.mu.Unlock()

	if rec != nil {
		st.Directives = rec.Drain()
	}
	return st
}
