package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EOPeakDesigns/applink/internal/clock"
	"github.com/EOPeakDesigns/applink/internal/detect"
	"github.com/EOPeakDesigns/applink/internal/domain"
	"github.com/EOPeakDesigns/applink/internal/env"
	"github.com/EOPeakDesigns/applink/internal/launch"
	"github.com/EOPeakDesigns/applink/internal/logger"
	"github.com/EOPeakDesigns/applink/internal/resolve"
)

// Manager owns every live resolution session and enforces the
// single-owner listener rule: at most one session per owner may have
// signals routed to it, and a new click fully tears down the previous
// session's detector and timers before arming its own.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	owners   map[string]*Session

	cfg      Config
	clk      clock.Clock
	log      logger.Logger
	resolver *resolve.Resolver
}

// NewManager creates a session manager.
func NewManager(resolver *resolve.Resolver, clk clock.Clock, log logger.Logger, cfg Config) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		owners:   make(map[string]*Session),
		cfg:      cfg.WithDefaults(),
		clk:      clk,
		log:      log,
		resolver: resolver,
	}
}

// Begin resolves the action and starts a new session for owner. Any
// session the owner still has armed is superseded first, so signals
// can never cross-contaminate between clicks.
//
// nav and term may be nil, in which case a directive Recorder is
// attached and effects become pollable through Status.
func (m *Manager) Begin(owner string, action domain.Action, snap env.Snapshot, initialHidden bool, nav launch.Navigator, term Terminal) (*Session, error) {
	if err := action.Validate(); err != nil {
		return nil, fmt.Errorf("invalid action: %w", err)
	}

	facts := env.Classify(snap)
	candidates := m.resolver.Resolve(action, facts)

	window := m.cfg.DesktopWindow
	if facts.IsMobile {
		window = m.cfg.MobileWindow
	}

	s := &Session{
		ID:          uuid.New(),
		action:      action,
		facts:       facts,
		candidates:  candidates,
		displayName: m.resolver.DisplayName(action.Platform),
		state:       StateIdle,
		outcome:     OutcomePending,
		window:      window,
		cfg:         m.cfg,
		clk:         m.clk,
		log:         m.log,
	}

	if nav == nil && term == nil {
		rec := NewRecorder()
		nav, term = rec, rec
		s.recorder = rec
	}
	if nav == nil || term == nil {
		return nil, fmt.Errorf("navigator and terminal collaborators must both be provided")
	}
	s.attempter = launch.NewAttempter(nav, facts.IsDesktop)
	s.terminal = term

	if owner == "" {
		owner = s.ID.String()
	}

	m.mu.Lock()
	prev := m.owners[owner]
	m.sessions[s.ID] = s
	m.owners[owner] = s
	m.mu.Unlock()

	if prev != nil {
		prev.supersede()
	}

	m.log.Debug("session starting",
		logger.String("session_id", s.ID.String()),
		logger.String("platform", string(action.Platform)),
		logger.Int("candidates", len(candidates)),
		logger.Duration("window", window))

	s.start(initialHidden)
	return s, nil
}

// Get retrieves a session by ID.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Signal routes a page lifecycle event to a session by ID.
func (m *Manager) Signal(id uuid.UUID, sig detect.Signal) error {
	s, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("unknown session %s", id)
	}
	s.Signal(sig)
	return nil
}

// Count returns the number of retained sessions (live and finished).
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ActiveCount returns the number of sessions still attempting.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	n := 0
	for _, s := range sessions {
		if !s.Finished() {
			n++
		}
	}
	return n
}

// Sweep drops finished sessions older than the session TTL and
// returns how many were removed. Run periodically by the scheduler.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	sessions := make(map[uuid.UUID]*Session, len(m.sessions))
	for id, s := range m.sessions {
		sessions[id] = s
	}
	m.mu.Unlock()

	var expired []uuid.UUID
	for id, s := range sessions {
		if !s.Finished() {
			continue
		}
		if now.Sub(s.FinishedAt()) >= m.cfg.SessionTTL {
			expired = append(expired, id)
		}
	}
	if len(expired) == 0 {
		return 0
	}

	m.mu.Lock()
	for _, id := range expired {
		s := m.sessions[id]
		delete(m.sessions, id)
		for owner, owned := range m.owners {
			if owned == s {
				delete(m.owners, owner)
			}
		}
	}
	m.mu.Unlock()

	return len(expired)
}
