package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/EOPeakDesigns/applink/internal/detect"
	"github.com/EOPeakDesigns/applink/internal/domain"
	"github.com/EOPeakDesigns/applink/internal/env"
	"github.com/EOPeakDesigns/applink/internal/httpserver/deps"
	"github.com/EOPeakDesigns/applink/internal/logger"
	"github.com/EOPeakDesigns/applink/internal/utils"
)

type beginSessionRequest struct {
	Owner         string       `json:"owner"`
	Platform      string       `json:"platform"`
	WebURL        string       `json:"web_url"`
	Email         string       `json:"email,omitempty"`
	DisplayName   string       `json:"display_name,omitempty"`
	Env           env.Snapshot `json:"env"`
	InitialHidden bool         `json:"initial_hidden"`
}

type sessionEventRequest struct {
	Signal string `json:"signal"`
}

// BeginSession starts a resolution session. Effects come back as
// directives: the first response already carries the launch attempt the
// page must perform.
func BeginSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req beginSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		action := domain.Action{
			Platform:    domain.ParsePlatform(strings.TrimSpace(req.Platform)),
			WebURL:      strings.TrimSpace(req.WebURL),
			Email:       strings.TrimSpace(req.Email),
			DisplayName: strings.TrimSpace(req.DisplayName),
		}

		// Anonymous clients share a session slot per IP, so a second
		// click from the same page still supersedes the first.
		owner := strings.TrimSpace(req.Owner)
		if owner == "" {
			owner = utils.ClientIP(r, d.TrustProxy)
		}

		s, err := d.Sessions.Begin(owner, action, req.Env, req.InitialHidden, nil, nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(s.Status())
	}
}

// SessionEvents feeds page lifecycle signals into a session.
func SessionEvents(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid session id", http.StatusBadRequest)
			return
		}

		var req sessionEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		sig, ok := detect.ParseSignal(req.Signal)
		if !ok {
			http.Error(w, "unknown signal", http.StatusBadRequest)
			return
		}

		if err := d.Sessions.Signal(id, sig); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		s, ok := d.Sessions.Get(id)
		if !ok {
			http.Error(w, "unknown session", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.Status())
	}
}

// SessionStatus returns the session snapshot and drains pending
// directives for the polling page.
func SessionStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid session id", http.StatusBadRequest)
			return
		}

		s, ok := d.Sessions.Get(id)
		if !ok {
			http.Error(w, "unknown session", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.Status())
	}
}

// DismissSession records that the user closed the chooser. Late
// fallback triggers are suppressed from here on.
func DismissSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid session id", http.StatusBadRequest)
			return
		}

		s, ok := d.Sessions.Get(id)
		if !ok {
			http.Error(w, "unknown session", http.StatusNotFound)
			return
		}

		s.Dismiss()
		d.Logger.Info("session dismissed",
			logger.String("session_id", id.String()))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.Status())
	}
}
