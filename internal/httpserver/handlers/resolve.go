package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/EOPeakDesigns/applink/internal/domain"
	"github.com/EOPeakDesigns/applink/internal/env"
	"github.com/EOPeakDesigns/applink/internal/httpserver/deps"
	"github.com/EOPeakDesigns/applink/internal/logger"
	redisstore "github.com/EOPeakDesigns/applink/internal/store/redis"
)

type resolveResponse struct {
	Platform    string             `json:"platform"`
	DisplayName string             `json:"display_name"`
	Facts       env.Facts          `json:"facts"`
	WindowMs    int64              `json:"window_ms"`
	Candidates  []domain.Candidate `json:"candidates"`
}

// Resolve computes the ordered candidate plan for an action without
// starting a session. Thin clients use it to drive the attempt loop
// themselves.
func Resolve(d deps.Deps) http.HandlerFunc {
	var store *redisstore.Store
	if d.RedisClient != nil {
		store = redisstore.NewStore(d.RedisClient)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q := r.URL.Query()

		action := domain.Action{
			Platform:    domain.ParsePlatform(strings.TrimSpace(q.Get("platform"))),
			WebURL:      strings.TrimSpace(q.Get("url")),
			Email:       strings.TrimSpace(q.Get("email")),
			DisplayName: strings.TrimSpace(q.Get("name")),
		}
		if err := action.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		snap := snapshotFromQuery(r)
		facts := env.Classify(snap)

		window := d.Engine.DesktopWindow
		if facts.IsMobile {
			window = d.Engine.MobileWindow
		}

		fingerprint := planFingerprint(action, facts)

		// Try the plan cache first (best effort).
		if store != nil {
			if cached, err := store.GetCachedPlan(ctx, fingerprint); err == nil && cached != nil {
				d.Logger.Debug("plan cache hit",
					logger.String("fingerprint", fingerprint))
				writeResolveResponse(w, d, action, facts, window, cached)
				return
			}
		}

		candidates := d.Resolver.Resolve(action, facts)

		if store != nil {
			if err := store.CachePlan(ctx, fingerprint, candidates, d.PlanCacheTTL); err != nil {
				d.Logger.Debug("failed to cache plan", logger.Error(err))
			}
			if err := store.IncrementUsage(ctx, string(action.Platform)); err != nil {
				d.Logger.Debug("failed to increment usage", logger.Error(err))
			}
		}

		d.Logger.Info("plan resolved",
			logger.String("platform", string(action.Platform)),
			logger.Bool("mobile", facts.IsMobile),
			logger.Int("candidates", len(candidates)))

		writeResolveResponse(w, d, action, facts, window, candidates)
	}
}

func writeResolveResponse(w http.ResponseWriter, d deps.Deps, action domain.Action, facts env.Facts, window time.Duration, candidates []domain.Candidate) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resolveResponse{
		Platform:    string(action.Platform),
		DisplayName: d.Resolver.DisplayName(action.Platform),
		Facts:       facts,
		WindowMs:    window.Milliseconds(),
		Candidates:  candidates,
	})
}

// snapshotFromQuery builds the environment snapshot from query params,
// falling back to the request's own User-Agent header.
func snapshotFromQuery(r *http.Request) env.Snapshot {
	q := r.URL.Query()

	ua := q.Get("ua")
	if ua == "" {
		ua = r.UserAgent()
	}

	touch, _ := strconv.Atoi(q.Get("touch"))
	vw, _ := strconv.Atoi(q.Get("vw"))
	coarse, _ := strconv.ParseBool(q.Get("coarse"))
	noHover, _ := strconv.ParseBool(q.Get("nohover"))

	return env.Snapshot{
		UserAgent:     ua,
		CoarsePointer: coarse,
		NoHover:       noHover,
		TouchPoints:   touch,
		ViewportWidth: vw,
	}
}

// planFingerprint keys the plan cache. Plans depend on the action and
// the environment class, nothing else.
func planFingerprint(action domain.Action, facts env.Facts) string {
	class := "desktop"
	switch {
	case facts.IsMobile && facts.IsIOSLike:
		class = "mobile-ios"
	case facts.IsMobile && facts.IsAndroidLike:
		class = "mobile-android"
	case facts.IsMobile:
		class = "mobile"
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s", action.Platform, action.WebURL, action.Email, action.DisplayName, class)
}
