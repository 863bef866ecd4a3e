package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/EOPeakDesigns/applink/internal/httpserver/deps"
)

type componentStatus struct {
	OK              bool   `json:"ok"`
	PlatformsLoaded *int   `json:"platforms_loaded,omitempty"`
	ActiveSessions  *int   `json:"active_sessions,omitempty"`
	LastReload      string `json:"last_reload,omitempty"`
	Mode            string `json:"mode,omitempty"`
	Impact          string `json:"impact,omitempty"`
	Error           string `json:"error,omitempty"`
}

type infraResponse struct {
	EngineMode string                     `json:"engine_mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		platformCount := d.Registry.Count()
		lastReload := d.Registry.LastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		active := d.Sessions.ActiveCount()

		redisStatus := checkRedis(d)

		components := map[string]componentStatus{
			"registry": {
				OK:              platformCount > 0,
				PlatformsLoaded: &platformCount,
				LastReload:      lastReloadStr,
			},
			"redis": redisStatus,
			"sessions": {
				OK:             true,
				ActiveSessions: &active,
			},
		}

		response := infraResponse{
			EngineMode: determineEngineMode(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineEngineMode(components map[string]componentStatus) string {
	// No platform specs loaded means every action resolves web-only.
	if registry, exists := components["registry"]; exists {
		if !registry.OK || (registry.PlatformsLoaded != nil && *registry.PlatformsLoaded == 0) {
			return "critical"
		}
	}

	// Redis down: plan caching and usage counters stop, resolution
	// itself keeps working off the memory index.
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded"
	}

	return "full"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "plan-cache-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := d.RedisClient.Ping(ctx).Err()
	if err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "plan-cache-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "plan-cache-enabled",
		Error:  "none",
	}
}
