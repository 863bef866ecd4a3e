package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/EOPeakDesigns/applink/internal/httpserver/deps"
	"github.com/EOPeakDesigns/applink/internal/logger"
	redisstore "github.com/EOPeakDesigns/applink/internal/store/redis"
)

// Go performs the server-side web fallback: a 302 to the requested
// destination when its host is inside the allowed domains, the
// configured fallback URL otherwise. The user always lands somewhere.
func Go(d deps.Deps) http.HandlerFunc {
	var store *redisstore.Store
	if d.RedisClient != nil {
		store = redisstore.NewStore(d.RedisClient)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		target := strings.TrimSpace(r.URL.Query().Get("to"))
		if target == "" {
			d.Logger.Debug("empty redirect target, using fallback")
			http.Redirect(w, r, d.FallbackURL, http.StatusFound)
			return
		}

		u, err := url.Parse(target)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			d.Logger.Warn("malformed redirect target",
				logger.String("target", target))
			http.Redirect(w, r, d.FallbackURL, http.StatusFound)
			return
		}

		if !isAllowedRedirect(u.Hostname(), d.AllowedDomains) {
			d.Logger.Warn("redirect target not in allowed domains",
				logger.String("host", u.Hostname()))
			http.Redirect(w, r, d.FallbackURL, http.StatusFound)
			return
		}

		if store != nil {
			if platform := strings.TrimSpace(r.URL.Query().Get("platform")); platform != "" {
				_ = store.IncrementUsage(r.Context(), platform)
			}
		}

		d.Logger.Info("web fallback redirect",
			logger.String("host", u.Hostname()))
		http.Redirect(w, r, u.String(), http.StatusFound)
	}
}

// isAllowedRedirect checks if a hostname is allowed for redirection
func isAllowedRedirect(hostname string, allowedDomains []string) bool {
	hostname = strings.ToLower(hostname)

	for _, domain := range allowedDomains {
		domain = strings.ToLower(domain)

		// Exact match
		if hostname == domain {
			return true
		}

		// Subdomain match (hostname ends with .domain)
		if strings.HasSuffix(hostname, "."+domain) {
			return true
		}
	}

	return false
}
