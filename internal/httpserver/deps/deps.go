package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EOPeakDesigns/applink/internal/logger"
	"github.com/EOPeakDesigns/applink/internal/registry"
	"github.com/EOPeakDesigns/applink/internal/resolve"
	"github.com/EOPeakDesigns/applink/internal/session"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time  // for testing, defaults to time.Now
	AllowedHosts   []string          // Host headers allowed to access the server
	AllowedCIDRS   []string          // IPs allowed to access healthz/readyz endpoints
	TrustProxy     bool              // true if running behind a trusted reverse proxy (e.g., cloudflared)
	PlatformFile   string            // Path to the platforms.yaml override file
	RedisClient    *redis.Client     // Redis client connection
	Registry       *registry.Index   // In-memory platform spec index
	Resolver       *resolve.Resolver // Candidate plan resolver
	Sessions       *session.Manager  // Live resolution sessions
	Engine         session.Config    // Detection windows and terminal policy
	FallbackURL    string            // Last-resort URL for /go redirects
	AllowedDomains []string          // Allowed domain suffixes for redirects
	PlanCacheTTL   time.Duration     // TTL for cached candidate plans
	ReloadTrigger  chan struct{}     // Channel to trigger manual registry reload
}
