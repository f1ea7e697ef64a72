package deps

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fangbw17/sidebar/internal/catalog"
	"github.com/fangbw17/sidebar/internal/logger"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time // for testing, defaults to time.Now
	AllowedHosts   []string         // Host headers allowed to access the server
	AllowedCIDRS   []string         // IPs allowed to access /reload, /infra and /metrics
	TrustProxy     bool             // true if running behind a trusted reverse proxy
	RateBurst      int              // per-IP burst on /api
	RatePerMin     int              // per-IP refill per minute on /api
	Locales        []string         // configured locale names
	Catalog        *catalog.Catalog // published snapshots
	RedisClient    *redis.Client    // nil when persistence is disabled
	WatchEnabled   bool             // true when locale files are watched
	ReloadTrigger  chan struct{}    // Channel to trigger manual reload
	MetricsHandler http.Handler     // Prometheus exposition, nil disables /metrics
}
