package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const pingTimeout = 3 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnCounter reports live relay connections.
type ConnCounter interface {
	ClientCount() int
}

type HealthHandler struct {
	db      Pinger
	relay   ConnCounter
	started time.Time
	version string
}

// NewHealthHandler builds the /health, /healthz and /readyz handlers. relay may be nil.
func NewHealthHandler(db Pinger, relay ConnCounter, version string) *HealthHandler {
	return &HealthHandler{db: db, relay: relay, started: time.Now(), version: version}
}

// Readiness is what /readyz reports. Only the database decides the status;
// relay clients are informational.
type Readiness struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Database  string `json:"database"`
	WSClients *int   `json:"wsClients,omitempty"`
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	res := Readiness{
		Status:   "ready",
		Version:  h.version,
		Uptime:   time.Since(h.started).Round(time.Second).String(),
		Database: "ok",
	}
	if h.relay != nil {
		n := h.relay.ClientCount()
		res.WSClients = &n
	}

	code := http.StatusOK
	if err := h.ping(c.Request.Context()); err != nil {
		res.Status, res.Database = "not_ready", err.Error()
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, res)
}

// Health is the short form used by load balancers.
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

func (h *HealthHandler) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return h.db.Ping(ctx)
}
