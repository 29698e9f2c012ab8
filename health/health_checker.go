// Package health reports the runtime condition of the medikeep service:
// collection sizes, evaluation state and process statistics.
package health

import (
	"net/http"
	"runtime"
	"time"

	"github.com/medikeep/medikeep-api/handlers"
	"github.com/medikeep/medikeep-api/interfaces"
)

// Compile-time check to ensure Checker implements HealthChecker
var _ interfaces.HealthChecker = (*Checker)(nil)

// Checker computes health snapshots from the registry.
type Checker struct {
	registry  interfaces.DataStore
	startTime time.Time
}

// NewChecker creates a health checker.
func NewChecker(registry interfaces.DataStore) *Checker {
	return &Checker{registry: registry, startTime: time.Now()}
}

// HealthCheck returns the current status and details. The service reports
// degraded when medicines are tracked but no evaluation has ever completed,
// which points at a persistently failing evaluation path.
func (c *Checker) HealthCheck() (string, map[string]any, error) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	medicines := c.registry.GetMedicines()
	lastEvaluated := c.registry.GetLastEvaluated()

	status := "healthy"
	if len(medicines) > 0 && lastEvaluated.IsZero() {
		status = "degraded"
	}

	activeUserName := ""
	if active, ok := c.registry.GetActiveUser(); ok {
		activeUserName = active.Name
	}

	details := map[string]any{
		"medicine_count":  len(medicines),
		"alert_count":     len(c.registry.GetAlerts()),
		"user_count":      len(c.registry.GetUsers()),
		"active_user":     activeUserName,
		"last_evaluated":  lastEvaluated.Format(time.RFC3339),
		"evaluating":      c.registry.IsEvaluating(),
		"uptime_seconds":  time.Since(c.startTime).Seconds(),
		"memory_usage_mb": int(mem.Alloc / 1024 / 1024),
	}
	return status, details, nil
}

// Handler serves the health snapshot as JSON.
func (c *Checker) Handler(w http.ResponseWriter, r *http.Request) {
	status, details, _ := c.HealthCheck()
	details["status"] = status

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	handlers.RespondWithJSON(w, code, details)
}
