// Package scheduler provides background housekeeping for the medikeep API.
// It does not generate or deliver alerts — evaluation only runs on
// collection changes. The scheduler's jobs are maintenance: compacting
// stale date-scoped reminder fingerprints out of the processed set, and
// warning when evaluation appears stuck.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/medikeep/medikeep-api/data"
	"github.com/medikeep/medikeep-api/interfaces"
	"github.com/medikeep/medikeep-api/logging"
)

// Compile-time check to ensure Housekeeper implements Scheduler
var _ interfaces.Scheduler = (*Housekeeper)(nil)

// Housekeeper runs the maintenance jobs on a gocron schedule.
type Housekeeper struct {
	registry  *data.Registry
	scheduler *gocron.Scheduler
	stopCh    chan struct{}
}

// NewHousekeeper creates a housekeeper for the given registry.
func NewHousekeeper(registry *data.Registry) *Housekeeper {
	return &Housekeeper{
		registry:  registry,
		scheduler: gocron.NewScheduler(time.Local),
		stopCh:    make(chan struct{}),
	}
}

// Start compacts once at startup, schedules the nightly compaction shortly
// after midnight, and begins the staleness monitor.
func (h *Housekeeper) Start() error {
	h.compact()

	_, err := h.scheduler.Every(1).Days().At("00:05").Do(h.compact)
	if err != nil {
		logging.Error("Failed to schedule fingerprint compaction", "error", err)
		return fmt.Errorf("failed to schedule fingerprint compaction: %w", err)
	}

	h.scheduler.StartAsync()
	h.startStalenessMonitor()
	return nil
}

// Stop stops all jobs.
func (h *Housekeeper) Stop() {
	close(h.stopCh)
	h.scheduler.Stop()
}

// compact purges reminder fingerprints from past calendar days.
func (h *Housekeeper) compact() {
	removed := h.registry.CompactFingerprints(context.Background())
	if removed > 0 {
		logging.Info("Compacted processed fingerprints", "removed", removed)
	}
}

// startStalenessMonitor warns hourly when medicines are tracked but no
// evaluation has completed for over a day, which means the change hook is
// not being invoked or evaluations keep failing.
func (h *Housekeeper) startStalenessMonitor() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-h.stopCh:
				return
			case <-ticker.C:
				last := h.registry.GetLastEvaluated()
				if len(h.registry.GetMedicines()) > 0 && time.Since(last) > 25*time.Hour {
					logging.Warn("Alerts have not been evaluated in over 25 hours",
						"last_evaluated", last.Format(time.RFC3339))
				}
			}
		}
	}()
}
