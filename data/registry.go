// Package data provides the application state registry for medikeep: the
// medicine, alert and user collections, the processed-fingerprint set, and
// their persistence round-trips. Reads are lock-free snapshots via atomic
// values; mutations are serialized and re-run the alert evaluator through
// the explicit OnMedicinesChanged hook.
package data

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/medikeep/medikeep-api/alerts"
	"github.com/medikeep/medikeep-api/entities"
	"github.com/medikeep/medikeep-api/interactions"
	"github.com/medikeep/medikeep-api/interfaces"
	"github.com/medikeep/medikeep-api/logging"
	"github.com/medikeep/medikeep-api/metrics"
	"github.com/medikeep/medikeep-api/storage"
)

// ErrNotFound is returned when a mutation targets an id that is not in the
// collection.
var ErrNotFound = errors.New("not found")

// Compile-time check to ensure Registry implements DataStore
var _ interfaces.DataStore = (*Registry)(nil)

// Registry holds all application state and its persistence. A failed save is
// logged and swallowed: in-memory state is never rolled back, so memory and
// the persisted store stay inconsistent only until the next successful save.
type Registry struct {
	store storage.Store

	medicines     atomic.Value // []entities.Medicine
	alertList     atomic.Value // []entities.Alert
	users         atomic.Value // []entities.User
	activeUserID  atomic.Value // string
	lastEvaluated atomic.Value // time.Time

	mu        sync.Mutex // serializes mutations and guards processed
	processed alerts.ProcessedSet

	evaluating atomic.Bool

	nowFunc func() time.Time
}

// NewRegistry creates an empty registry backed by the given store.
func NewRegistry(store storage.Store) *Registry {
	r := &Registry{
		store:     store,
		processed: make(alerts.ProcessedSet),
		nowFunc:   time.Now,
	}
	r.medicines.Store(make([]entities.Medicine, 0))
	r.alertList.Store(make([]entities.Alert, 0))
	r.users.Store(make([]entities.User, 0))
	r.activeUserID.Store("")
	r.lastEvaluated.Store(time.Time{})
	return r
}

// Load reads every collection from the store. Missing keys leave the
// collection empty; corrupt payloads are logged and treated as empty so a
// damaged store never takes the app down. Users are seeded with defaults on
// first run.
func (r *Registry) Load(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var medicines []entities.Medicine
	if r.loadJSON(ctx, storage.KeyMedicines, &medicines) {
		r.medicines.Store(medicines)
	}

	var alertList []entities.Alert
	if r.loadJSON(ctx, storage.KeyAlerts, &alertList) {
		// Stored alerts may predate merge-side dedup; collapse by id.
		r.alertList.Store(alerts.Merge(nil, alertList))
	}

	var processedIDs []string
	if r.loadJSON(ctx, storage.KeyProcessedIDs, &processedIDs) {
		r.processed = alerts.NewProcessedSet(processedIDs)
	}

	var users []entities.User
	if r.loadJSON(ctx, storage.KeyUsers, &users) && len(users) > 0 {
		r.users.Store(users)
	} else {
		users = entities.DefaultUsers()
		r.users.Store(users)
		r.save(ctx, storage.KeyUsers, users)
	}

	activeID := ""
	if raw, err := r.store.Get(ctx, storage.KeyActiveUserID); err != nil {
		logging.Error("Failed to load active user id", "error", err)
	} else if raw != nil {
		activeID = string(raw)
	}
	if !userExists(users, activeID) {
		activeID = users[0].ID
	}
	r.activeUserID.Store(activeID)
}

// loadJSON reads and unmarshals one key. Returns false when the key is
// absent or unusable.
func (r *Registry) loadJSON(ctx context.Context, key string, out any) bool {
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		logging.Error("Failed to load collection", "key", key, "error", err)
		metrics.PersistenceFailures.WithLabelValues("load").Inc()
		return false
	}
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logging.Error("Discarding corrupt collection", "key", key, "error", err)
		return false
	}
	return true
}

// save marshals and writes one key, logging and swallowing failures.
func (r *Registry) save(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		logging.Error("Failed to marshal collection", "key", key, "error", err)
		return
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		logging.Error("Failed to save collection", "key", key, "error", err)
		metrics.PersistenceFailures.WithLabelValues("save").Inc()
	}
}

// saveAlertState persists the alert list and the processed-fingerprint set
// as one batch, so a fingerprint can never be marked processed without its
// alert being persisted alongside it.
func (r *Registry) saveAlertState(ctx context.Context, alertList []entities.Alert, processed alerts.ProcessedSet) {
	alertsRaw, err := json.Marshal(alertList)
	if err != nil {
		logging.Error("Failed to marshal alerts", "error", err)
		return
	}
	processedRaw, err := json.Marshal(processed.Sorted())
	if err != nil {
		logging.Error("Failed to marshal processed fingerprints", "error", err)
		return
	}

	batch := map[string][]byte{
		storage.KeyAlerts:       alertsRaw,
		storage.KeyProcessedIDs: processedRaw,
	}
	if err := r.store.SetMulti(ctx, batch); err != nil {
		logging.Error("Failed to save alert state", "error", err)
		metrics.PersistenceFailures.WithLabelValues("save").Inc()
	}
}

// Snapshot reads

// GetMedicines returns the current medicine collection.
func (r *Registry) GetMedicines() []entities.Medicine {
	if v := r.medicines.Load(); v != nil {
		if medicines, ok := v.([]entities.Medicine); ok {
			return medicines
		}
	}

	logging.Warn("Medicine list is empty or invalid")
	return []entities.Medicine{}
}

// GetMedicine returns one medicine by id.
func (r *Registry) GetMedicine(id string) (entities.Medicine, bool) {
	for _, m := range r.GetMedicines() {
		if m.ID == id {
			return m, true
		}
	}
	return entities.Medicine{}, false
}

// GetAlerts returns the current alert list.
func (r *Registry) GetAlerts() []entities.Alert {
	if v := r.alertList.Load(); v != nil {
		if list, ok := v.([]entities.Alert); ok {
			return list
		}
	}

	logging.Warn("Alert list is empty or invalid")
	return []entities.Alert{}
}

// GetAlertsByType returns the alerts of one kind.
func (r *Registry) GetAlertsByType(kind entities.AlertType) []entities.Alert {
	return alerts.FilterByType(r.GetAlerts(), kind)
}

// GetUsers returns the current user collection.
func (r *Registry) GetUsers() []entities.User {
	if v := r.users.Load(); v != nil {
		if users, ok := v.([]entities.User); ok {
			return users
		}
	}

	logging.Warn("User list is empty or invalid")
	return []entities.User{}
}

// GetActiveUser returns the currently active user.
func (r *Registry) GetActiveUser() (entities.User, bool) {
	activeID, _ := r.activeUserID.Load().(string)
	for _, u := range r.GetUsers() {
		if u.ID == activeID {
			return u, true
		}
	}
	return entities.User{}, false
}

// GetLastEvaluated returns the timestamp of the last completed evaluation.
func (r *Registry) GetLastEvaluated() time.Time {
	if v := r.lastEvaluated.Load(); v != nil {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

// IsEvaluating returns true while an alert evaluation is in progress.
func (r *Registry) IsEvaluating() bool {
	return r.evaluating.Load()
}

// Medicine mutations

// AddMedicine stores a new medicine, computing its interaction hints against
// the medicines already tracked. ID and CreatedAt are assigned when unset.
// The caller is expected to invoke OnMedicinesChanged afterwards.
func (r *Registry) AddMedicine(ctx context.Context, m entities.Medicine) (entities.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.nowFunc()
	}

	current := r.GetMedicines()
	m.Interactions = interactions.FindInteractions(m.Name, current)

	updated := make([]entities.Medicine, 0, len(current)+1)
	updated = append(updated, current...)
	updated = append(updated, m)

	r.medicines.Store(updated)
	r.save(ctx, storage.KeyMedicines, updated)
	return m, nil
}

// UpdateMedicine replaces the stored record with the same id.
func (r *Registry) UpdateMedicine(ctx context.Context, m entities.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.GetMedicines()
	updated := make([]entities.Medicine, len(current))
	found := false
	for i, existing := range current {
		if existing.ID == m.ID {
			updated[i] = m
			found = true
		} else {
			updated[i] = existing
		}
	}
	if !found {
		return ErrNotFound
	}

	r.medicines.Store(updated)
	r.save(ctx, storage.KeyMedicines, updated)
	return nil
}

// DeleteMedicine removes a medicine and cascades: every alert referencing it
// is dropped, and every processed fingerprint containing its id as a
// substring is purged, so re-adding the medicine can re-trigger previously
// suppressed alert kinds.
func (r *Registry) DeleteMedicine(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.GetMedicines()
	updated := make([]entities.Medicine, 0, len(current))
	found := false
	for _, m := range current {
		if m.ID == id {
			found = true
			continue
		}
		updated = append(updated, m)
	}
	if !found {
		return ErrNotFound
	}

	r.medicines.Store(updated)
	r.save(ctx, storage.KeyMedicines, updated)

	kept := make([]entities.Alert, 0, len(r.GetAlerts()))
	for _, a := range r.GetAlerts() {
		if !a.References(id) {
			kept = append(kept, a)
		}
	}
	purged := r.processed.PurgeContaining(id)
	logging.Info("Cascaded medicine deletion", "medicine_id", id,
		"alerts_remaining", len(kept), "fingerprints_purged", purged)

	r.alertList.Store(kept)
	r.saveAlertState(ctx, kept, r.processed)
	return nil
}

// OnMedicinesChanged re-runs the four alert passes over the full collection
// and merges the results into the stored alert list. Only one evaluation may
// run at a time; a request arriving while one is in progress is dropped, and
// the caller must re-trigger after the next collection change if it needs
// the skipped pass.
func (r *Registry) OnMedicinesChanged(ctx context.Context) interfaces.EvaluationReport {
	if !r.evaluating.CompareAndSwap(false, true) {
		logging.Info("Alert evaluation already in progress, skipping...")
		metrics.EvaluationsDropped.Inc()
		return interfaces.EvaluationReport{}
	}
	defer r.evaluating.Store(false)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	generated, updatedProcessed := alerts.Evaluate(r.GetMedicines(), r.processed, now)

	report := interfaces.EvaluationReport{
		Ran:           true,
		NewAlerts:     len(generated),
		AlertsByType:  make(map[entities.AlertType]int),
		ProcessedSize: len(updatedProcessed),
	}
	for _, a := range generated {
		report.AlertsByType[a.Type]++
		metrics.AlertsGenerated.WithLabelValues(string(a.Type)).Inc()
	}
	metrics.EvaluationRuns.Inc()

	r.lastEvaluated.Store(now)

	if len(generated) == 0 {
		return report
	}

	merged := alerts.Merge(r.GetAlerts(), generated)
	r.alertList.Store(merged)
	r.processed = updatedProcessed
	r.saveAlertState(ctx, merged, r.processed)

	logging.Info("Alert evaluation completed",
		"new_alerts", len(generated),
		"total_alerts", len(merged),
		"processed_fingerprints", len(updatedProcessed))
	return report
}

// CompactFingerprints drops date-scoped reminder fingerprints from past
// days. They can never suppress anything again; purging them keeps the
// persisted set from growing without bound. Returns the number removed.
func (r *Registry) CompactFingerprints(ctx context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := r.processed.PurgeStaleReminders(r.nowFunc().Format("2006-01-02"))
	if removed > 0 {
		r.saveAlertState(ctx, r.GetAlerts(), r.processed)
	}
	return removed
}

// MarkAlertAsRead flips the read flag of one alert. No other field changes.
func (r *Registry) MarkAlertAsRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.GetAlerts()
	updated := make([]entities.Alert, len(current))
	found := false
	for i, a := range current {
		if a.ID == id {
			a.Read = true
			found = true
		}
		updated[i] = a
	}
	if !found {
		return ErrNotFound
	}

	r.alertList.Store(updated)
	r.save(ctx, storage.KeyAlerts, updated)
	return nil
}

// User mutations

// AddUser stores a new household member. ID is assigned when unset.
func (r *Registry) AddUser(ctx context.Context, u entities.User) (entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	current := r.GetUsers()
	updated := make([]entities.User, 0, len(current)+1)
	updated = append(updated, current...)
	updated = append(updated, u)

	r.users.Store(updated)
	r.save(ctx, storage.KeyUsers, updated)
	return u, nil
}

// UpdateUser replaces the stored record with the same id.
func (r *Registry) UpdateUser(ctx context.Context, u entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.GetUsers()
	updated := make([]entities.User, len(current))
	found := false
	for i, existing := range current {
		if existing.ID == u.ID {
			updated[i] = u
			found = true
		} else {
			updated[i] = existing
		}
	}
	if !found {
		return ErrNotFound
	}

	r.users.Store(updated)
	r.save(ctx, storage.KeyUsers, updated)
	return nil
}

// DeleteUser removes a household member. Deleting the last remaining user is
// a silent no-op; deleting the active user promotes the first remaining one.
func (r *Registry) DeleteUser(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.GetUsers()
	if len(current) <= 1 {
		logging.Warn("Refusing to delete the last user", "user_id", id)
		return nil
	}

	updated := make([]entities.User, 0, len(current))
	found := false
	for _, u := range current {
		if u.ID == id {
			found = true
			continue
		}
		updated = append(updated, u)
	}
	if !found {
		return ErrNotFound
	}

	activeID, _ := r.activeUserID.Load().(string)
	if activeID == id {
		return r.activateLocked(ctx, updated, updated[0].ID)
	}

	r.users.Store(updated)
	r.save(ctx, storage.KeyUsers, updated)
	return nil
}

// SetActiveUser switches the active household member, maintaining the
// IsActive flag on every user record.
func (r *Registry) SetActiveUser(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.GetUsers()
	if !userExists(users, id) {
		return ErrNotFound
	}
	return r.activateLocked(ctx, users, id)
}

// activateLocked sets the active user over the given collection and persists
// users plus the active id as one batch. Caller must hold mu.
func (r *Registry) activateLocked(ctx context.Context, users []entities.User, id string) error {
	updated := make([]entities.User, len(users))
	for i, u := range users {
		u.IsActive = u.ID == id
		updated[i] = u
	}

	r.users.Store(updated)
	r.activeUserID.Store(id)

	usersRaw, err := json.Marshal(updated)
	if err != nil {
		logging.Error("Failed to marshal users", "error", err)
		return nil
	}
	batch := map[string][]byte{
		storage.KeyUsers:        usersRaw,
		storage.KeyActiveUserID: []byte(id),
	}
	if err := r.store.SetMulti(ctx, batch); err != nil {
		logging.Error("Failed to save users", "error", err)
		metrics.PersistenceFailures.WithLabelValues("save").Inc()
	}
	return nil
}

func userExists(users []entities.User, id string) bool {
	if id == "" {
		return false
	}
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}
