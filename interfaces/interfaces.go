// Package interfaces defines core abstractions for the medikeep API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"time"

	"github.com/medikeep/medikeep-api/entities"
)

// EvaluationReport summarizes one alert evaluation run.
type EvaluationReport struct {
	Ran           bool // false when the run was dropped by the re-entrancy guard
	NewAlerts     int
	AlertsByType  map[entities.AlertType]int
	ProcessedSize int
}

// DataStore defines the contract for the application state registry. It
// provides snapshot reads of every collection and serialized mutations;
// each mutating medicine operation triggers alert evaluation through the
// OnMedicinesChanged hook.
type DataStore interface {
	// Snapshot reads
	GetMedicines() []entities.Medicine
	GetMedicine(id string) (entities.Medicine, bool)
	GetAlerts() []entities.Alert
	GetAlertsByType(kind entities.AlertType) []entities.Alert
	GetUsers() []entities.User
	GetActiveUser() (entities.User, bool)
	GetLastEvaluated() time.Time
	IsEvaluating() bool

	// Medicine mutations
	AddMedicine(ctx context.Context, m entities.Medicine) (entities.Medicine, error)
	UpdateMedicine(ctx context.Context, m entities.Medicine) error
	DeleteMedicine(ctx context.Context, id string) error

	// Alert mutations
	MarkAlertAsRead(ctx context.Context, id string) error

	// User mutations
	AddUser(ctx context.Context, u entities.User) (entities.User, error)
	UpdateUser(ctx context.Context, u entities.User) error
	DeleteUser(ctx context.Context, id string) error
	SetActiveUser(ctx context.Context, id string) error

	// OnMedicinesChanged re-runs alert evaluation over the full collection.
	// Callers invoke it after any mutation; concurrent invocations are
	// dropped, not queued.
	OnMedicinesChanged(ctx context.Context) EvaluationReport
}

// Scheduler defines the contract for background housekeeping.
// It manages fingerprint compaction and staleness monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	HealthCheck() (status string, details map[string]any, err error)
}

// Validator defines the contract for input validation of incoming entities.
type Validator interface {
	ValidateMedicine(m *entities.Medicine) error
	ValidateUser(u *entities.User) error
	ValidateInput(input string) error
	ValidateTimeOfDay(value string) error
}
