// Package storage provides the key-value persistence layer for medikeep.
// Collections are stored as JSON blobs under fixed keys; implementations
// exist for badger (on-device file storage), redis (shared household
// deployments) and an in-memory store used by tests.
package storage

import "context"

// Well-known persistence keys.
const (
	KeyMedicines    = "medicines"
	KeyAlerts       = "alerts"
	KeyProcessedIDs = "processedAlertIds"
	KeyUsers        = "users"
	KeyActiveUserID = "activeUserId"
)

// Store is the persistence collaborator consumed by the data registry.
// Get returns (nil, nil) for an absent key. SetMulti writes all pairs as a
// single atomic batch where the backend supports it, so the alert list and
// the processed-fingerprint set cannot be persisted half-updated.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMulti(ctx context.Context, values map[string][]byte) error
	Close() error
}
