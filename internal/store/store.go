// Package store defines the raw cache store boundary: the untransformed
// resource representation keyed by resource type and id. The resolver
// treats a Store as its sole source of cache data.
package store

import "context"

// Store is the raw cache collaborator. Implementations hold plain
// untransformed field values; all transform and resolution logic lives
// above this boundary.
type Store interface {
	// GetRaw returns the raw record for a resource, or ErrRecordMiss.
	GetRaw(ctx context.Context, resourceType, id string) (map[string]any, error)

	// SetRaw stores one raw field value on a record, creating the record
	// if absent.
	SetRaw(ctx context.Context, resourceType, id, fieldName string, value any) error

	// DeleteRaw removes a record entirely.
	DeleteRaw(ctx context.Context, resourceType, id string) error
}

// ErrRecordMiss is returned when a record is not present in the store.
type ErrRecordMiss struct {
	Type string
	ID   string
}

func (e ErrRecordMiss) Error() string {
	return "record miss: " + e.Type + "/" + e.ID
}

// IsRecordMiss checks if an error is a record miss.
func IsRecordMiss(err error) bool {
	_, ok := err.(ErrRecordMiss)
	return ok
}
