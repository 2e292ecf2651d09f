package store

import (
	"context"
	"sync"
)

// MemoryStore implements an in-memory raw cache store. It is the default
// backend for tests and single-process use. Raw records are shared by
// reference: the resolver relies on raw object identity for the
// @identity key strategy, so GetRaw does not copy.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]map[string]any
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]map[string]any)}
}

func recordKey(resourceType, id string) string {
	return resourceType + "/" + id
}

// GetRaw retrieves the raw record for a resource.
func (m *MemoryStore) GetRaw(ctx context.Context, resourceType, id string) (map[string]any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[recordKey(resourceType, id)]
	if !ok {
		return nil, ErrRecordMiss{Type: resourceType, ID: id}
	}
	return record, nil
}

// SetRaw stores one raw field value, creating the record if absent.
func (m *MemoryStore) SetRaw(ctx context.Context, resourceType, id, fieldName string, value any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := recordKey(resourceType, id)
	record, ok := m.records[key]
	if !ok {
		record = make(map[string]any)
		m.records[key] = record
	}
	record[fieldName] = value
	return nil
}

// PutRaw replaces a whole raw record. Used when ingesting a full payload
// from the fetch layer.
func (m *MemoryStore) PutRaw(ctx context.Context, resourceType, id string, record map[string]any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[recordKey(resourceType, id)] = record
	return nil
}

// DeleteRaw removes a record.
func (m *MemoryStore) DeleteRaw(ctx context.Context, resourceType, id string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, recordKey(resourceType, id))
	return nil
}

// Count returns the number of stored records.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records)
}
