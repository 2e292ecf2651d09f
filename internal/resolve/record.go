package resolve

import (
	"sync"

	"github.com/google/uuid"
)

// RecordKey identifies one logical record: a resource type plus its
// primary key. Client-created records that have no server id yet use a
// locally generated one.
type RecordKey struct {
	Type string
	ID   string
}

// String returns the canonical "type/id" form.
func (k RecordKey) String() string {
	return k.Type + "/" + k.ID
}

// NewClientKey mints a key for a record created on the client before an
// @id value has been assigned by the server.
func NewClientKey(resourceType string) RecordKey {
	return RecordKey{Type: resourceType, ID: "@local:" + uuid.NewString()}
}

// ChangeToken is the change-tracking handle returned with every resolved
// value. The external reactivity layer compares versions to decide
// whether consumers must re-run.
type ChangeToken struct {
	Record  RecordKey
	Field   string
	Version uint64
}

// Notifier receives invalidation signals for the external reactivity
// layer.
type Notifier func(rec RecordKey, fieldName string)

// recordState is the per-record instance state: memoized derived and
// transformed values, @local values, and per-field versions. It is owned
// by a single logical record.
type recordState struct {
	memo     map[string]any
	local    map[string]any
	versions map[string]uint64
}

func newRecordState() *recordState {
	return &recordState{
		memo:     make(map[string]any),
		local:    make(map[string]any),
		versions: make(map[string]uint64),
	}
}

// RecordTable tracks per-record state across all live records. The table
// lock only guards the map of states; each record's state is accessed
// from a single logical thread of control per the resolution model.
type RecordTable struct {
	mu     sync.Mutex
	states map[RecordKey]*recordState
	notify Notifier
}

// NewRecordTable creates an empty record table.
func NewRecordTable() *RecordTable {
	return &RecordTable{states: make(map[RecordKey]*recordState)}
}

// SetNotifier wires the host reactivity layer's invalidation callback.
func (t *RecordTable) SetNotifier(n Notifier) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notify = n
}

func (t *RecordTable) state(key RecordKey) *recordState {
	s, ok := t.states[key]
	if !ok {
		s = newRecordState()
		t.states[key] = s
	}
	return s
}

func (t *RecordTable) memoGet(key RecordKey, field string) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.states[key]
	if !ok {
		return nil, false
	}
	v, ok := s.memo[field]
	return v, ok
}

func (t *RecordTable) memoSet(key RecordKey, field string, value any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state(key).memo[field] = value
}

func (t *RecordTable) localGet(key RecordKey, field string) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.states[key]
	if !ok {
		return nil, false
	}
	v, ok := s.local[field]
	return v, ok
}

func (t *RecordTable) localSet(key RecordKey, field string, value any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state(key).local[field] = value
}

// Token returns the current change token for a field.
func (t *RecordTable) Token(key RecordKey, field string) ChangeToken {
	t.mu.Lock()
	defer t.mu.Unlock()

	var version uint64
	if s, ok := t.states[key]; ok {
		version = s.versions[field]
	}
	return ChangeToken{Record: key, Field: field, Version: version}
}

// Invalidate drops the memoized value for a field, bumps its version, and
// signals the reactivity layer. This is the explicit invalidation entry
// point: the host calls it when a dependency of a derived field changed,
// and the resolver calls it after writes.
func (t *RecordTable) Invalidate(key RecordKey, field string) {
	t.mu.Lock()
	s := t.state(key)
	delete(s.memo, field)
	s.versions[field]++
	notify := t.notify
	t.mu.Unlock()

	// Outside the lock: the notifier may resolve fields re-entrantly.
	if notify != nil {
		notify(key, field)
	}
}

// Destroy drops all instance state for a record. Subsequent @local reads
// start over from the field's default value.
func (t *RecordTable) Destroy(key RecordKey) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.states, key)
}
