package snapshot

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps snapshots in process memory. Snapshots are stored
// encoded so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]*memoryRecord // session -> stack -> record
	order    int
	closed   bool
}

type memoryRecord struct {
	data     []byte
	parentID string
	depth    int
	revision int
	order    int
	savedAt  time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]map[string]*memoryRecord),
	}
}

var _ Store = (*MemoryStore)(nil)

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(snap); err != nil {
		return err
	}
	data, err := snap.Marshal()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}

	stacks := m.sessions[snap.SessionID]
	if stacks == nil {
		stacks = make(map[string]*memoryRecord)
		m.sessions[snap.SessionID] = stacks
	}

	rec, ok := stacks[snap.StackID]
	if !ok {
		m.order++
		rec = &memoryRecord{order: m.order}
		stacks[snap.StackID] = rec
	}
	rec.data = data
	rec.parentID = snap.ParentID
	rec.depth = snap.Depth()
	rec.revision++
	rec.savedAt = snap.Timestamp
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(ctx context.Context, sessionID, stackID string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}

	rec, ok := m.sessions[sessionID][stackID]
	if !ok {
		return nil, ErrNotFound
	}
	return Unmarshal(rec.data)
}

// List implements Store.
func (m *MemoryStore) List(ctx context.Context, sessionID string) ([]Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}

	stacks := m.sessions[sessionID]
	type ordered struct {
		info  Info
		order int
	}
	items := make([]ordered, 0, len(stacks))
	for stackID, rec := range stacks {
		items = append(items, ordered{
			info: Info{
				SessionID: sessionID,
				StackID:   stackID,
				ParentID:  rec.parentID,
				Revision:  rec.revision,
				Depth:     rec.depth,
				Timestamp: rec.savedAt,
				Size:      int64(len(rec.data)),
			},
			order: rec.order,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].order < items[j].order })

	infos := make([]Info, len(items))
	for i, it := range items {
		infos[i] = it.info
	}
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, sessionID, stackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}

	delete(m.sessions[sessionID], stackID)
	return nil
}

// DeleteSession implements Store.
func (m *MemoryStore) DeleteSession(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}

	delete(m.sessions, sessionID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.sessions = nil
	return nil
}

// Len returns the number of stored snapshots across all sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, stacks := range m.sessions {
		n += len(stacks)
	}
	return n
}
