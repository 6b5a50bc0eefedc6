package state

// Store is the key/value surface every engine persists through. The daemon
// plugs in the sqlite-backed implementation from the storage package, tests
// use MemoryStore.
type Store interface {
	Set(key, value string)
	Get(key string) *string
	Delete(key string)
}

// MemoryStore keeps all state in a plain map. Not safe for concurrent use on
// its own; the platform serializes every call behind one mutex anyway.
type MemoryStore struct {
	db map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{db: make(map[string]string)}
}

func (m *MemoryStore) Set(key, value string) {
	m.db[key] = value
}

func (m *MemoryStore) Get(key string) *string {
	val, ok := m.db[key]
	if !ok {
		return nil
	}
	return &val
}

func (m *MemoryStore) Delete(key string) {
	delete(m.db, key)
}

// Len reports the number of live keys, handy for cleanup assertions.
func (m *MemoryStore) Len() int {
	return len(m.db)
}
