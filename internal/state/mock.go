// internal/state/mock.go
package state

import "sync"

// MemorySlot is an in-memory Slot for testing.
type MemorySlot struct {
	mu     sync.Mutex
	values map[string]string

	getErr    error
	setErr    error
	deleteErr error
}

// NewMemorySlot creates an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: map[string]string{}}
}

func (m *MemorySlot) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemorySlot) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *MemorySlot) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.values, key)
	return nil
}

// Test helpers

func (m *MemorySlot) SetGetError(err error)    { m.getErr = err }
func (m *MemorySlot) SetSetError(err error)    { m.setErr = err }
func (m *MemorySlot) SetDeleteError(err error) { m.deleteErr = err }

// Value returns the stored value for key, if present.
func (m *MemorySlot) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}
