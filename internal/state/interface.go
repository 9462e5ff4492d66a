// internal/state/interface.go
package state

// Slot is the durable key-value surface the adapter writes through. It
// is process-local and synchronous; concurrent processes sharing a slot
// race last-write-wins, which is accepted.
type Slot interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Verify implementations at compile time.
var (
	_ Slot = (*Manager)(nil)
	_ Slot = (*MemorySlot)(nil)
)
