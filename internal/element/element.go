// Package element defines the media element boundary: an external audio
// playback primitive with play/pause, a readable position, a volume and
// event notifications. The controller in this package reconciles the
// playback session against it; decoding and transport live behind the
// interface.
package element

// ReadyState describes how much of the current resource is available.
type ReadyState int

const (
	// ReadyNone means no metadata is available yet.
	ReadyNone ReadyState = iota
	// ReadyMetadata means duration is known and seeking is possible.
	ReadyMetadata
)

// Kind identifies an element event.
type Kind int

const (
	KindPlay Kind = iota
	KindPause
	KindEnded
	KindTimeUpdate
	KindVolumeChange
	KindMetadata
	KindError
)

// String returns the event kind name.
func (k Kind) String() string {
	switch k {
	case KindPlay:
		return "play"
	case KindPause:
		return "pause"
	case KindEnded:
		return "ended"
	case KindTimeUpdate:
		return "timeupdate"
	case KindVolumeChange:
		return "volumechange"
	case KindMetadata:
		return "metadata"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a notification from the element.
type Event struct {
	Kind    Kind
	Seconds float64 // KindTimeUpdate
	Level   float64 // KindVolumeChange
	Err     error   // KindError; message is user-presentable
}

// Element is the playback primitive contract. Implementations must be
// safe for concurrent use and idempotent on Play/Pause: calling Play
// while already playing emits no event, which keeps the session/element
// feedback loop from echoing.
type Element interface {
	// Load begins loading a new resource, replacing the current one.
	// Position resets to zero and readiness drops until metadata for
	// the new resource is known.
	Load(url string)
	Play() error
	Pause()
	// Seek moves the position within the current resource, in seconds.
	Seek(seconds float64)
	Position() float64
	Duration() float64
	// SetVolume applies the level and emits KindVolumeChange, matching
	// media element semantics for programmatic changes.
	SetVolume(level float64)
	Volume() float64
	ReadyState() ReadyState
	Events() <-chan Event
	Close() error
}
