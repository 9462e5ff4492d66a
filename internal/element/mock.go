// internal/element/mock.go
package element

import "sync"

// Mock is a test double for Element.
type Mock struct {
	mu        sync.Mutex
	playing   bool
	position  float64
	duration  float64
	volume    float64
	ready     ReadyState
	instant   bool
	loadCalls []string
	seekCalls []float64
	playErr   error
	events    chan Event
}

// NewMock creates a new mock element for testing.
func NewMock() *Mock {
	return &Mock{
		volume: 1,
		events: make(chan Event, 64),
	}
}

func (m *Mock) Load(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, url)
	m.position = 0
	m.playing = false
	m.ready = ReadyNone
	if m.instant {
		m.ready = ReadyMetadata
	}
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playErr != nil {
		return m.playErr
	}
	if !m.playing {
		m.playing = true
		m.emit(Event{Kind: KindPlay})
	}
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playing {
		m.playing = false
		m.emit(Event{Kind: KindPause})
	}
}

func (m *Mock) Seek(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, seconds)
	m.position = seconds
}

func (m *Mock) Position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
	m.emit(Event{Kind: KindVolumeChange, Level: level})
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) ReadyState() ReadyState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

func (m *Mock) Events() <-chan Event {
	return m.events
}

func (m *Mock) Close() error { return nil }

// emit sends an event (non-blocking). Caller holds mu.
func (m *Mock) emit(e Event) {
	select {
	case m.events <- e:
	default:
	}
}

// Test helpers

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loadCalls...)
}

func (m *Mock) SeekCalls() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.seekCalls...)
}

// SetReady makes loads complete synchronously: after Load the element
// reports metadata as already known without ever emitting the event.
// Exercises the eager readiness check.
func (m *Mock) SetReady(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instant = true
	m.ready = ReadyMetadata
	m.duration = duration
}

// SimulateMetadataReady marks metadata known and emits the event.
func (m *Mock) SimulateMetadataReady(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = ReadyMetadata
	m.duration = duration
	m.emit(Event{Kind: KindMetadata})
}

// SimulateTimeUpdate emits a timeupdate at the given position.
func (m *Mock) SimulateTimeUpdate(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = seconds
	m.emit(Event{Kind: KindTimeUpdate, Seconds: seconds})
}

// SimulateError emits a playback failure.
func (m *Mock) SimulateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emit(Event{Kind: KindError, Err: err})
}

// SimulateEnded stops playback and emits the ended event.
func (m *Mock) SimulateEnded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	m.emit(Event{Kind: KindEnded})
}

// SimulateVolumeChange emits a user-driven volume change.
func (m *Mock) SimulateVolumeChange(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
	m.emit(Event{Kind: KindVolumeChange, Level: level})
}

// Verify Mock implements Element at compile time.
var _ Element = (*Mock)(nil)
