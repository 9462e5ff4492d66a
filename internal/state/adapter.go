package state

import (
	"sync"
	"time"

	"github.com/llehouerou/nano/internal/errmsg"
	"github.com/llehouerou/nano/internal/session"
)

// saveDebounce coalesces position updates, which arrive at media element
// timeupdate frequency. Song changes flush immediately.
const saveDebounce = 500 * time.Millisecond

// Adapter keeps the durable slot in step with the session and hydrates
// the session once at startup. Slot failures never reach the mutation
// caller and never roll back in-memory state; they are reported on the
// Errors channel for the UI to display.
type Adapter struct {
	slot  Slot
	errCh chan string

	saveMu    sync.Mutex
	saveTimer *time.Timer
}

func NewAdapter(slot Slot) *Adapter {
	return &Adapter{
		slot:  slot,
		errCh: make(chan string, 8),
	}
}

// Errors receives human-readable persistence failures. Sends are
// non-blocking; unread messages are dropped.
func (a *Adapter) Errors() <-chan string {
	return a.errCh
}

// Hydrate performs the one-shot restoration at startup, before the
// session is exposed to the UI. An absent slot leaves the session at its
// empty default; an unparseable one additionally gets deleted so the
// next start does not trip over it again.
func (a *Adapter) Hydrate(s *session.Session) {
	raw, ok, err := a.slot.Get(SessionKey)
	if err != nil {
		a.report(errmsg.Format(errmsg.OpSessionLoad, err))
		return
	}
	if !ok {
		return
	}

	rec, err := decodeRecord(raw)
	if err != nil {
		a.report(errmsg.Format(errmsg.OpSessionLoad, err))
		if delErr := a.slot.Delete(SessionKey); delErr != nil {
			a.report(errmsg.Format(errmsg.OpSessionClear, delErr))
		}
		return
	}

	s.Restore(rec.Song, rec.CurrentTime)
}

// Mirror subscribes to the session and keeps the durable record current:
// immediately on song changes, debounced on position ticks. The returned
// stop function flushes any pending write and detaches.
func (a *Adapter) Mirror(s *session.Session) func() {
	sub := s.Subscribe()

	go func() {
		for {
			select {
			case <-sub.SongChanged:
				a.Sync(s)
			case <-sub.TimeChanged:
				a.scheduleSync(s)
			case <-sub.Done:
				return
			}
		}
	}()

	return func() {
		s.Unsubscribe(sub)
		a.Sync(s)
	}
}

// Sync writes the session's durable subset now: the record when a song
// is current, a deletion when none is. Safe to call at any time; the
// snapshot is taken under the session lock so song and time always
// belong together.
func (a *Adapter) Sync(s *session.Session) {
	a.saveMu.Lock()
	if a.saveTimer != nil {
		a.saveTimer.Stop()
		a.saveTimer = nil
	}
	a.saveMu.Unlock()

	a.write(s)
}

func (a *Adapter) scheduleSync(s *session.Session) {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	if a.saveTimer != nil {
		a.saveTimer.Stop()
	}
	a.saveTimer = time.AfterFunc(saveDebounce, func() {
		a.write(s)
	})
}

func (a *Adapter) write(s *session.Session) {
	song, seconds := s.Snapshot()

	if song == nil {
		if err := a.slot.Delete(SessionKey); err != nil {
			a.report(errmsg.Format(errmsg.OpSessionClear, err))
		}
		return
	}

	raw, err := encodeRecord(Record{Song: *song, CurrentTime: seconds})
	if err != nil {
		a.report(errmsg.Format(errmsg.OpSessionSave, err))
		return
	}
	if err := a.slot.Set(SessionKey, raw); err != nil {
		a.report(errmsg.Format(errmsg.OpSessionSave, err))
	}
}

func (a *Adapter) report(msg string) {
	select {
	case a.errCh <- msg:
	default:
	}
}
