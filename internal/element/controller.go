package element

import (
	"context"
	"sync"
	"time"

	"github.com/llehouerou/nano/internal/errmsg"
	"github.com/llehouerou/nano/internal/session"
)

const signTimeout = 30 * time.Second

// URLSigner resolves a song's file path to a playable URL.
type URLSigner interface {
	SignedURL(ctx context.Context, bucket, object string, ttl time.Duration) (string, error)
}

// Controller reconciles the playback session with the media element.
// Session intent flows down (load this song, play, pause); element
// reality flows up (playing, paused, ended, position, volume). It also
// applies the one-shot restored position once the element reports the
// resource's metadata, and re-applies the saved volume on every song
// change.
type Controller struct {
	sess   *session.Session
	el     Element
	signer URLSigner
	bucket string

	sub   *session.Subscription
	errCh chan string
	loads chan loadResult

	mu          sync.Mutex
	loadedID    string // song the element currently holds a resource for
	savedVolume float64
}

// loadResult is a resolved playable URL, tagged with the song it was
// requested for.
type loadResult struct {
	songID string
	url    string
}

// NewController wires a session to an element. Start must be called
// after the session has been hydrated.
func NewController(sess *session.Session, el Element, signer URLSigner, bucket string) *Controller {
	return &Controller{
		sess:        sess,
		el:          el,
		signer:      signer,
		bucket:      bucket,
		errCh:       make(chan string, 8),
		loads:       make(chan loadResult, 4),
		savedVolume: 1,
	}
}

// Errors receives human-readable failures (URL signing, playback start).
// Sends are non-blocking; unread messages are dropped.
func (c *Controller) Errors() <-chan string {
	return c.errCh
}

// Start begins reconciling. A song already current at this point (a
// hydrated session) is loaded immediately, paused.
func (c *Controller) Start() {
	c.sub = c.sess.Subscribe()
	go c.run()

	if song := c.sess.CurrentSong(); song != nil {
		c.fetch(*song)
	}
}

// Stop detaches from the session.
func (c *Controller) Stop() {
	c.sess.Unsubscribe(c.sub)
}

func (c *Controller) run() {
	events := c.el.Events()
	for {
		select {
		case e := <-c.sub.SongChanged:
			if e.Current == nil {
				c.el.Pause()
				c.setLoadedID("")
				continue
			}
			c.fetch(*e.Current)

		case st := <-c.sub.StateChanged:
			if st.Playing {
				if err := c.el.Play(); err != nil {
					// The element could not start (no device, resource
					// not ready). Intent stands; reality caught up via
					// the element's own events if it recovers.
					c.report(errmsg.Format(errmsg.OpPlaybackStart, err))
				}
			} else {
				c.el.Pause()
			}

		case res := <-c.loads:
			c.apply(res.songID, res.url)

		case ev := <-events:
			c.handleElementEvent(ev)

		case <-c.sub.Done:
			return
		}
	}
}

func (c *Controller) handleElementEvent(ev Event) {
	switch ev.Kind {
	case KindPlay:
		c.sess.SetPlaying(true)
	case KindPause:
		c.sess.SetPlaying(false)
	case KindEnded:
		c.sess.PlayNext()
	case KindTimeUpdate:
		c.sess.SetCurrentTime(ev.Seconds)
	case KindVolumeChange:
		c.mu.Lock()
		c.savedVolume = ev.Level
		c.mu.Unlock()
	case KindMetadata:
		c.onMetadataReady()
	case KindError:
		// The element formats its own failures; forward as-is.
		c.report(ev.Err.Error())
	}
}

// fetch resolves a playable URL for the song on its own goroutine and
// hands the result to the run loop. The identity check there is the
// only cancellation mechanism: a result for a superseded song is
// silently dropped.
func (c *Controller) fetch(song session.Song) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), signTimeout)
		defer cancel()

		url, err := c.signer.SignedURL(ctx, c.bucket, song.FilePath, 0)
		if err != nil {
			c.report(errmsg.FormatWith(errmsg.OpSignURL, song.Name, err))
			return
		}

		select {
		case c.loads <- loadResult{songID: song.ID, url: url}:
		case <-c.sub.Done:
		}
	}()
}

// apply runs on the run loop only, so the identity check and the load
// cannot interleave with a later selection's load.
func (c *Controller) apply(songID, url string) {
	cur := c.sess.CurrentSong()
	if cur == nil || cur.ID != songID {
		// Stale result: the user moved on while the fetch was in flight.
		return
	}

	c.setLoadedID(songID)
	c.el.Load(url)

	// The resource may have become ready before the run loop sees a
	// metadata event (or without one, when Load is synchronous), so
	// check eagerly instead of only waiting for the notification.
	if c.el.ReadyState() >= ReadyMetadata {
		c.onMetadataReady()
	}

	if c.sess.IsPlaying() {
		if err := c.el.Play(); err != nil {
			c.report(errmsg.Format(errmsg.OpPlaybackStart, err))
		}
	}
}

// onMetadataReady restores the saved volume and, when a hydrated
// position is still pending for the loaded song, applies it exactly
// once.
func (c *Controller) onMetadataReady() {
	c.mu.Lock()
	loaded := c.loadedID
	volume := c.savedVolume
	c.mu.Unlock()

	c.el.SetVolume(volume)

	seconds, ok := c.sess.RestoredTime()
	if !ok {
		return
	}
	cur := c.sess.CurrentSong()
	if cur == nil || cur.ID != loaded {
		// The pending position belongs to a different song than the
		// loaded resource; never seek across songs.
		return
	}

	c.el.Seek(seconds)
	c.sess.ClearRestoredTime()
}

func (c *Controller) setLoadedID(id string) {
	c.mu.Lock()
	c.loadedID = id
	c.mu.Unlock()
}

func (c *Controller) report(msg string) {
	select {
	case c.errCh <- msg:
	default:
	}
}
