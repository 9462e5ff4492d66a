// Package player implements the media element over beep and the
// system speaker. Resources are signed URLs: Load downloads the file
// to a temporary path, decodes it and attaches it to the speaker,
// reporting readiness through the element event stream.
package player

import (
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/nano/internal/element"
	"github.com/llehouerou/nano/internal/errmsg"
)

const (
	eventBuffer    = 64
	tickInterval   = 250 * time.Millisecond
	speakerBufSize = time.Second / 10
)

// The speaker can only be initialized once per process; later tracks
// with a different sample rate are resampled to match.
var (
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// Player plays remote audio through the speaker. It implements
// element.Element: Load is asynchronous, readiness and failures arrive
// on Events, Play and Pause are idempotent.
type Player struct {
	httpClient *http.Client
	events     chan element.Event

	mu       sync.Mutex
	gen      int // bumped on every Load/Close; stale work checks it
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	file     *os.File
	tmpPath  string
	playing  bool
	ready    element.ReadyState
	duration float64
	level    float64
}

func New() *Player {
	return &Player{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		events:     make(chan element.Event, eventBuffer),
		level:      1,
	}
}

// Load replaces the current resource. The download and decode run in
// the background; KindMetadata is emitted once the new resource is
// playable, KindError if it is not.
func (p *Player) Load(url string) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.stopLocked()
	p.mu.Unlock()

	go func() {
		path, err := p.download(url)
		if err != nil {
			p.emitError(gen, err)
			return
		}
		if err := p.attach(gen, path); err != nil {
			os.Remove(path)
			p.emitError(gen, err)
		}
	}()
}

// attach decodes the downloaded file and hands it to the speaker,
// paused. Discards the result if a newer Load has superseded gen.
func (p *Player) attach(gen int, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	streamer, format, err := decode(f, path)
	if err != nil {
		f.Close()
		return err
	}

	if !speakerInitialized {
		speakerSampleRate = format.SampleRate
		if err := speaker.Init(speakerSampleRate, speakerSampleRate.N(speakerBufSize)); err != nil {
			streamer.Close()
			f.Close()
			return err
		}
		speakerInitialized = true
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		streamer.Close()
		f.Close()
		os.Remove(path)
		return nil
	}

	var play beep.Streamer = streamer
	if format.SampleRate != speakerSampleRate {
		play = beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	}

	p.streamer = streamer
	p.format = format
	p.file = f
	p.tmpPath = path
	p.ctrl = &beep.Ctrl{Streamer: play, Paused: true}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   levelToVolume(p.level),
		Silent:   p.level <= 0,
	}
	p.duration = format.SampleRate.D(streamer.Len()).Seconds()
	p.ready = element.ReadyMetadata

	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		p.onEnded(gen)
	})))
	go p.tick(gen)

	p.emit(element.Event{Kind: element.KindMetadata})
	return nil
}

func (p *Player) onEnded(gen int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return
	}
	p.playing = false
	p.emit(element.Event{Kind: element.KindEnded})
}

// tick reports the playing position a few times a second, the way a
// media element fires timeupdate.
func (p *Player) tick(gen int) {
	t := time.NewTicker(tickInterval)
	defer t.Stop()
	for range t.C {
		p.mu.Lock()
		if gen != p.gen {
			p.mu.Unlock()
			return
		}
		if p.playing && p.streamer != nil {
			pos := p.format.SampleRate.D(p.streamer.Position()).Seconds()
			p.emit(element.Event{Kind: element.KindTimeUpdate, Seconds: pos})
		}
		p.mu.Unlock()
	}
}

func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return errors.New("no resource loaded")
	}
	if p.playing {
		return nil
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.playing = true
	p.emit(element.Event{Kind: element.KindPlay})
	return nil
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.playing = false
	p.emit(element.Event{Kind: element.KindPause})
}

func (p *Player) Seek(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return
	}
	n := p.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	if n < 0 {
		n = 0
	}
	if l := p.streamer.Len(); n > l {
		n = l
	}
	speaker.Lock()
	err := p.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		p.emit(element.Event{
			Kind: element.KindError,
			Err:  errors.New(errmsg.Format(errmsg.OpPlaybackSeek, err)),
		})
	}
}

func (p *Player) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	// Read without the speaker lock; may be a buffer's worth stale but
	// cannot deadlock against the playback goroutine.
	return p.format.SampleRate.D(p.streamer.Position()).Seconds()
}

func (p *Player) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// SetVolume applies the level and emits KindVolumeChange, the way a
// media element fires volumechange for programmatic changes too.
func (p *Player) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	if p.volume != nil {
		speaker.Lock()
		p.volume.Volume = levelToVolume(level)
		p.volume.Silent = level <= 0
		speaker.Unlock()
	}
	p.emit(element.Event{Kind: element.KindVolumeChange, Level: level})
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *Player) ReadyState() element.ReadyState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

func (p *Player) Events() <-chan element.Event {
	return p.events
}

// Close stops playback and removes the downloaded file.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.stopLocked()
	return nil
}

// stopLocked releases the current resource. Caller holds p.mu.
func (p *Player) stopLocked() {
	if p.streamer == nil {
		return
	}
	speaker.Clear()
	p.streamer.Close()
	p.streamer = nil
	if p.file != nil {
		p.file.Close()
		p.file = nil
	}
	if p.tmpPath != "" {
		os.Remove(p.tmpPath)
		p.tmpPath = ""
	}
	p.ctrl = nil
	p.volume = nil
	p.playing = false
	p.ready = element.ReadyNone
	p.duration = 0
}

// emit sends an event without blocking; a full buffer drops it.
func (p *Player) emit(e element.Event) {
	select {
	case p.events <- e:
	default:
	}
}

func (p *Player) emitError(gen int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return
	}
	p.emit(element.Event{
		Kind: element.KindError,
		Err:  errors.New(errmsg.Format(errmsg.OpPlaybackLoad, err)),
	})
}

// Verify Player implements Element at compile time.
var _ element.Element = (*Player)(nil)
