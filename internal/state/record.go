package state

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/llehouerou/nano/internal/session"
)

// Record is the durable subset of the session: the current song and the
// position it was at, written together as one JSON document.
type Record struct {
	Song        session.Song `json:"song"`
	CurrentTime float64      `json:"currentTime"`
}

var (
	errRecordSong = errors.New("session record: incomplete song")
	errRecordTime = errors.New("session record: invalid time")
)

func encodeRecord(r Record) (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeRecord parses and validates a stored record. The slot is an
// untyped text blob, so everything a later read depends on is checked
// here; any shape problem makes the record count as absent.
func decodeRecord(raw string) (*Record, error) {
	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, err
	}
	if r.Song.ID == "" || r.Song.Name == "" || r.Song.FilePath == "" {
		return nil, errRecordSong
	}
	if r.CurrentTime < 0 || math.IsNaN(r.CurrentTime) || math.IsInf(r.CurrentTime, 0) {
		return nil, errRecordTime
	}
	return &r, nil
}
