// Package tags reads metadata from audio files before upload: the
// title and artist for the catalog row and the duration for the player
// bar, plus cover art when the file or its folder carries any.
package tags

import "time"

// File extensions supported for upload.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOGG  = ".ogg"
	ExtWAV  = ".wav"
)

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
)

// Info is the metadata of one audio file.
type Info struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}
