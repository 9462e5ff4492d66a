package tags

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// Supported reports whether the file extension is an uploadable audio
// format.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3, ExtFLAC, ExtOGG, ExtWAV:
		return true
	}
	return false
}

// Read reads tag metadata and duration from an audio file. A missing
// or unreadable title falls back to the file name.
func Read(path string) (*Info, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("unsupported format: %s", filepath.Ext(path))
	}

	info := &Info{Path: path}

	if err := readTags(path, info); err != nil {
		return nil, err
	}
	if info.Title == "" {
		info.Title = filepath.Base(path)
	}

	props, err := taglib.ReadProperties(path)
	if err != nil {
		return nil, err
	}
	info.Duration = props.Length

	return info, nil
}

func readTags(path string, info *Info) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err == nil {
		info.Title = m.Title()
		info.Artist = m.Artist()
		info.Album = m.Album()
		return nil
	}

	// dhowden/tag has issues with some UTF-16 encoded ID3 tags and
	// some ffmpeg-created files; taglib handles those.
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return err
	}
	info.Title = first(raw[taglib.Title])
	info.Artist = first(raw[taglib.Artist])
	info.Album = first(raw[taglib.Album])
	return nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
