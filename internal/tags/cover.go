package tags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Common cover art filenames to look for next to an audio file.
var coverArtFilenames = []string{
	"cover.jpg", "cover.jpeg", "cover.png",
	"folder.jpg", "folder.jpeg", "folder.png",
	"album.jpg", "album.jpeg", "album.png",
	"front.jpg", "front.jpeg", "front.png",
}

// ExtractCoverArt reads cover art for an audio file: embedded art
// first, then common image files in the same directory. Returns nil
// data when nothing is found.
func ExtractCoverArt(path string) (data []byte, mimeType string, err error) {
	data, mimeType, err = extractEmbeddedArt(path)
	if err != nil {
		return nil, "", err
	}
	if data != nil {
		return data, mimeType, nil
	}

	return findFolderArt(filepath.Dir(path))
}

func extractEmbeddedArt(path string) (data []byte, mimeType string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// No readable tags means no embedded art; the folder may
		// still have some.
		return nil, "", nil
	}

	pic := m.Picture()
	if pic == nil {
		return nil, "", nil
	}
	return pic.Data, pic.MIMEType, nil
}

func findFolderArt(dir string) (data []byte, mimeType string, err error) {
	for _, name := range coverArtFilenames {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}

		switch strings.ToLower(filepath.Ext(name)) {
		case ".jpg", ".jpeg":
			mimeType = mimeJPEG
		case ".png":
			mimeType = mimePNG
		default:
			mimeType = "application/octet-stream"
		}
		return data, mimeType, nil
	}

	return nil, "", nil
}
