// Package upload pushes local audio files into the library: one
// catalog row plus one storage object per file, with best-effort cover
// art on the side.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/nano/internal/catalog"
	"github.com/llehouerou/nano/internal/errmsg"
	"github.com/llehouerou/nano/internal/tags"
)

// Catalog is the subset of the catalog client the uploader needs.
type Catalog interface {
	Insert(ctx context.Context, file catalog.AudioFile) (*catalog.AudioFile, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}

// Storage is the subset of the storage client the uploader needs.
type Storage interface {
	Upload(ctx context.Context, bucket, object, contentType string, body io.Reader, upsert bool) error
	PublicURL(bucket, object string) string
}

// Result is the outcome of uploading one file.
type Result struct {
	Path  string
	Title string
	ID    string
	Size  int64
	Err   error
}

// String renders a one-line summary for the CLI.
func (r Result) String() string {
	name := filepath.Base(r.Path)
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", name, r.Err)
	}
	return fmt.Sprintf("%s: uploaded %q (%s)", name, r.Title, humanize.Bytes(uint64(r.Size)))
}

// Uploader runs the per-file upload pipeline: read tags, insert the
// catalog row, upload the audio object under the row's id, then stamp
// the row with the object path. Cover art rides along when found but
// never fails the upload.
type Uploader struct {
	catalog     Catalog
	storage     Storage
	audioBucket string
	coverBucket string
	userID      string

	readInfo     func(path string) (*tags.Info, error)
	extractCover func(path string) ([]byte, string, error)
}

func New(cat Catalog, store Storage, audioBucket, coverBucket, userID string) *Uploader {
	return &Uploader{
		catalog:      cat,
		storage:      store,
		audioBucket:  audioBucket,
		coverBucket:  coverBucket,
		userID:       userID,
		readInfo:     tags.Read,
		extractCover: tags.ExtractCoverArt,
	}
}

// UploadAll uploads each file in turn. A failing file does not stop
// the rest; per-file errors land in the results.
func (u *Uploader) UploadAll(ctx context.Context, paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		results = append(results, u.uploadOne(ctx, path))
	}
	return results
}

func (u *Uploader) uploadOne(ctx context.Context, path string) Result {
	res := Result{Path: path}

	info, err := u.readInfo(path)
	if err != nil {
		res.Err = errors.New(errmsg.Format(errmsg.OpReadTags, err))
		return res
	}
	res.Title = info.Title

	row, err := u.catalog.Insert(ctx, catalog.AudioFile{
		Title:    info.Title,
		Duration: info.Duration.Seconds(),
		UserID:   u.userID,
	})
	if err != nil {
		res.Err = errors.New(errmsg.Format(errmsg.OpSongInsert, err))
		return res
	}
	res.ID = row.ID

	ext := strings.ToLower(filepath.Ext(path))
	object := u.userID + "/" + row.ID + ext

	f, err := os.Open(path)
	if err != nil {
		res.Err = err
		return res
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil {
		res.Size = fi.Size()
	}

	if err := u.storage.Upload(ctx, u.audioBucket, object, contentTypeFor(ext), f, false); err != nil {
		res.Err = errors.New(errmsg.Format(errmsg.OpUpload, err))
		return res
	}

	if err := u.catalog.Update(ctx, row.ID, map[string]any{"file_path": object}); err != nil {
		res.Err = errors.New(errmsg.Format(errmsg.OpSongUpdate, err))
		return res
	}

	u.uploadCoverArt(ctx, path, row.ID)
	return res
}

// uploadCoverArt is best-effort: a song without art, or art that fails
// to upload, is still a successful upload.
func (u *Uploader) uploadCoverArt(ctx context.Context, path, rowID string) {
	data, mimeType, err := u.extractCover(path)
	if err != nil || data == nil {
		return
	}

	object := u.userID + "/" + rowID + imageExt(mimeType)
	if err := u.storage.Upload(ctx, u.coverBucket, object, mimeType, bytes.NewReader(data), true); err != nil {
		return
	}

	url := u.storage.PublicURL(u.coverBucket, object)
	_ = u.catalog.Update(ctx, rowID, map[string]any{"cover_art_url": url})
}

func contentTypeFor(ext string) string {
	switch ext {
	case tags.ExtMP3:
		return "audio/mpeg"
	case tags.ExtFLAC:
		return "audio/flac"
	case tags.ExtOGG:
		return "audio/ogg"
	case tags.ExtWAV:
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}

func imageExt(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}
