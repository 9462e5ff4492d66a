package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/llehouerou/nano/internal/catalog"
	"github.com/llehouerou/nano/internal/tags"
)

type insertedRow struct {
	file catalog.AudioFile
	id   string
}

type fakeCatalog struct {
	mu        sync.Mutex
	inserts   []insertedRow
	updates   map[string][]map[string]any
	insertErr error
	updateErr error
	nextID    int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{updates: map[string][]map[string]any{}}
}

func (f *fakeCatalog) Insert(_ context.Context, file catalog.AudioFile) (*catalog.AudioFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.nextID++
	id := fmt.Sprintf("row-%d", f.nextID)
	f.inserts = append(f.inserts, insertedRow{file: file, id: id})
	created := file
	created.ID = id
	return &created, nil
}

func (f *fakeCatalog) Update(_ context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates[id] = append(f.updates[id], fields)
	return nil
}

type uploadedObject struct {
	bucket      string
	object      string
	contentType string
	size        int
	upsert      bool
}

type fakeStorage struct {
	mu      sync.Mutex
	objects []uploadedObject
	err     error
	failOn  string // bucket name to fail uploads for
}

func (f *fakeStorage) Upload(_ context.Context, bucket, object, contentType string, body io.Reader, upsert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil && (f.failOn == "" || f.failOn == bucket) {
		return f.err
	}
	data, _ := io.ReadAll(body)
	f.objects = append(f.objects, uploadedObject{bucket, object, contentType, len(data), upsert})
	return nil
}

func (f *fakeStorage) PublicURL(bucket, object string) string {
	return "https://example.test/storage/v1/object/public/" + bucket + "/" + object
}

func writeTestFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("audio-bytes"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestUploader(cat *fakeCatalog, store *fakeStorage) *Uploader {
	u := New(cat, store, "audio-files", "cover-art", "user-1")
	u.readInfo = func(path string) (*tags.Info, error) {
		return &tags.Info{Path: path, Title: "Night Drive", Duration: 90 * time.Second}, nil
	}
	u.extractCover = func(string) ([]byte, string, error) {
		return nil, "", nil
	}
	return u
}

func TestUploadAll_Success(t *testing.T) {
	cat := newFakeCatalog()
	store := &fakeStorage{}
	u := newTestUploader(cat, store)
	path := writeTestFile(t, "track.mp3")

	results := u.UploadAll(context.Background(), []string{path})

	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	res := results[0]
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Title != "Night Drive" {
		t.Errorf("Title = %q, want %q", res.Title, "Night Drive")
	}

	if len(cat.inserts) != 1 {
		t.Fatalf("len(inserts) = %d, want 1", len(cat.inserts))
	}
	ins := cat.inserts[0].file
	if ins.Title != "Night Drive" || ins.Duration != 90 || ins.UserID != "user-1" {
		t.Errorf("inserted row = %+v", ins)
	}

	if len(store.objects) != 1 {
		t.Fatalf("len(objects) = %d, want 1", len(store.objects))
	}
	obj := store.objects[0]
	wantObject := "user-1/" + res.ID + ".mp3"
	if obj.bucket != "audio-files" || obj.object != wantObject {
		t.Errorf("uploaded to %s/%s, want audio-files/%s", obj.bucket, obj.object, wantObject)
	}
	if obj.contentType != "audio/mpeg" {
		t.Errorf("contentType = %q, want audio/mpeg", obj.contentType)
	}

	updates := cat.updates[res.ID]
	if len(updates) != 1 || updates[0]["file_path"] != wantObject {
		t.Errorf("updates = %v, want file_path %q", updates, wantObject)
	}
}

func TestUploadAll_CoverArtRecorded(t *testing.T) {
	cat := newFakeCatalog()
	store := &fakeStorage{}
	u := newTestUploader(cat, store)
	u.extractCover = func(string) ([]byte, string, error) {
		return []byte{0x89, 'P', 'N', 'G'}, "image/png", nil
	}
	path := writeTestFile(t, "track.flac")

	results := u.UploadAll(context.Background(), []string{path})
	res := results[0]
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	if len(store.objects) != 2 {
		t.Fatalf("len(objects) = %d, want audio + art", len(store.objects))
	}
	art := store.objects[1]
	if art.bucket != "cover-art" || art.object != "user-1/"+res.ID+".png" {
		t.Errorf("art uploaded to %s/%s", art.bucket, art.object)
	}
	if !art.upsert {
		t.Error("cover art upload should upsert")
	}

	updates := cat.updates[res.ID]
	if len(updates) != 2 {
		t.Fatalf("len(updates) = %d, want file_path then cover_art_url", len(updates))
	}
	url, _ := updates[1]["cover_art_url"].(string)
	if !strings.Contains(url, "cover-art/user-1/"+res.ID+".png") {
		t.Errorf("cover_art_url = %q", url)
	}
}

func TestUploadAll_CoverArtFailureIsNotFatal(t *testing.T) {
	cat := newFakeCatalog()
	store := &fakeStorage{err: errors.New("bucket missing"), failOn: "cover-art"}
	u := newTestUploader(cat, store)
	u.extractCover = func(string) ([]byte, string, error) {
		return []byte{0xFF, 0xD8}, "image/jpeg", nil
	}
	path := writeTestFile(t, "track.mp3")

	results := u.UploadAll(context.Background(), []string{path})
	if results[0].Err != nil {
		t.Fatalf("cover art failure must not fail the upload: %v", results[0].Err)
	}

	updates := cat.updates[results[0].ID]
	if len(updates) != 1 {
		t.Errorf("len(updates) = %d, want only file_path", len(updates))
	}
}

func TestUploadAll_TagErrorRecorded(t *testing.T) {
	cat := newFakeCatalog()
	store := &fakeStorage{}
	u := newTestUploader(cat, store)
	u.readInfo = func(string) (*tags.Info, error) {
		return nil, errors.New("unsupported format: .txt")
	}
	path := writeTestFile(t, "notes.txt")

	results := u.UploadAll(context.Background(), []string{path})
	if results[0].Err == nil {
		t.Fatal("expected a tag error in the result")
	}
	if len(cat.inserts) != 0 {
		t.Error("no catalog row should be created for an unreadable file")
	}
}

func TestUploadAll_InsertErrorStopsFile(t *testing.T) {
	cat := newFakeCatalog()
	cat.insertErr = errors.New("permission denied")
	store := &fakeStorage{}
	u := newTestUploader(cat, store)
	path := writeTestFile(t, "track.mp3")

	results := u.UploadAll(context.Background(), []string{path})
	if results[0].Err == nil {
		t.Fatal("expected an error")
	}
	// The result goes straight to the CLI; it names the operation, not
	// an internal call chain.
	if got := results[0].Err.Error(); !strings.Contains(got, "add song to library") {
		t.Errorf("error = %q, want the failed operation named", got)
	}
	if len(store.objects) != 0 {
		t.Error("nothing should be uploaded when the row insert fails")
	}
}

func TestUploadAll_FailingFileDoesNotStopOthers(t *testing.T) {
	cat := newFakeCatalog()
	store := &fakeStorage{}
	u := newTestUploader(cat, store)
	calls := 0
	u.readInfo = func(path string) (*tags.Info, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("corrupt header")
		}
		return &tags.Info{Path: path, Title: "Second", Duration: time.Minute}, nil
	}
	bad := writeTestFile(t, "bad.mp3")
	good := writeTestFile(t, "good.mp3")

	results := u.UploadAll(context.Background(), []string{bad, good})

	if results[0].Err == nil {
		t.Error("first result should carry the error")
	}
	if results[1].Err != nil {
		t.Errorf("second upload failed: %v", results[1].Err)
	}
	if len(store.objects) != 1 {
		t.Errorf("len(objects) = %d, want 1", len(store.objects))
	}
}

func TestResultString(t *testing.T) {
	ok := Result{Path: "/music/track.mp3", Title: "Night Drive", Size: 2048}
	if got := ok.String(); !strings.Contains(got, "Night Drive") || !strings.Contains(got, "kB") {
		t.Errorf("Result.String() = %q", got)
	}

	bad := Result{Path: "/music/track.mp3", Err: errors.New("boom")}
	if got := bad.String(); !strings.Contains(got, "boom") {
		t.Errorf("Result.String() = %q", got)
	}
}
