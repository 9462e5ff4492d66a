package player

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// download fetches the resource to a uniquely named file under the
// system temp directory and returns its path. The extension is carried
// over from the URL path so the decoder can be picked from it.
func (p *Player) download(rawURL string) (string, error) {
	resp, err := p.httpClient.Get(rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	dst := filepath.Join(os.TempDir(), "nano-"+uuid.NewString()+urlExt(rawURL))
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dst)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", err
	}
	return dst, nil
}

// urlExt extracts the file extension from a URL's path, ignoring any
// query string (signed URLs carry a token parameter).
func urlExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return path.Ext(rawURL)
	}
	return path.Ext(u.Path)
}
