package session

// Song is an entry in the user's streamed library.
// Identity is the ID: either the catalog row ID or a synthesized storage
// path for files that never got a row. Index is the ordinal stamped when
// the containing playlist was built; it is a display aid only and is not
// stable across playlist reloads, so navigation never compares it.
type Song struct {
	ID          string  `json:"id"`
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	FilePath    string  `json:"filePath"`
	CoverArtURL string  `json:"coverArtUrl,omitempty"`
	Duration    float64 `json:"duration"` // seconds, 0 when unknown
}
