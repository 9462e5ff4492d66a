package catalog

import (
	"github.com/samber/lo"

	"github.com/llehouerou/nano/internal/session"
)

// Songs converts catalog rows into playlist entries in listing order,
// stamping each with its ordinal position.
func Songs(files []AudioFile) []session.Song {
	return lo.Map(files, func(f AudioFile, i int) session.Song {
		return session.Song{
			ID:          f.ID,
			Index:       i,
			Name:        f.Title,
			FilePath:    f.FilePath,
			CoverArtURL: f.CoverArtURL,
			Duration:    f.Duration,
		}
	})
}
