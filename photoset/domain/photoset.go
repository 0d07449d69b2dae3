package domain

import (
	"image"
	"sort"
	"time"
)

// InfoFileName is the name of the metadata sidecar kept next to the
// photos in a set directory.
const InfoFileName = "info.json"

// PhotoSetInfo is the visit-level metadata for a photo set.
type PhotoSetInfo struct {
	Name    string
	Surname string
	Time    time.Time
	Notes   string
}

// PhotoSet is one patient visit: the directory it was loaded from, the
// photos found there and the visit metadata. Photo IDs are unique within
// a set; slice order follows the directory scan.
type PhotoSet struct {
	Path   string
	Photos []*Photo
	Info   PhotoSetInfo
}

// FindPhoto returns the photo with the given id, or false when the set
// holds no such photo.
func (s *PhotoSet) FindPhoto(id PhotoID) (*Photo, bool) {
	for _, p := range s.Photos {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// SortedPhotos returns the set's photos ordered by ascending id, leaving
// the set's own slice untouched.
func (s *PhotoSet) SortedPhotos() []*Photo {
	sorted := make([]*Photo, len(s.Photos))
	copy(sorted, s.Photos)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// SetRepository loads photo sets from storage and writes them back.
type SetRepository interface {
	Load(dir string) (*PhotoSet, error)
	Save(set *PhotoSet) error
}

// ImageDecoder turns raw photo bytes into images and produces scaled
// previews from them.
type ImageDecoder interface {
	Decode(data []byte) (image.Image, error)
	Resize(img image.Image, width int) image.Image
}
