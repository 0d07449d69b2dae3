package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dermscope/dermscope/photoset/domain"
	"github.com/dermscope/dermscope/shared/imaging"
)

var _ domain.SetRepository = (*DirectoryRepository)(nil)

// Options configures a DirectoryRepository. The zero value gives the
// strict defaults: an empty directory is an error, sidecar mole metrics
// are ignored on load, and photo times come from file modification
// times.
type Options struct {
	// Decoder parses and scales photo bytes. Nil selects the default
	// imaging.Decoder.
	Decoder domain.ImageDecoder

	// PreviewWidth overrides the width previews are scaled down to.
	// Zero or negative selects domain.PreviewWidth.
	PreviewWidth int

	// AllowEmpty makes Load return an empty set instead of failing when
	// a directory holds no photos.
	AllowEmpty bool

	// MergeMoleMetrics lets the sidecar overwrite the loaded photos'
	// mole metrics. Metrics are always written on save regardless.
	MergeMoleMetrics bool

	// UseEXIFTime takes a photo's default time from its EXIF capture
	// date when one is present, falling back to the modification time.
	UseEXIFTime bool

	// Progress, when set, is called after each photo file is processed
	// during Load.
	Progress func(done, total int)
}

// DirectoryRepository implements domain.SetRepository on a directory of
// PICT####.jpg files with an optional info.json sidecar.
type DirectoryRepository struct {
	opts Options
}

// NewDirectoryRepository creates a DirectoryRepository, filling in
// defaults for unset options.
func NewDirectoryRepository(opts Options) *DirectoryRepository {
	if opts.Decoder == nil {
		opts.Decoder = imaging.NewDecoder()
	}
	if opts.PreviewWidth <= 0 {
		opts.PreviewWidth = domain.PreviewWidth
	}
	return &DirectoryRepository{opts: opts}
}

// Load reads the photo set stored in dir. It either returns a complete
// set or the first error hit; a failed load never returns partial data.
func (r *DirectoryRepository) Load(dir string) (*domain.PhotoSet, error) {
	stat, err := os.Stat(dir)
	if err != nil || !stat.IsDir() {
		return nil, domain.ExpectedDirectory(dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, domain.CannotReadFile(dir, err)
	}

	type candidate struct {
		id   domain.PhotoID
		path string
	}
	var candidates []candidate
	for _, entry := range entries {
		id, ok := domain.ParsePhotoFileName(entry.Name())
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{id: id, path: filepath.Join(dir, entry.Name())})
	}

	set := &domain.PhotoSet{
		Path: dir,
		Info: domain.PhotoSetInfo{Time: time.Now()},
	}

	for i, c := range candidates {
		photo, ok, err := r.loadPhoto(c.id, c.path)
		if err != nil {
			return nil, err
		}
		if ok {
			// The same id can appear twice when casing variants of one
			// name coexist; the later entry wins.
			if prev, found := set.FindPhoto(photo.ID); found {
				*prev = *photo
			} else {
				set.Photos = append(set.Photos, photo)
			}
		}
		if r.opts.Progress != nil {
			r.opts.Progress(i+1, len(candidates))
		}
	}

	if len(set.Photos) == 0 && !r.opts.AllowEmpty {
		return nil, domain.NoPhotosFound(dir)
	}

	if err := r.mergeInfoFile(set); err != nil {
		return nil, err
	}

	return set, nil
}

// loadPhoto reads one candidate file. The boolean is false for entries
// that turn out not to be regular files, which are skipped rather than
// treated as errors.
func (r *DirectoryRepository) loadPhoto(id domain.PhotoID, path string) (*domain.Photo, bool, error) {
	// Stat follows symlinks; a candidate must end up at a regular file.
	stat, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		// Broken symlink, or the file vanished after the listing.
		return nil, false, nil
	}
	if err != nil {
		return nil, false, domain.CannotReadFile(path, err)
	}
	if !stat.Mode().IsRegular() {
		return nil, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, domain.CannotReadFile(path, err)
	}

	img, err := r.opts.Decoder.Decode(data)
	if err != nil {
		return nil, false, domain.CannotDecodeImage(domain.PhotoFileName(id), err)
	}

	taken := stat.ModTime()
	if r.opts.UseEXIFTime {
		if captured, ok := exifCaptureTime(data); ok {
			taken = captured
		}
	}

	return &domain.Photo{
		ID:      id,
		Bytes:   data,
		Preview: r.opts.Decoder.Resize(img, r.opts.PreviewWidth),
		Info:    domain.PhotoInfo{Time: taken},
	}, true, nil
}

// mergeInfoFile folds the sidecar into a freshly scanned set. A missing
// sidecar is fine; an unreadable or malformed one is not, and a sidecar
// that omits required fields counts as malformed.
func (r *DirectoryRepository) mergeInfoFile(set *domain.PhotoSet) error {
	infoPath := filepath.Join(set.Path, domain.InfoFileName)
	text, err := os.ReadFile(infoPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return domain.CannotReadFile(infoPath, err)
	}

	var data photoSetData
	if err := json.Unmarshal(text, &data); err != nil {
		return domain.CannotDecodeInfo(infoPath, err)
	}
	if err := data.validate(); err != nil {
		return domain.CannotDecodeInfo(infoPath, err)
	}

	r.applyData(set, &data)
	return nil
}

// applyData copies a validated sidecar onto the set. The sidecar owns
// the visit info outright; per photo it owns time and notes, plus the
// mole metrics when configured. Entries whose id is not in the set are
// dropped.
func (r *DirectoryRepository) applyData(set *domain.PhotoSet, data *photoSetData) {
	set.Info.Name = *data.Name
	set.Info.Surname = *data.Surname
	set.Info.Time = *data.Time
	set.Info.Notes = *data.Notes

	for id, info := range data.Photos {
		photo, ok := set.FindPhoto(id)
		if !ok {
			continue
		}
		photo.Info.Time = *info.Time
		photo.Info.Notes = *info.Notes
		if r.opts.MergeMoleMetrics && info.MoleMetrics != nil {
			photo.Info.MoleMetrics = info.MoleMetrics.toDomain()
		}
	}
}

// Save writes the set back to its directory. Photo files are only
// written when missing; bytes already on disk are never overwritten.
// The sidecar is rewritten in full.
func (r *DirectoryRepository) Save(set *domain.PhotoSet) error {
	for _, photo := range set.Photos {
		path := filepath.Join(set.Path, domain.PhotoFileName(photo.ID))
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, photo.Bytes, 0644); err != nil {
			return domain.CannotWriteFile(path, err)
		}
	}

	infoPath := filepath.Join(set.Path, domain.InfoFileName)
	data, err := json.MarshalIndent(buildData(set), "", "  ")
	if err != nil {
		return domain.CannotWriteFile(infoPath, err)
	}
	if err := os.WriteFile(infoPath, data, 0644); err != nil {
		return domain.CannotWriteFile(infoPath, err)
	}

	return nil
}

// photoSetData is the wire shape of the info.json sidecar. Integer map
// keys marshal as quoted strings; the file's key order is lexicographic
// and carries no meaning. Required fields decode through pointers so a
// key the file left out is detectable after unmarshaling.
type photoSetData struct {
	Name    *string                          `json:"name"`
	Surname *string                          `json:"surname"`
	Time    *time.Time                       `json:"time"`
	Notes   *string                          `json:"notes"`
	Photos  map[domain.PhotoID]photoInfoData `json:"photos"`
}

type photoInfoData struct {
	Time        *time.Time       `json:"time"`
	Notes       *string          `json:"notes"`
	MoleMetrics *moleMetricsData `json:"mole_metrics"`
}

type moleMetricsData struct {
	CenterX  *float64 `json:"center_x"`
	CenterY  *float64 `json:"center_y"`
	Diameter *float64 `json:"diameter"`
}

// validate reports the first required field the sidecar leaves out.
// Only mole_metrics may be absent; every other field of the format is
// mandatory.
func (d *photoSetData) validate() error {
	switch {
	case d.Name == nil:
		return missingField("name")
	case d.Surname == nil:
		return missingField("surname")
	case d.Time == nil:
		return missingField("time")
	case d.Notes == nil:
		return missingField("notes")
	case d.Photos == nil:
		return missingField("photos")
	}
	for id, info := range d.Photos {
		if err := info.validate(); err != nil {
			return fmt.Errorf("photo %d: %w", id, err)
		}
	}
	return nil
}

func (d photoInfoData) validate() error {
	switch {
	case d.Time == nil:
		return missingField("time")
	case d.Notes == nil:
		return missingField("notes")
	}
	if m := d.MoleMetrics; m != nil {
		switch {
		case m.CenterX == nil:
			return missingField("center_x")
		case m.CenterY == nil:
			return missingField("center_y")
		case m.Diameter == nil:
			return missingField("diameter")
		}
	}
	return nil
}

func missingField(key string) error {
	return fmt.Errorf("missing field %q", key)
}

// toDomain assumes the metrics passed validation.
func (m *moleMetricsData) toDomain() domain.MoleMetrics {
	return domain.MoleMetrics{
		CenterX:  *m.CenterX,
		CenterY:  *m.CenterY,
		Diameter: *m.Diameter,
	}
}

// buildData collects the set's metadata into the sidecar shape. Save
// always writes the full format, optional fields included.
func buildData(set *domain.PhotoSet) *photoSetData {
	data := &photoSetData{
		Name:    &set.Info.Name,
		Surname: &set.Info.Surname,
		Time:    &set.Info.Time,
		Notes:   &set.Info.Notes,
		Photos:  make(map[domain.PhotoID]photoInfoData, len(set.Photos)),
	}

	for _, photo := range set.Photos {
		data.Photos[photo.ID] = photoInfoData{
			Time:  &photo.Info.Time,
			Notes: &photo.Info.Notes,
			MoleMetrics: &moleMetricsData{
				CenterX:  &photo.Info.MoleMetrics.CenterX,
				CenterY:  &photo.Info.MoleMetrics.CenterY,
				Diameter: &photo.Info.MoleMetrics.Diameter,
			},
		}
	}

	return data
}
