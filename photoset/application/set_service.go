package application

import (
	"fmt"
	"time"

	"github.com/dermscope/dermscope/photoset/domain"
	"github.com/rs/zerolog/log"
)

// SetService owns the workflow around photo set storage: loading and
// saving through a repository, editing metadata in place, and keeping
// mole metrics inside their recordable bounds.
type SetService struct {
	repo domain.SetRepository
}

// NewSetService creates a SetService backed by the given repository.
func NewSetService(repo domain.SetRepository) *SetService {
	return &SetService{repo: repo}
}

// Load reads the photo set stored in dir.
func (s *SetService) Load(dir string) (*domain.PhotoSet, error) {
	set, err := s.repo.Load(dir)
	if err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("Failed to load photo set")
		return nil, err
	}

	log.Info().Str("dir", dir).Int("photos", len(set.Photos)).Msg("Loaded photo set")
	return set, nil
}

// Save writes the set back to its directory.
func (s *SetService) Save(set *domain.PhotoSet) error {
	if err := s.repo.Save(set); err != nil {
		log.Error().Err(err).Str("dir", set.Path).Msg("Failed to save photo set")
		return err
	}

	log.Info().Str("dir", set.Path).Int("photos", len(set.Photos)).Msg("Saved photo set")
	return nil
}

// SaveAs writes the set under a new directory, leaving the old one in
// place. On failure the set keeps pointing at its previous directory.
func (s *SetService) SaveAs(set *domain.PhotoSet, dir string) error {
	oldPath := set.Path
	set.Path = dir
	if err := s.Save(set); err != nil {
		set.Path = oldPath
		return err
	}
	return nil
}

// SetPatient updates the visit's patient name.
func (s *SetService) SetPatient(set *domain.PhotoSet, name, surname string) {
	set.Info.Name = name
	set.Info.Surname = surname
}

// SetVisitNotes updates the visit-level notes.
func (s *SetService) SetVisitNotes(set *domain.PhotoSet, notes string) {
	set.Info.Notes = notes
}

// SetVisitTime updates the visit time.
func (s *SetService) SetVisitTime(set *domain.PhotoSet, t time.Time) {
	set.Info.Time = t
}

// SetPhotoNotes updates one photo's notes.
func (s *SetService) SetPhotoNotes(set *domain.PhotoSet, id domain.PhotoID, notes string) error {
	photo, ok := set.FindPhoto(id)
	if !ok {
		return fmt.Errorf("no photo %d in %s", id, set.Path)
	}
	photo.Info.Notes = notes
	return nil
}

// SetPhotoTime updates one photo's time.
func (s *SetService) SetPhotoTime(set *domain.PhotoSet, id domain.PhotoID, t time.Time) error {
	photo, ok := set.FindPhoto(id)
	if !ok {
		return fmt.Errorf("no photo %d in %s", id, set.Path)
	}
	photo.Info.Time = t
	return nil
}

// SetMoleMetrics records the metrics for one photo, clamped to their
// recordable ranges.
func (s *SetService) SetMoleMetrics(set *domain.PhotoSet, id domain.PhotoID, m domain.MoleMetrics) error {
	photo, ok := set.FindPhoto(id)
	if !ok {
		return fmt.Errorf("no photo %d in %s", id, set.Path)
	}
	photo.Info.MoleMetrics = ClampMoleMetrics(m)
	return nil
}

// ClampMoleMetrics forces metrics into their recordable ranges: centers
// within MoleCenterDistanceMax of the photo center on both axes, the
// diameter between zero and MoleSizeMax.
func ClampMoleMetrics(m domain.MoleMetrics) domain.MoleMetrics {
	return domain.MoleMetrics{
		CenterX:  clamp(m.CenterX, -domain.MoleCenterDistanceMax, domain.MoleCenterDistanceMax),
		CenterY:  clamp(m.CenterY, -domain.MoleCenterDistanceMax, domain.MoleCenterDistanceMax),
		Diameter: clamp(m.Diameter, 0, domain.MoleSizeMax),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
