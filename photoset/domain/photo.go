package domain

import (
	"image"
	"time"
)

const (
	// PreviewWidth is the width, in pixels, that photo previews are scaled
	// down to at load time. Heights follow the source aspect ratio.
	PreviewWidth = 128

	// MoleCenterDistanceMax bounds how far a mole center may be marked from
	// the photo center, in millimetres along either axis.
	MoleCenterDistanceMax = 2.0

	// MoleSizeMax is the largest recordable mole diameter in millimetres.
	MoleSizeMax = 4.0

	// PhotoPxPerMM is the capture scale of the dermatoscope camera.
	// Embedders use it to map metrics, which are stored in millimetres,
	// onto photo pixels.
	PhotoPxPerMM = 1250.0
)

// PhotoID identifies a photo within its set. IDs are derived from the
// photo's filename at load time and never renumbered afterwards.
type PhotoID int

// MoleMetrics locates a mole within a photo. Center offsets are measured
// in millimetres from the photo center; Diameter is the mole diameter in
// millimetres. A diameter of zero or less means no size has been recorded.
type MoleMetrics struct {
	CenterX  float64
	CenterY  float64
	Diameter float64
}

// Size returns the recorded mole diameter. The boolean is false when no
// size has been recorded yet.
func (m MoleMetrics) Size() (float64, bool) {
	if m.Diameter <= 0 {
		return 0, false
	}
	return m.Diameter, true
}

// PhotoInfo is the editable metadata attached to a single photo.
// Time starts out as the photo file's modification time and is replaced
// by the sidecar value when one exists for the photo.
type PhotoInfo struct {
	Time        time.Time
	Notes       string
	MoleMetrics MoleMetrics
}

// Photo is one dermatoscope image together with its metadata. Bytes holds
// the original file content untouched; Preview is the decoded image scaled
// down for display. A photo belongs to exactly one set.
type Photo struct {
	ID      PhotoID
	Bytes   []byte
	Preview image.Image
	Info    PhotoInfo
}
