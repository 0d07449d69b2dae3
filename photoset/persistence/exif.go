package persistence

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifCaptureTime extracts the capture date from a photo's EXIF block.
// DateTimeOriginal is preferred, then DateTime. Photos without usable
// EXIF data report false.
func exifCaptureTime(data []byte) (time.Time, bool) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return time.Time{}, false
	}

	taken, err := x.DateTime()
	if err != nil {
		return time.Time{}, false
	}

	return taken, true
}
