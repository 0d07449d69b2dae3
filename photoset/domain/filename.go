package domain

import (
	"fmt"
	"strings"
)

const (
	photoNamePrefix = "PICT"
	photoNameSuffix = ".jpg"
)

// PhotoFileName returns the canonical file name for a photo id: "PICT"
// followed by the id zero-padded to four digits, then ".jpg". IDs above
// 9999 widen the digit field; their names no longer parse back to the
// same id.
func PhotoFileName(id PhotoID) string {
	return fmt.Sprintf("%s%04d%s", photoNamePrefix, int(id), photoNameSuffix)
}

// ParsePhotoFileName extracts the photo id from a file name. A name
// matches when it is at least twelve characters long, starts with "PICT"
// and ends with ".jpg" (both case-insensitive), and the four characters
// after the prefix are all decimal digits. The boolean is false for
// names that do not match.
func ParsePhotoFileName(name string) (PhotoID, bool) {
	if len(name) < 12 {
		return 0, false
	}
	if !strings.EqualFold(name[:4], photoNamePrefix) {
		return 0, false
	}
	if !strings.EqualFold(name[len(name)-4:], photoNameSuffix) {
		return 0, false
	}

	id := 0
	for i := 4; i < 8; i++ {
		c := name[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		id = id*10 + int(c-'0')
	}
	return PhotoID(id), true
}
