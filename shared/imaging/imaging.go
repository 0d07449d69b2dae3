package imaging

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/dermscope/dermscope/photoset/domain"
)

var _ domain.ImageDecoder = (*Decoder)(nil)

// Decoder implements domain.ImageDecoder with the standard image codecs.
// JPEG, PNG and GIF content is recognized by sniffing the bytes, so the
// file extension never matters.
type Decoder struct{}

// NewDecoder creates a new Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses raw photo bytes into an image.
func (d *Decoder) Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// Resize scales img to the given width. The height follows the source
// aspect ratio, truncated to whole pixels.
func (d *Decoder) Resize(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == 0 {
		return img
	}

	height := bounds.Dy() * width / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
