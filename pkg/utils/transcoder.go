package utils

import (
	"bytes"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	// imaging registers jpeg, png, gif, bmp and tiff; webp needs its
	// own decoder.
	_ "golang.org/x/image/webp"
)

// Transcoder strips embedded metadata by decoding an image and
// re-encoding it as JPEG. The encoder writes no EXIF, ICC, XMP or
// comment segments, so the output container carries none regardless of
// the input. EXIF orientation is applied to the pixels before the tag
// is discarded, keeping the image upright.
type Transcoder struct {
	log     *zap.Logger
	quality int
}

func NewTranscoder(quality int, log *zap.Logger) *Transcoder {
	return &Transcoder{
		log:     log,
		quality: quality,
	}
}

// Strip decodes the input and re-encodes it as a metadata-free JPEG.
func (t *Transcoder) Strip(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(t.quality)); err != nil {
		return nil, err
	}

	t.log.Info("Image transcoded",
		zap.Int("input_size", len(data)),
		zap.Int("output_size", buf.Len()),
		zap.Int("quality", t.quality))

	return buf.Bytes(), nil
}
