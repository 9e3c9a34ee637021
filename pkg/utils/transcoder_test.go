package utils

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func makeTestImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

// exifSegment builds a valid APP1 Exif payload: little-endian TIFF with
// a single IFD holding orientation=1.
func exifSegment() []byte {
	tiff := &bytes.Buffer{}
	tiff.WriteString("II")
	binary.Write(tiff, binary.LittleEndian, uint16(42))
	binary.Write(tiff, binary.LittleEndian, uint32(8)) // IFD offset
	binary.Write(tiff, binary.LittleEndian, uint16(1)) // entry count
	binary.Write(tiff, binary.LittleEndian, uint16(0x0112))
	binary.Write(tiff, binary.LittleEndian, uint16(3)) // SHORT
	binary.Write(tiff, binary.LittleEndian, uint32(1))
	binary.Write(tiff, binary.LittleEndian, uint16(1)) // orientation
	binary.Write(tiff, binary.LittleEndian, uint16(0)) // value padding
	binary.Write(tiff, binary.LittleEndian, uint32(0)) // next IFD

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	seg := &bytes.Buffer{}
	seg.Write([]byte{0xFF, 0xE1})
	binary.Write(seg, binary.BigEndian, uint16(len(payload)+2))
	seg.Write(payload)
	return seg.Bytes()
}

// commentSegment builds a JPEG COM segment.
func commentSegment(text string) []byte {
	seg := &bytes.Buffer{}
	seg.Write([]byte{0xFF, 0xFE})
	binary.Write(seg, binary.BigEndian, uint16(len(text)+2))
	seg.WriteString(text)
	return seg.Bytes()
}

// withMetadata splices EXIF and comment segments right after SOI.
func withMetadata(t *testing.T, jpegData []byte) []byte {
	t.Helper()
	require.True(t, bytes.HasPrefix(jpegData, []byte{0xFF, 0xD8}), "not a JPEG")

	out := &bytes.Buffer{}
	out.Write(jpegData[:2])
	out.Write(exifSegment())
	out.Write(commentSegment("shot on a test bench"))
	out.Write(jpegData[2:])
	return out.Bytes()
}

// metadataMarkers walks JPEG segments up to SOS and returns the markers
// that carry metadata (APP1 EXIF/XMP, APP2 ICC, COM).
func metadataMarkers(t *testing.T, data []byte) []byte {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, []byte{0xFF, 0xD8}), "missing SOI")

	var found []byte
	i := 2
	for i+4 <= len(data) {
		require.Equal(t, byte(0xFF), data[i], "broken segment chain at %d", i)
		marker := data[i+1]
		if marker == 0xDA { // SOS, entropy data follows
			break
		}
		switch marker {
		case 0xE1, 0xE2, 0xFE:
			found = append(found, marker)
		}
		length := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		i += 2 + length
	}
	return found
}

func TestStripRemovesMetadataSegments(t *testing.T) {
	tr := NewTranscoder(95, zap.NewNop())

	src := encodeJPEG(t, makeTestImage(64, 48))
	tagged := withMetadata(t, src)

	// The fixture really carries metadata before stripping.
	require.NotEmpty(t, metadataMarkers(t, tagged))

	cleaned, err := tr.Strip(tagged)
	require.NoError(t, err)

	assert.Empty(t, metadataMarkers(t, cleaned))

	img, err := jpeg.Decode(bytes.NewReader(cleaned))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestStripTranscodesSupportedFormats(t *testing.T) {
	tr := NewTranscoder(95, zap.NewNop())

	tests := []struct {
		name string
		data func(t *testing.T) []byte
	}{
		{
			name: "png input",
			data: func(t *testing.T) []byte { return encodePNG(t, makeTestImage(32, 32)) },
		},
		{
			name: "jpeg input",
			data: func(t *testing.T) []byte { return encodeJPEG(t, makeTestImage(120, 80)) },
		},
		{
			name: "jpeg with embedded metadata",
			data: func(t *testing.T) []byte {
				return withMetadata(t, encodeJPEG(t, makeTestImage(16, 16)))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, err := tr.Strip(tt.data(t))
			require.NoError(t, err)

			_, err = jpeg.Decode(bytes.NewReader(cleaned))
			require.NoError(t, err)
			assert.Empty(t, metadataMarkers(t, cleaned))
		})
	}
}

func TestStripRejectsCorruptData(t *testing.T) {
	tr := NewTranscoder(95, zap.NewNop())

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty input", data: nil},
		{name: "text payload", data: []byte("definitely not an image")},
		{name: "truncated jpeg", data: encodeJPEG(t, makeTestImage(32, 32))[:20]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Strip(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestStripIsDeterministicAndIdempotent(t *testing.T) {
	tr := NewTranscoder(95, zap.NewNop())

	src := withMetadata(t, encodeJPEG(t, makeTestImage(40, 40)))

	first, err := tr.Strip(src)
	require.NoError(t, err)
	second, err := tr.Strip(src)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same input should produce identical bytes")

	// Re-processing an already cleaned image keeps it metadata-free.
	recleaned, err := tr.Strip(first)
	require.NoError(t, err)
	assert.Empty(t, metadataMarkers(t, recleaned))
}
