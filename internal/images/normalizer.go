// Package images implements the intake image normalization stage: bounded
// resize plus JPEG re-encoding of uploaded mail photos before OCR submission
// and email attachment.
package images

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Defaults match the original intake pipeline: images are bounded to
// 1000px on their longest side and re-encoded as JPEG at quality 90.
const (
	DefaultMaxDimension = 1000
	DefaultJPEGQuality  = 90
)

// Normalized holds the outputs of normalizing one uploaded image.
type Normalized struct {
	Filename string // derived name, "resized-<original>.jpg"
	Data     []byte // JPEG-encoded bytes at the bounded dimension
	Preview  string // data URI of Data, for display and OCR submission
	Width    int
	Height   int
}

// Normalizer resizes and re-encodes uploaded images.
type Normalizer struct {
	maxDimension int
	quality      int
}

// NewNormalizer creates a Normalizer with the given bounds. Non-positive
// values fall back to the defaults.
func NewNormalizer(maxDimension, quality int) *Normalizer {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Normalizer{maxDimension: maxDimension, quality: quality}
}

// Normalize decodes the uploaded image, scales it down so its longest side
// is at most the configured bound (never upscaling), and re-encodes it as
// JPEG. Decode failures fail only this image; the caller isolates them
// per item.
func (n *Normalizer) Normalize(filename string, data []byte) (*Normalized, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %q: %w", filename, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// Scale factor is capped at 1: images already within the bound keep
	// their dimensions.
	if width > n.maxDimension || height > n.maxDimension {
		img = imaging.Fit(img, n.maxDimension, n.maxDimension, imaging.Lanczos)
		bounds = img.Bounds()
		width, height = bounds.Dx(), bounds.Dy()
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(n.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image %q: %w", filename, err)
	}

	encoded := buf.Bytes()
	return &Normalized{
		Filename: derivedFilename(filename),
		Data:     encoded,
		Preview:  DataURI("image/jpeg", encoded),
		Width:    width,
		Height:   height,
	}, nil
}

// derivedFilename builds the normalized file's name from the upload name
func derivedFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" {
		base = "image"
	}
	return "resized-" + base + ".jpg"
}

// DataURI encodes bytes as a base64 data URI with the given content type
func DataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// SniffContentType guesses an image content type from the file extension,
// defaulting to JPEG
func SniffContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	case ".tiff":
		return "image/tiff"
	default:
		return "image/jpeg"
	}
}
