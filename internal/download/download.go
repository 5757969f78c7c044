// Package download turns API image bytes into the PNG offered to the user.
package download

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/webp"
)

const (
	// Filename is the attachment name of every download.
	Filename = "generated_image.png"
	MIMEType = "image/png"
)

// Image is a decoded generation result re-encoded as PNG.
type Image struct {
	PNG    []byte
	Format string
	Width  int
	Height int
}

// EncodePNG decodes data in any registered format and re-encodes it as PNG.
func EncodePNG(data []byte) (*Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	bounds := img.Bounds()
	return &Image{
		PNG:    buf.Bytes(),
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// ContentDisposition returns the header value that makes browsers save the
// image as Filename.
func ContentDisposition() string {
	return fmt.Sprintf("attachment; filename=%q", Filename)
}
