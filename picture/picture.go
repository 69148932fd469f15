// Package picture describes images attached to feed posts. An image is
// uploaded out of band first; the returned descriptor (remote URL plus
// dimensions) is what the post builder embeds.
package picture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/anthonynsimon/bild/transform"

	_ "image/gif"
)

// MaxUploadDim is the largest edge the upload endpoint accepts without
// recompressing server-side.
const MaxUploadDim = 4096

// Picture is an image descriptor. URL is set once the image has been
// uploaded; Content holds the local bytes until then.
type Picture struct {
	URL     string
	Width   int
	Height  int
	Content []byte
}

// FromFile reads an image and decodes its dimensions.
func FromFile(path string) (*Picture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return &Picture{Width: cfg.Width, Height: cfg.Height, Content: raw}, nil
}

// Downscale shrinks the image so neither edge exceeds maxDim, keeping the
// aspect ratio. Images already within bounds are left untouched.
func (p *Picture) Downscale(maxDim int) error {
	if p.Width <= maxDim && p.Height <= maxDim {
		return nil
	}

	img, format, err := image.Decode(bytes.NewReader(p.Content))
	if err != nil {
		return err
	}

	width, height := p.Width, p.Height
	ratio := float64(width) / float64(height)
	if width > height {
		width = maxDim
		height = int(float64(width) / ratio)
	} else {
		height = maxDim
		width = int(float64(height) * ratio)
	}
	resized := transform.Resize(img, width, height, transform.Lanczos)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, resized)
	default:
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return err
	}

	p.Content = buf.Bytes()
	p.Width = width
	p.Height = height
	return nil
}
