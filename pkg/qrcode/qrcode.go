package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultSize is the rendered PNG width and height in pixels
	DefaultSize = 256

	dataURLPrefix = "data:image/png;base64,"
)

var encodePNG = goqrcode.Encode

// Generator renders a scannable image for a code
type Generator interface {
	Generate(content string) (string, error)
}

// PNGGenerator renders QR codes as base64 PNG data URLs
type PNGGenerator struct {
	size  int
	level goqrcode.RecoveryLevel
}

// NewPNGGenerator creates a generator producing size x size images
func NewPNGGenerator(size int) *PNGGenerator {
	if size <= 0 {
		size = DefaultSize
	}
	return &PNGGenerator{size: size, level: goqrcode.Medium}
}

// Generate returns a data URL for the encoded content
func (g *PNGGenerator) Generate(content string) (string, error) {
	if content == "" {
		return "", errors.New("qrcode: empty content")
	}

	png, err := encodePNG(content, g.level, g.size)
	if err != nil {
		return "", fmt.Errorf("qrcode: encode %q: %w", content, err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
