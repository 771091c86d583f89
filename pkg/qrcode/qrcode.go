package qrcode

import (
	"bytes"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/skip2/go-qrcode"
)

// Config controls how a check-in QR code is rendered.
type Config struct {
	Content       string
	Size          int // rendered size of the QR area in pixels
	QuietZone     int // margin around the QR code in pixels
	Background    color.Color
	Foreground    color.Color
	DotScale      float64 // 0..1, relative dot radius inside a module
	RecoveryLevel qrcode.RecoveryLevel
}

// DefaultConfig is the campus check-in style.
var DefaultConfig = Config{
	Size:          512,
	QuietZone:     24,
	Background:    color.RGBA{R: 250, G: 250, B: 250, A: 255},
	Foreground:    color.RGBA{R: 25, G: 25, B: 30, A: 255},
	DotScale:      0.9,
	RecoveryLevel: qrcode.High,
}

// Generate renders the QR code as a PNG with rounded dots.
func (c *Config) Generate() ([]byte, error) {
	qr, err := qrcode.New(c.Content, c.RecoveryLevel)
	if err != nil {
		return nil, err
	}

	matrix := qr.Bitmap()
	moduleCount := len(matrix)
	moduleSize := float64(c.Size) / float64(moduleCount)
	totalSize := c.Size + 2*c.QuietZone

	dc := gg.NewContext(totalSize, totalSize)
	dc.SetColor(c.Background)
	dc.Clear()

	dc.SetColor(c.Foreground)
	radius := moduleSize / 2 * c.DotScale
	for y := 0; y < moduleCount; y++ {
		for x := 0; x < moduleCount; x++ {
			if !matrix[y][x] {
				continue
			}
			cx := float64(c.QuietZone) + (float64(x)+0.5)*moduleSize
			cy := float64(c.QuietZone) + (float64(y)+0.5)*moduleSize
			dc.DrawCircle(cx, cy, radius)
			dc.Fill()
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
