package render

import (
	"fmt"
	"image"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/neuroimg/fmriplot/pkg/figure"
)

// Canvas dimensions and chrome.
const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 1200

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 900

	// outerMargin is the padding between the canvas edge and the grid.
	outerMargin = 14.0

	// labelFontSize is the point size of panel annotations.
	labelFontSize = 12.0
)

// Canvas is a raster drawing surface for one summary figure. It implements
// figure.Renderer. A canvas is not safe for concurrent use; composition is
// a single synchronous pass.
type Canvas struct {
	dc     *gg.Context
	width  int
	height int
	face   font.Face
}

// NewCanvas allocates a white canvas of the given pixel size. Non-positive
// dimensions fall back to the defaults.
func NewCanvas(width, height int) (*Canvas, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    labelFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build font face: %w", err)
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(face)

	return &Canvas{dc: dc, width: width, height: height, face: face}, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Image returns the rendered figure.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// EncodePNG writes the rendered figure to w as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := c.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes the rendered figure to the file at path.
func (c *Canvas) SavePNG(path string) error {
	if err := c.dc.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// rect maps a fractional grid region to panel pixel bounds inside the
// canvas margins.
func (c *Canvas) rect(region figure.Region) (x, y, w, h float64) {
	innerW := float64(c.width) - 2*outerMargin
	innerH := float64(c.height) - 2*outerMargin
	x = outerMargin
	w = innerW
	y = outerMargin + region.Y*innerH
	h = region.H * innerH
	return x, y, w, h
}

// panelFrame draws the light background and border shared by all panels.
func (c *Canvas) panelFrame(x, y, w, h float64) {
	c.dc.SetRGB(0.985, 0.985, 0.99)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()

	c.dc.SetRGB(0.78, 0.78, 0.80)
	c.dc.SetLineWidth(1)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Stroke()
}

// clipped runs draw with the clip region set to the given rectangle.
func (c *Canvas) clipped(x, y, w, h float64, draw func()) {
	c.dc.Push()
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Clip()
	draw()
	c.dc.Pop()
	c.dc.ResetClip()
}

var _ figure.Renderer = (*Canvas)(nil)
