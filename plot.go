package envelope

import (
	"image"
	"image/color"
	"image/draw"
	"slices"

	"golang.org/x/image/vector"
)

type plotConfig struct {
	width, height int
	samples       int
	padding       float64
	lineWidth     float64
	fill          color.Color
	line          color.Color
	background    color.Color
}

// PlotOption configures [Plot].
type PlotOption func(*plotConfig)

// WithSize sets the size of the image in pixels.
func WithSize(width, height int) PlotOption {
	return func(cfg *plotConfig) {
		if width > 0 && height > 0 {
			cfg.width, cfg.height = width, height
		}
	}
}

// WithSamples sets the number of samples taken per segment.
func WithSamples(n int) PlotOption {
	return func(cfg *plotConfig) {
		if n > 0 {
			cfg.samples = n
		}
	}
}

// WithColors sets the colors of the area under the curve, of the curve
// itself, and of the background. Nil colors keep their defaults.
func WithColors(fill, line, background color.Color) PlotOption {
	return func(cfg *plotConfig) {
		if fill != nil {
			cfg.fill = fill
		}
		if line != nil {
			cfg.line = line
		}
		if background != nil {
			cfg.background = background
		}
	}
}

func applyPlotOptions(opts []PlotOption) plotConfig {
	cfg := plotConfig{
		width:      640,
		height:     320,
		samples:    25,
		padding:    8,
		lineWidth:  2,
		fill:       color.RGBA{0xa8, 0xda, 0xdc, 0xff},
		line:       color.RGBA{0x1d, 0x35, 0x57, 0xff},
		background: color.White,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// PlotTransform returns the transform [Plot] uses to map curve space (time,
// level) into an image of the given size.
func PlotTransform(c *Curve, width, height int) Affine {
	cfg := applyPlotOptions([]PlotOption{WithSize(width, height)})
	return plotTransform(c, cfg)
}

func plotTransform(c *Curve, cfg plotConfig) Affine {
	bbox := c.BoundingBox()
	if bbox.Width() == 0 {
		bbox.X1 = bbox.X0 + 1
	}
	if bbox.Height() == 0 {
		bbox = bbox.Inflate(0, 1)
	}
	sx := (float64(cfg.width) - 2*cfg.padding) / bbox.Width()
	sy := (float64(cfg.height) - 2*cfg.padding) / bbox.Height()
	return Translate(-bbox.X0, -bbox.Y1).
		Then(FlipY).
		ThenScale(sx, sy).
		ThenTranslate(cfg.padding, cfg.padding)
}

// Plot renders the curve into a new image: the area between the curve and
// level 0 (or the nearest edge of the plot when 0 is out of view) is
// filled, and the curve is drawn on top.
func Plot(c *Curve, opts ...PlotOption) *image.RGBA {
	cfg := applyPlotOptions(opts)
	img := image.NewRGBA(image.Rect(0, 0, cfg.width, cfg.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(cfg.background), image.Point{}, draw.Src)

	aff := plotTransform(c, cfg)
	pts := slices.Collect(c.Samples(cfg.samples))
	for i := range pts {
		pts[i] = pts[i].Transform(aff)
	}
	bbox := c.BoundingBox()
	base := Pt(0, min(max(0, bbox.Y0), bbox.Y1)).Transform(aff).Y

	r := vector.NewRasterizer(cfg.width, cfg.height)
	r.MoveTo(float32(pts[0].X), float32(base))
	for _, pt := range pts {
		r.LineTo(float32(pt.X), float32(pt.Y))
	}
	r.LineTo(float32(pts[len(pts)-1].X), float32(base))
	r.ClosePath()
	r.Draw(img, img.Bounds(), image.NewUniform(cfg.fill), image.Point{})

	// The outline is a band of lineWidth pixels around the samples.
	hw := cfg.lineWidth / 2
	r.Reset(cfg.width, cfg.height)
	r.MoveTo(float32(pts[0].X), float32(pts[0].Y-hw))
	for _, pt := range pts[1:] {
		r.LineTo(float32(pt.X), float32(pt.Y-hw))
	}
	for _, pt := range slices.Backward(pts) {
		r.LineTo(float32(pt.X), float32(pt.Y+hw))
	}
	r.ClosePath()
	r.Draw(img, img.Bounds(), image.NewUniform(cfg.line), image.Point{})
	return img
}
