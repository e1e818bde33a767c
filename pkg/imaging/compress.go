// Package imaging shrinks requisition photos before upload.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
)

const (
	MaxDimension   = 1280
	MaxBytes       = 1 << 20
	InitialQuality = 80
	MinQuality     = 40
	qualityStep    = 10

	// MaxPixels caps the declared size of an input image. Decoding
	// allocates the full pixel buffer up front.
	MaxPixels = 50_000_000
)

var ErrTooLarge = errors.New("image dimensions too large")

// Result is a compressed JPEG.
type Result struct {
	Data    []byte
	Width   int
	Height  int
	Quality int
}

// Compress decodes a JPEG or PNG, scales it so the longest side is at most
// MaxDimension and re-encodes as JPEG, lowering quality until the output
// fits in MaxBytes or MinQuality is reached.
func Compress(r io.Reader) (Result, error) {
	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return Result{}, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Result{}, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		return Result{}, fmt.Errorf("decode image: %w", err)
	}

	img := downscale(src, MaxDimension)
	b := img.Bounds()

	var buf bytes.Buffer
	quality := InitialQuality
	for {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return Result{}, fmt.Errorf("encode jpeg: %w", err)
		}
		if buf.Len() <= MaxBytes || quality <= MinQuality {
			break
		}
		quality = max(quality-qualityStep, MinQuality)
	}

	return Result{
		Data:    bytes.Clone(buf.Bytes()),
		Width:   b.Dx(),
		Height:  b.Dy(),
		Quality: quality,
	}, nil
}

// downscale resizes with box sampling. Images already within limit are
// returned unchanged.
func downscale(src image.Image, limit int) image.Image {
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if w <= limit && h <= limit {
		return src
	}

	var nw, nh int
	if w >= h {
		nw, nh = limit, max(1, h*limit/w)
	} else {
		nw, nh = max(1, w*limit/h), limit
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	for y := 0; y < nh; y++ {
		y0 := sb.Min.Y + y*h/nh
		y1 := max(sb.Min.Y+(y+1)*h/nh, y0+1)
		for x := 0; x < nw; x++ {
			x0 := sb.Min.X + x*w/nw
			x1 := max(sb.Min.X+(x+1)*w/nw, x0+1)

			var r, g, bl, a, n uint64
			for sy := y0; sy < y1; sy++ {
				for sx := x0; sx < x1; sx++ {
					cr, cg, cb, ca := src.At(sx, sy).RGBA()
					r += uint64(cr)
					g += uint64(cg)
					bl += uint64(cb)
					a += uint64(ca)
					n++
				}
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = uint8(r / n >> 8)
			dst.Pix[i+1] = uint8(g / n >> 8)
			dst.Pix[i+2] = uint8(bl / n >> 8)
			dst.Pix[i+3] = uint8(a / n >> 8)
		}
	}
	return dst
}
