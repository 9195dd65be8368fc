package thumbnail

import (
	"image"
	"image/color"
	"image/draw"
)

// canvas is a minimal RGBA raster with integer line drawing.
type canvas struct {
	img *image.RGBA
}

func newCanvas(width, height int) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return &canvas{img: img}
}

func (c *canvas) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.img.Rect.Dx() && y < c.img.Rect.Dy()
}

// drawLine plots a Bresenham segment, clipping to the canvas bounds.
func (c *canvas) drawLine(x0, y0, x1, y1 int, col color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)

	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	for {
		if c.inBounds(x0, y0) {
			c.img.SetRGBA(x0, y0, col)
		}

		if x0 == x1 && y0 == y1 {
			return
		}

		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
