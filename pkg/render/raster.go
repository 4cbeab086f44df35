package render

import (
	"image"
	"image/color"
	"math"
)

// screenVertex is a projected vertex: pixel position plus view depth
type screenVertex struct {
	x, y, z float64
}

// fillTriangleWithDepth fills a triangle using a scanline algorithm,
// writing only pixels closer than what the depth buffer already holds
func fillTriangleWithDepth(img *image.RGBA, zbuffer []float64, a, b, c screenVertex, col color.RGBA) {
	// Sort vertices by Y coordinate (top to bottom)
	if a.y > b.y {
		a, b = b, a
	}
	if b.y > c.y {
		b, c = c, b
	}
	if a.y > b.y {
		a, b = b, a
	}

	bounds := img.Bounds()
	width := bounds.Max.X
	edges := [3][2]screenVertex{{a, b}, {b, c}, {a, c}}

	for y := int(math.Max(0, math.Ceil(a.y))); y <= int(math.Min(float64(bounds.Max.Y-1), c.y)); y++ {
		fy := float64(y)

		// Find intersections with triangle edges
		var hits [2]screenVertex
		found := 0
		for _, e := range edges {
			p, q := e[0], e[1]
			if found == 2 || p.y == q.y || fy < p.y || fy > q.y {
				continue
			}
			t := (fy - p.y) / (q.y - p.y)
			hits[found] = screenVertex{x: p.x + t*(q.x-p.x), z: p.z + t*(q.z-p.z)}
			found++
		}
		if found < 2 {
			continue
		}

		start, end := hits[0], hits[1]
		if start.x > end.x {
			start, end = end, start
		}

		// Clamp to image bounds
		xStart := int(math.Max(0, math.Ceil(start.x)))
		xEnd := int(math.Min(float64(width-1), end.x))

		for x := xStart; x <= xEnd; x++ {
			t := 0.0
			if end.x != start.x {
				t = (float64(x) - start.x) / (end.x - start.x)
			}
			z := start.z + t*(end.z-start.z)

			// Depth test - draw if closer (smaller z)
			idx := y*width + x
			if idx >= 0 && idx < len(zbuffer) && z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLine draws a line on an image using Bresenham's algorithm, blending
// col over the existing pixels with the given opacity
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, opacity float64) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	var sx, sy int
	if x1 < x2 {
		sx = 1
	} else {
		sx = -1
	}
	if y1 < y2 {
		sy = 1
	} else {
		sy = -1
	}

	err := dx - dy

	for {
		// Check bounds
		if x1 >= 0 && x1 < bounds.Max.X && y1 >= 0 && y1 < bounds.Max.Y {
			img.SetRGBA(x1, y1, blend(img.RGBAAt(x1, y1), col, opacity))
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// blend mixes src over dst, ignoring alpha channels
func blend(dst, src color.RGBA, opacity float64) color.RGBA {
	if opacity >= 1 {
		return src
	}
	mix := func(d, s uint8) uint8 {
		return uint8(math.Round(float64(d)*(1-opacity) + float64(s)*opacity))
	}
	return color.RGBA{mix(dst.R, src.R), mix(dst.G, src.G), mix(dst.B, src.B), 0xff}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
