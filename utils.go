package picker

import "image"

// ClampRectToImage Corrects rectangle's bounds for provided max-width and max-height
// Helps to avoid BBox error assertion when a drag leaves the window
func ClampRectToImage(r *image.Rectangle, maxCols, maxRows int) {
	if r.Min.X <= 0 {
		r.Min.X = 0
	}
	if r.Min.Y < 0 {
		r.Min.Y = 0
	}
	if r.Max.X >= maxCols {
		r.Max.X = maxCols - 1
	}
	if r.Max.Y >= maxRows {
		r.Max.Y = maxRows - 1
	}
}
