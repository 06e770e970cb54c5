package processing

import (
	"math"

	"poster/faces"
)

// ComputeCrop turns a face bounding box into a square crop centered on
// the face, sized to the larger face dimension times padding and
// clamped to the image bounds. When the face center is close to an
// edge the crop is clipped on that side instead of being re-centered,
// so a face near a corner yields a non-square, off-center crop. That
// clipping bias is intentional and kept as-is.
//
// Callers must pass padding >= 1 and a box lying within the image.
// The result always has positive sides: the crop size is rounded up to
// a whole pixel and the origin down, so even a sub-pixel box yields at
// least a 1x1 rectangle inside the image.
func ComputeCrop(box faces.BoundingBox, dims PixelDimensions, padding float64) CropRectangle {
	faceCenterX := box.X + box.Width/2
	faceCenterY := box.Y + box.Height/2
	cropSize := math.Ceil(math.Max(box.Width, box.Height) * padding)

	x := int(math.Max(0, faceCenterX-cropSize/2))
	y := int(math.Max(0, faceCenterY-cropSize/2))

	return CropRectangle{
		X:      x,
		Y:      y,
		Width:  int(math.Min(cropSize, float64(dims.Width-x))),
		Height: int(math.Min(cropSize, float64(dims.Height-y))),
	}
}
