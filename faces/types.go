package faces

// BoundingBox is an axis-aligned rectangle in source-image pixel
// coordinates marking a detected face.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DetectionResult carries at most one face per detection call.
// Found is false when no candidate scored above the quality threshold.
type DetectionResult struct {
	Found bool        `json:"found"`
	Box   BoundingBox `json:"box"`
}

// clampTo trims the box to [0,width] x [0,height].
// The detector can report boxes that stick out of the image near its edges.
func (b BoundingBox) clampTo(width, height int) BoundingBox {
	w := float64(width)
	h := float64(height)
	if b.X < 0 {
		b.Width += b.X
		b.X = 0
	}
	if b.Y < 0 {
		b.Height += b.Y
		b.Y = 0
	}
	if b.X+b.Width > w {
		b.Width = w - b.X
	}
	if b.Y+b.Height > h {
		b.Height = h - b.Y
	}
	return b
}
