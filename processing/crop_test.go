package processing

import (
	"testing"

	"poster/faces"
)

func TestComputeCrop(t *testing.T) {
	dims := PixelDimensions{Width: 1000, Height: 800}
	tests := []struct {
		name    string
		box     faces.BoundingBox
		padding float64
		want    CropRectangle
	}{
		{
			"interior face, square crop",
			faces.BoundingBox{X: 400, Y: 300, Width: 120, Height: 160},
			1.8,
			CropRectangle{X: 316, Y: 236, Width: 288, Height: 288},
		},
		{
			"face near top-left corner, clamped but still square",
			faces.BoundingBox{X: 10, Y: 10, Width: 100, Height: 100},
			1.8,
			CropRectangle{X: 0, Y: 0, Width: 180, Height: 180},
		},
		{
			"face near right edge, width clipped",
			faces.BoundingBox{X: 940, Y: 300, Width: 40, Height: 60},
			1.8,
			CropRectangle{X: 906, Y: 276, Width: 94, Height: 108},
		},
		{
			"face near bottom-right corner, clipped both ways",
			faces.BoundingBox{X: 900, Y: 700, Width: 80, Height: 80},
			1.8,
			CropRectangle{X: 868, Y: 668, Width: 132, Height: 132},
		},
		{
			"no padding keeps the larger face side",
			faces.BoundingBox{X: 400, Y: 300, Width: 120, Height: 160},
			1.0,
			CropRectangle{X: 380, Y: 300, Width: 160, Height: 160},
		},
		{
			"sub-pixel box still yields a crop",
			faces.BoundingBox{X: 10, Y: 10, Width: 0.4, Height: 0.4},
			1.0,
			CropRectangle{X: 10, Y: 10, Width: 1, Height: 1},
		},
		{
			"fractional box sides round the crop up",
			faces.BoundingBox{X: 400.5, Y: 300.25, Width: 119.5, Height: 159.5},
			1.8,
			CropRectangle{X: 316, Y: 236, Width: 288, Height: 288},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeCrop(tt.box, dims, tt.padding); got != tt.want {
				t.Errorf("ComputeCrop() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Whatever the box position, the crop must stay inside the image with
// positive sides.
func TestComputeCrop_Containment(t *testing.T) {
	dims := PixelDimensions{Width: 640, Height: 480}
	boxes := []faces.BoundingBox{
		{X: 0, Y: 0, Width: 30, Height: 30},
		{X: 610, Y: 0, Width: 30, Height: 30},
		{X: 0, Y: 450, Width: 30, Height: 30},
		{X: 610, Y: 450, Width: 30, Height: 30},
		{X: 300, Y: 220, Width: 40, Height: 40},
		{X: 100, Y: 400, Width: 200, Height: 80},
		{X: 500, Y: 100, Width: 80, Height: 300},
		{X: 0, Y: 0, Width: 640, Height: 480},
		// sub-pixel boxes, including one right at the far corner
		{X: 0.2, Y: 0.2, Width: 0.6, Height: 0.6},
		{X: 639.2, Y: 479.2, Width: 0.5, Height: 0.5},
		{X: 320.7, Y: 240.3, Width: 0.9, Height: 0.4},
	}
	paddings := []float64{1.0, 1.3, 1.8, 2.5, 10}
	for _, box := range boxes {
		for _, padding := range paddings {
			got := ComputeCrop(box, dims, padding)
			if got.X < 0 || got.Y < 0 {
				t.Errorf("box %+v padding %v: negative origin %+v", box, padding, got)
			}
			if got.Width <= 0 || got.Height <= 0 {
				t.Errorf("box %+v padding %v: empty crop %+v", box, padding, got)
			}
			if got.X+got.Width > dims.Width || got.Y+got.Height > dims.Height {
				t.Errorf("box %+v padding %v: crop %+v exceeds %+v", box, padding, got, dims)
			}
		}
	}
}

// When the face center has cropSize/2 of headroom on every side, the
// crop is exactly square.
func TestComputeCrop_SquareWhenInterior(t *testing.T) {
	dims := PixelDimensions{Width: 2000, Height: 2000}
	box := faces.BoundingBox{X: 900, Y: 900, Width: 150, Height: 100}
	got := ComputeCrop(box, dims, 2.0)
	if got.Width != got.Height {
		t.Fatalf("crop %+v not square", got)
	}
	if got.Width != 300 { // max(150,100) * 2.0
		t.Errorf("crop side = %d, want 300", got.Width)
	}
}
