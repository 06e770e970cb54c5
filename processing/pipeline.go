package processing

import (
	"context"
	"image"
	"log"

	"poster/config"
	"poster/faces"
)

// Detector is the capability the pipeline needs from the face
// detection gateway. It is an interface so tests can inject stubs.
type Detector interface {
	DetectPrimaryFace(ctx context.Context, img image.Image) (faces.DetectionResult, error)
}

// Pipeline runs one photo through detect-and-crop. It holds no state
// across invocations; the gateway keeps its own model readiness.
type Pipeline struct {
	detector Detector
	padding  float64
}

func NewPipeline(detector Detector) *Pipeline {
	return &Pipeline{
		detector: detector,
		padding:  config.FACE_CROP_PADDING,
	}
}

// Process never fails outward. Decode, detection or render errors all
// degrade to the original bytes with FaceDetected false, so the caller
// can always show something.
func (p *Pipeline) Process(ctx context.Context, buf Buffer) Outcome {
	fallback := Outcome{Image: buf, FaceDetected: false}

	img, err := decode(buf)
	if err != nil {
		log.Printf("Face pipeline: %v", err)
		return fallback
	}
	dims := PixelDimensions{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}

	detection, err := p.detector.DetectPrimaryFace(ctx, img)
	if err != nil {
		log.Printf("Face pipeline: detection failed: %v", err)
		return fallback
	}
	if !detection.Found {
		return fallback
	}

	rect := ComputeCrop(detection.Box, dims, p.padding)
	cropped, err := Crop(img, rect)
	if err != nil {
		log.Printf("Face pipeline: crop failed: %v", err)
		return fallback
	}
	return Outcome{Image: cropped, FaceDetected: true}
}
