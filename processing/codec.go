package processing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// JPEG quality for re-encoded crops. High enough to avoid visible
// artifacts on poster-sized output.
const cropQuality = 95

var (
	ErrDecode = errors.New("image could not be decoded")
	ErrRender = errors.New("cropped image could not be rendered")
)

// Buffer is an encoded image with its mime type. Contents are treated
// as immutable once created.
type Buffer struct {
	Data     []byte
	MimeType string
}

type PixelDimensions struct {
	Width  int
	Height int
}

// CropRectangle is always fully inside its source image with positive sides.
type CropRectangle struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Outcome is the pipeline result. On any failure Image carries the
// original input bytes and FaceDetected is false.
type Outcome struct {
	Image        Buffer
	FaceDetected bool
}

func decode(buf Buffer) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(buf.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// DecodeDimensions returns the true raster size of the encoded image.
// Upload-time metadata is not trusted.
func DecodeDimensions(buf Buffer) (PixelDimensions, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf.Data))
	if err != nil {
		return PixelDimensions{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return PixelDimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

// Crop copies rect out of img and re-encodes the result as JPEG.
func Crop(img image.Image, rect CropRectangle) (Buffer, error) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return Buffer{}, fmt.Errorf("%w: empty crop rectangle", ErrRender)
	}
	cropped := imaging.Crop(img, image.Rect(rect.X, rect.Y, rect.X+rect.Width, rect.Y+rect.Height))
	if cropped.Bounds().Empty() {
		return Buffer{}, fmt.Errorf("%w: crop rectangle outside image", ErrRender)
	}
	out := bytes.Buffer{}
	if err := jpeg.Encode(&out, cropped, &jpeg.Options{Quality: cropQuality}); err != nil {
		return Buffer{}, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return Buffer{Data: out.Bytes(), MimeType: "image/jpeg"}, nil
}
