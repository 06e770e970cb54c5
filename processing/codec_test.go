package processing

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func newTestJPEG(t *testing.T, width, height int) Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	buf := bytes.Buffer{}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return Buffer{Data: buf.Bytes(), MimeType: "image/jpeg"}
}

func TestDecodeDimensions(t *testing.T) {
	buf := newTestJPEG(t, 320, 200)
	dims, err := DecodeDimensions(buf)
	if err != nil {
		t.Fatalf("DecodeDimensions: %v", err)
	}
	if dims.Width != 320 || dims.Height != 200 {
		t.Errorf("dims = %+v, want 320x200", dims)
	}

	// PNG as well, upload mime is not trusted anyway
	img := image.NewRGBA(image.Rect(0, 0, 12, 34))
	pngBuf := bytes.Buffer{}
	if err = png.Encode(&pngBuf, img); err != nil {
		t.Fatal(err)
	}
	dims, err = DecodeDimensions(Buffer{Data: pngBuf.Bytes(), MimeType: "image/png"})
	if err != nil {
		t.Fatalf("DecodeDimensions(png): %v", err)
	}
	if dims.Width != 12 || dims.Height != 34 {
		t.Errorf("dims = %+v, want 12x34", dims)
	}
}

func TestDecodeDimensions_Malformed(t *testing.T) {
	_, err := DecodeDimensions(Buffer{Data: []byte("this is not an image")})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", err)
	}
}

func TestCrop(t *testing.T) {
	buf := newTestJPEG(t, 400, 300)
	img, err := decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Crop(img, CropRectangle{X: 50, Y: 40, Width: 120, Height: 100})
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if out.MimeType != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", out.MimeType)
	}
	dims, err := DecodeDimensions(out)
	if err != nil {
		t.Fatalf("decoding crop output: %v", err)
	}
	if dims.Width != 120 || dims.Height != 100 {
		t.Errorf("crop output = %+v, want 120x100", dims)
	}
}

func TestCrop_EmptyRectangle(t *testing.T) {
	buf := newTestJPEG(t, 100, 100)
	img, err := decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = Crop(img, CropRectangle{X: 10, Y: 10, Width: 0, Height: 0}); !errors.Is(err, ErrRender) {
		t.Errorf("error = %v, want ErrRender", err)
	}
}
