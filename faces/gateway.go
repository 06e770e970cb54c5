package faces

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"os"
	"sync"

	pigo "github.com/esimov/pigo/core"
	"github.com/nfnt/resize"

	"poster/config"
)

// ErrModelLoad means the detection capability could not be fetched or
// initialized. Callers treat it the same as "no face found".
var ErrModelLoad = errors.New("face detection model unavailable")

type readiness uint8

const (
	unloaded readiness = iota
	loading
	loaded
)

// Gateway owns the face detection capability. The pigo cascade is
// fetched and unpacked once per process; concurrent callers attach to
// the in-flight load instead of fetching again.
type Gateway struct {
	mu         sync.Mutex
	state      readiness
	inflight   chan struct{}
	loadErr    error
	classifier *pigo.Pigo

	// load is replaceable in tests
	load       func(ctx context.Context) (*pigo.Pigo, error)
	minQuality float32
	detectSize int
}

func NewGateway() *Gateway {
	g := &Gateway{
		minQuality: float32(config.FACE_MIN_QUALITY),
		detectSize: config.FACE_DETECT_SIZE,
	}
	g.load = g.loadCascade
	return g
}

// EnsureReady makes sure the classifier is usable. It is idempotent:
// once loaded it returns immediately, and a load already in progress is
// joined rather than duplicated. A failed load reverts to unloaded so a
// later call can retry.
func (g *Gateway) EnsureReady(ctx context.Context) error {
	g.mu.Lock()
	if g.state == loaded {
		g.mu.Unlock()
		return nil
	}
	if g.state == loading {
		ch := g.inflight
		g.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrModelLoad, ctx.Err())
		}
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.state == loaded {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrModelLoad, g.loadErr)
	}
	g.state = loading
	ch := make(chan struct{})
	g.inflight = ch
	g.mu.Unlock()

	classifier, err := g.load(ctx)

	g.mu.Lock()
	if err != nil {
		g.state = unloaded
		g.loadErr = err
		log.Printf("Face model load failed: %v", err)
	} else {
		g.state = loaded
		g.classifier = classifier
	}
	close(ch)
	g.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	return nil
}

// DetectPrimaryFace returns the single best face in img, or a not-found
// result when no candidate scores above the quality threshold. Large
// images are downscaled before running the cascade and the winning box
// is scaled back to source coordinates.
func (g *Gateway) DetectPrimaryFace(ctx context.Context, img image.Image) (DetectionResult, error) {
	if err := g.EnsureReady(ctx); err != nil {
		return DetectionResult{}, err
	}
	srcWidth := img.Bounds().Dx()
	srcHeight := img.Bounds().Dy()
	work := img
	scale := 1.0
	if larger := maxInt(srcWidth, srcHeight); g.detectSize > 0 && larger > g.detectSize {
		if srcWidth >= srcHeight {
			work = resize.Resize(uint(g.detectSize), 0, img, resize.Lanczos3)
		} else {
			work = resize.Resize(0, uint(g.detectSize), img, resize.Lanczos3)
		}
		scale = float64(srcWidth) / float64(work.Bounds().Dx())
	}

	src := pigo.ImgToNRGBA(work)
	pixels := pigo.RgbToGrayscale(src)
	cols, rows := src.Bounds().Max.X, src.Bounds().Max.Y
	cParams := pigo.CascadeParams{
		MinSize:     20,
		MaxSize:     maxInt(cols, rows),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}
	dets := g.classifier.RunCascade(cParams, 0.0)
	dets = g.classifier.ClusterDetections(dets, 0.2)

	best, found := selectPrimary(dets, g.minQuality)
	if !found {
		return DetectionResult{}, nil
	}
	side := float64(best.Scale) * scale
	box := BoundingBox{
		X:      float64(best.Col)*scale - side/2,
		Y:      float64(best.Row)*scale - side/2,
		Width:  side,
		Height: side,
	}
	box = box.clampTo(srcWidth, srcHeight)
	if box.Width <= 0 || box.Height <= 0 {
		return DetectionResult{}, nil
	}
	return DetectionResult{Found: true, Box: box}, nil
}

// selectPrimary picks the highest scoring detection at or above minQuality
func selectPrimary(dets []pigo.Detection, minQuality float32) (best pigo.Detection, found bool) {
	for _, det := range dets {
		if det.Q < minQuality {
			continue
		}
		if !found || det.Q > best.Q {
			best = det
			found = true
		}
	}
	return
}

// loadCascade fetches the cascade binary and unpacks the classifier.
// A copy is cached in TMP_DIR so restarts don't hit the network again.
func (g *Gateway) loadCascade(ctx context.Context) (*pigo.Pigo, error) {
	data, err := fetchCascade(ctx)
	if err != nil {
		return nil, err
	}
	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpacking cascade: %w", err)
	}
	return classifier, nil
}

func fetchCascade(ctx context.Context) ([]byte, error) {
	cachePath := config.TMP_DIR + "/facefinder"
	if data, err := os.ReadFile(cachePath); err == nil && len(data) > 0 {
		return data, nil
	}
	log.Printf("Fetching face cascade from %s", config.FACE_CASCADE_URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.FACE_CASCADE_URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching cascade: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if err = os.WriteFile(cachePath, data, 0666); err != nil {
		// Cache miss on next start, not fatal
		log.Printf("Cannot cache cascade file: %v", err)
	}
	return data, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
