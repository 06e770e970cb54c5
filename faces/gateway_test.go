package faces

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	pigo "github.com/esimov/pigo/core"
)

func newTestGateway(load func(ctx context.Context) (*pigo.Pigo, error)) *Gateway {
	return &Gateway{
		load:       load,
		minQuality: 5.0,
		detectSize: 640,
	}
}

func TestGateway_EnsureReadyLoadsOnce(t *testing.T) {
	var loads int32
	g := newTestGateway(func(ctx context.Context) (*pigo.Pigo, error) {
		atomic.AddInt32(&loads, 1)
		return pigo.NewPigo(), nil
	})
	for i := 0; i < 5; i++ {
		if err := g.EnsureReady(context.Background()); err != nil {
			t.Fatalf("EnsureReady call %d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&loads); n != 1 {
		t.Errorf("load performed %d times, want 1", n)
	}
	if g.state != loaded {
		t.Errorf("state = %d, want loaded", g.state)
	}
}

func TestGateway_EnsureReadyConcurrentJoin(t *testing.T) {
	var loads int32
	started := make(chan struct{})
	release := make(chan struct{})
	g := newTestGateway(func(ctx context.Context) (*pigo.Pigo, error) {
		atomic.AddInt32(&loads, 1)
		close(started)
		<-release
		return pigo.NewPigo(), nil
	})

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = g.EnsureReady(context.Background())
		}(i)
	}
	<-started
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&loads); n != 1 {
		t.Errorf("load performed %d times, want 1", n)
	}
}

func TestGateway_EnsureReadyRetriesAfterFailure(t *testing.T) {
	var loads int32
	g := newTestGateway(func(ctx context.Context) (*pigo.Pigo, error) {
		if atomic.AddInt32(&loads, 1) == 1 {
			return nil, errors.New("asset fetch failed")
		}
		return pigo.NewPigo(), nil
	})

	err := g.EnsureReady(context.Background())
	if !errors.Is(err, ErrModelLoad) {
		t.Fatalf("first EnsureReady error = %v, want ErrModelLoad", err)
	}
	if g.state != unloaded {
		t.Fatalf("state after failed load = %d, want unloaded", g.state)
	}
	if err = g.EnsureReady(context.Background()); err != nil {
		t.Fatalf("second EnsureReady: %v", err)
	}
	if g.state != loaded {
		t.Errorf("state = %d, want loaded", g.state)
	}
}

func TestSelectPrimary(t *testing.T) {
	dets := []pigo.Detection{
		{Row: 100, Col: 100, Scale: 80, Q: 4.9},
		{Row: 200, Col: 200, Scale: 90, Q: 12.5},
		{Row: 300, Col: 300, Scale: 70, Q: 7.1},
	}
	best, found := selectPrimary(dets, 5.0)
	if !found {
		t.Fatal("expected a detection")
	}
	if best.Q != 12.5 {
		t.Errorf("best.Q = %v, want 12.5 (highest score wins)", best.Q)
	}

	if _, found = selectPrimary(dets, 50.0); found {
		t.Error("expected no detection above threshold 50")
	}
	if _, found = selectPrimary(nil, 5.0); found {
		t.Error("expected no detection for empty candidate list")
	}
}

func TestBoundingBox_ClampTo(t *testing.T) {
	tests := []struct {
		name string
		box  BoundingBox
		want BoundingBox
	}{
		{
			"interior box untouched",
			BoundingBox{X: 100, Y: 100, Width: 50, Height: 50},
			BoundingBox{X: 100, Y: 100, Width: 50, Height: 50},
		},
		{
			"sticking out top-left",
			BoundingBox{X: -10, Y: -20, Width: 50, Height: 50},
			BoundingBox{X: 0, Y: 0, Width: 40, Height: 30},
		},
		{
			"sticking out bottom-right",
			BoundingBox{X: 380, Y: 280, Width: 50, Height: 50},
			BoundingBox{X: 380, Y: 280, Width: 20, Height: 20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.clampTo(400, 300); got != tt.want {
				t.Errorf("clampTo() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
