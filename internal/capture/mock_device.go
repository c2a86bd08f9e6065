package capture

import (
	"errors"
	"image"
	"image/color"
	"sync"
)

// MockDevice is a Device stand-in for tests: it serves a generated frame
// and can be told to refuse opening or reading.
type MockDevice struct {
	mu      sync.Mutex
	running bool
	OpenErr error
	ReadErr error
	Width   int
	Height  int
	closes  int
	opens   int
}

func NewMockDevice() *MockDevice {
	return &MockDevice{Width: 640, Height: 480}
}

func (d *MockDevice) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.OpenErr != nil {
		return d.OpenErr
	}
	d.running = true
	d.opens++
	return nil
}

func (d *MockDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = false
	d.closes++
	return nil
}

func (d *MockDevice) ReadFrame() (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil, errors.New("camera not open")
	}
	if d.ReadErr != nil {
		return nil, d.ReadErr
	}

	img := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
	for y := 0; y < d.Height; y += 16 {
		for x := 0; x < d.Width; x += 16 {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img, nil
}

func (d *MockDevice) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// CloseCount reports how many times Close was called.
func (d *MockDevice) CloseCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}
