// Package capture owns the kiosk camera device: at most one active stream,
// released on every exit path from capture mode.
package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	// DefaultSettleDelay gives the preview a moment to stabilize before the
	// still frame is grabbed.
	DefaultSettleDelay = 500 * time.Millisecond
	DefaultJPEGQuality = 90
)

// ErrPermissionDenied covers both an OS-level permission refusal and an
// unavailable device; the flow treats them the same way (camera stays off,
// session continues).
var ErrPermissionDenied = errors.New("camera permission denied or device unavailable")

// ErrNotActive is returned when a frame is requested without an active stream.
var ErrNotActive = errors.New("capture device is not active")

// Device abstracts the physical camera so the manager can be exercised
// without hardware.
type Device interface {
	Open() error
	Close() error
	ReadFrame() (image.Image, error)
	IsOpen() bool
}

// Manager sequences camera activation, still-frame capture and release.
type Manager struct {
	device Device
	log    *logrus.Logger

	mu      sync.Mutex
	active  bool
	settle  time.Duration
	quality int
}

func NewManager(device Device, log *logrus.Logger) *Manager {
	return &Manager{
		device:  device,
		log:     log,
		settle:  DefaultSettleDelay,
		quality: DefaultJPEGQuality,
	}
}

// Activate opens the device and binds the stream. A refusal is reported as
// ErrPermissionDenied and leaves the manager inactive; the caller stays on
// the selection screen.
func (m *Manager) Activate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active {
		return nil
	}

	if err := m.device.Open(); err != nil {
		m.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Camera activation failed, capture disabled for this session")
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	m.active = true
	m.log.Debug("Camera stream active")
	return nil
}

// Deactivate stops the stream. It is idempotent and safe to call on every
// exit path, including when no stream was ever opened.
func (m *Manager) Deactivate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return
	}

	if err := m.device.Close(); err != nil {
		m.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Failed to release camera device")
	}
	m.active = false
	m.log.Debug("Camera stream released")
}

// Active reports whether a stream is currently bound.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Capture waits out the settle delay, grabs one frame at the device's
// native resolution and returns it JPEG-encoded. Repeated calls simply
// produce a fresh frame.
func (m *Manager) Capture(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return nil, ErrNotActive
	}

	select {
	case <-time.After(m.settle):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	frame, err := m.device.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: m.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	bounds := frame.Bounds()
	m.log.WithFields(logrus.Fields{
		"width":  bounds.Dx(),
		"height": bounds.Dy(),
		"bytes":  buf.Len(),
	}).Debug("Captured still frame")

	return buf.Bytes(), nil
}

// SetSettleDelay overrides the pre-capture delay. Values below zero are
// ignored.
func (m *Manager) SetSettleDelay(d time.Duration) {
	if d < 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settle = d
}
