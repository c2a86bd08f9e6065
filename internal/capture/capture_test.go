package capture

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestManager(device Device) *Manager {
	m := NewManager(device, newTestLogger())
	m.SetSettleDelay(0)
	return m
}

func TestManager_ActivateCapture(t *testing.T) {
	device := NewMockDevice()
	m := newTestManager(device)

	if err := m.Activate(context.Background()); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}
	if !m.Active() {
		t.Fatal("manager should be active after Activate")
	}

	frame, err := m.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture returned error: %v", err)
	}
	if len(frame) == 0 {
		t.Fatal("captured frame is empty")
	}

	// The blob must be a decodable JPEG at the device's native resolution.
	img, err := jpeg.Decode(bytes.NewReader(frame))
	if err != nil {
		t.Fatalf("captured frame is not a valid JPEG: %v", err)
	}
	if img.Bounds().Dx() != device.Width || img.Bounds().Dy() != device.Height {
		t.Errorf("frame is %dx%d, want native %dx%d",
			img.Bounds().Dx(), img.Bounds().Dy(), device.Width, device.Height)
	}
}

func TestManager_PermissionDenied(t *testing.T) {
	device := NewMockDevice()
	device.OpenErr = errors.New("permission denied by OS")
	m := newTestManager(device)

	err := m.Activate(context.Background())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if m.Active() {
		t.Error("manager must stay inactive after a denied activation")
	}

	// Capture without an active stream must refuse, not crash.
	if _, err := m.Capture(context.Background()); !errors.Is(err, ErrNotActive) {
		t.Errorf("expected ErrNotActive, got %v", err)
	}
}

func TestManager_DeactivateIdempotent(t *testing.T) {
	device := NewMockDevice()
	m := newTestManager(device)

	// Deactivating with no stream active is a no-op.
	m.Deactivate()
	if device.CloseCount() != 0 {
		t.Errorf("device closed %d times without an active stream", device.CloseCount())
	}

	if err := m.Activate(context.Background()); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}

	m.Deactivate()
	m.Deactivate()
	m.Deactivate()

	if device.CloseCount() != 1 {
		t.Errorf("device closed %d times, want exactly 1", device.CloseCount())
	}
	if device.IsOpen() {
		t.Error("device still open after Deactivate")
	}
	if m.Active() {
		t.Error("manager still active after Deactivate")
	}
}

func TestManager_ActivateTwiceKeepsSingleStream(t *testing.T) {
	device := NewMockDevice()
	m := newTestManager(device)

	if err := m.Activate(context.Background()); err != nil {
		t.Fatalf("first Activate returned error: %v", err)
	}
	if err := m.Activate(context.Background()); err != nil {
		t.Fatalf("second Activate returned error: %v", err)
	}

	m.Deactivate()
	if device.CloseCount() != 1 {
		t.Errorf("expected a single owned stream, device closed %d times", device.CloseCount())
	}
}

func TestManager_CaptureCancelledContext(t *testing.T) {
	device := NewMockDevice()
	m := NewManager(device, newTestLogger())

	if err := m.Activate(context.Background()); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Capture(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled during settle delay, got %v", err)
	}
}
