package capture

import (
	"errors"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Webcam is the GoCV-backed Device for real kiosk hardware.
type Webcam struct {
	deviceID int

	mu      sync.Mutex
	stream  *gocv.VideoCapture
	running bool
}

func NewWebcam(deviceID int) *Webcam {
	return &Webcam{deviceID: deviceID}
}

func (w *Webcam) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	stream, err := gocv.OpenVideoCapture(w.deviceID)
	if err != nil {
		return err
	}

	w.stream = stream
	w.running = true
	return nil
}

func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running || w.stream == nil {
		w.running = false
		return nil
	}

	err := w.stream.Close()
	w.stream = nil
	w.running = false
	return err
}

// ReadFrame grabs one frame at the device's native resolution and converts
// it to an image.Image for encoding.
func (w *Webcam) ReadFrame() (image.Image, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running || w.stream == nil {
		return nil, ErrNotActive
	}

	mat := gocv.NewMat()
	defer mat.Close()

	if ok := w.stream.Read(&mat); !ok {
		return nil, errors.New("failed to read frame from camera")
	}
	if mat.Empty() {
		return nil, errors.New("captured frame is empty")
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (w *Webcam) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
