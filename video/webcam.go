package video

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// WebcamClient implements Service on top of a local capture device via
// gocv. It exists so the benchmark can be exercised without a robot on the
// network: the same sampling loop runs against whatever camera the host has.
//
// FPS from SubscribeParams is applied as a capture property but most UVC
// devices ignore it; the measured jitter then reflects the device's own
// delivery behavior, which is the point.
type WebcamClient struct {
	deviceID int

	mu      sync.Mutex
	capture *gocv.VideoCapture
	subID   string
	seq     uint64
	bgr     gocv.Mat
	rgb     gocv.Mat
}

// NewWebcamClient opens the capture device with the given id.
func NewWebcamClient(deviceID int) (*WebcamClient, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, &ConnectionError{
			Addr: fmt.Sprintf("webcam:%d", deviceID),
			Err:  err,
		}
	}

	return &WebcamClient{
		deviceID: deviceID,
		capture:  capture,
		bgr:      gocv.NewMat(),
		rgb:      gocv.NewMat(),
	}, nil
}

// Subscribe applies the requested resolution and frame rate to the capture
// device and returns a synthetic subscription id.
func (w *WebcamClient) Subscribe(name string, params SubscribeParams) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	res, err := ResolutionByIndex(params.Resolution)
	if err != nil {
		return "", err
	}

	w.capture.Set(gocv.VideoCaptureFrameWidth, float64(res.Width))
	w.capture.Set(gocv.VideoCaptureFrameHeight, float64(res.Height))
	if params.FPS > 0 {
		w.capture.Set(gocv.VideoCaptureFPS, float64(params.FPS))
	}

	w.subID = fmt.Sprintf("%s_dev%d", name, w.deviceID)
	return w.subID, nil
}

// GetFrame reads one frame from the device and converts it to packed RGB.
func (w *WebcamClient) GetFrame(ctx context.Context, id string) (*Frame, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if id == "" || id != w.subID {
		return nil, errors.Errorf("unknown subscription id %q", id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if ok := w.capture.Read(&w.bgr); !ok {
		return nil, errors.Errorf("cannot read device %d", w.deviceID)
	}
	if w.bgr.Empty() {
		return nil, nil
	}

	gocv.CvtColor(w.bgr, &w.rgb, gocv.ColorBGRToRGB)
	data := w.rgb.ToBytes()
	buf := make([]byte, len(data))
	copy(buf, data)

	w.seq++
	return &Frame{
		Seq:       w.seq,
		Width:     w.rgb.Cols(),
		Height:    w.rgb.Rows(),
		Channels:  w.rgb.Channels(),
		Timestamp: time.Now(),
		Data:      buf,
	}, nil
}

// Unsubscribe clears the active subscription. The device stays open so the
// next configuration can subscribe without re-enumerating hardware.
func (w *WebcamClient) Unsubscribe(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if id == "" || id != w.subID {
		return errors.Errorf("unknown subscription id %q", id)
	}
	w.subID = ""
	return nil
}

// Close releases the capture device and scratch mats.
func (w *WebcamClient) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.bgr.Close()
	w.rgb.Close()
	return w.capture.Close()
}
