// Package video provides access to remote and local camera frame sources.
//
// The central abstraction is the Service interface, which models the
// subscription-style video API exposed by the NAO frame gateway: a named
// subscription is opened for a camera channel at a given resolution and
// frame rate, frames are then polled one at a time, and the subscription is
// torn down when sampling ends. Three implementations are provided: a TCP
// stream client for the robot gateway, a gocv-backed local webcam source,
// and a directory-replay source for offline runs.
package video

import (
	"context"
	"fmt"
	"time"
)

// Camera channel identifiers as enumerated by the robot.
const (
	CameraTop    = 0
	CameraBottom = 1
)

// Resolution indices as enumerated by the robot.
const (
	ResolutionQQVGA = 0 // 160x120
	ResolutionQVGA  = 1 // 320x240
	ResolutionVGA   = 2 // 640x480
	Resolution4VGA  = 3 // 1280x960
)

// ColorspaceRGB is the packed 8-bit RGB colorspace identifier used for all
// subscriptions. Other vendor colorspaces are not supported.
const ColorspaceRGB = 11

// Frame is a single captured video frame with its raw pixel buffer.
//
// Data is row-major packed RGB888, len(Data) == Width*Height*Channels.
// Timestamp is the local arrival time of the frame, not the sensor exposure
// time; the benchmark measures delivery timing, so arrival is what matters.
type Frame struct {
	Seq       uint64
	Width     int
	Height    int
	Channels  int
	Timestamp time.Time
	Data      []byte
}

// SubscribeParams describe a camera subscription request.
type SubscribeParams struct {
	Camera     int
	Resolution int
	Colorspace int
	FPS        int
}

// Service is a subscription-based frame source.
//
// GetFrame returns (nil, nil) when the source had no frame ready; callers
// treat that the same as a dropped frame. Implementations hold at most one
// active subscription; Subscribe replaces any prior one.
type Service interface {
	// Subscribe registers a named subscription and returns its identifier.
	Subscribe(name string, params SubscribeParams) (string, error)

	// GetFrame fetches the next available frame for the subscription.
	GetFrame(ctx context.Context, id string) (*Frame, error)

	// Unsubscribe tears down the subscription with the given identifier.
	Unsubscribe(id string) error

	// Close releases the underlying session.
	Close() error
}

// ConnectionError indicates a session-level fault: failed dial, broken
// stream, or protocol violation. Any ConnectionError aborts the whole
// benchmark run; per-frame errors are reported as plain errors instead.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("video: connection to %s failed: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
