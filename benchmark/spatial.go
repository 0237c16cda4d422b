package benchmark

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/naolab/cambench/images"
	"github.com/naolab/cambench/video"
)

// DefaultSpatialDuration is the wall-clock cap of one spatial pass; the
// pass also ends once MaxFrames frames have been collected.
const DefaultSpatialDuration = 15 * time.Second

// SpatialSampler polls frames, converts them to grayscale, and measures
// consecutive-frame pixel differences.
type SpatialSampler struct {
	// Duration is the wall-clock sampling cap.
	Duration time.Duration
	// MaxFrames stops the pass early once this many frames were analyzed.
	MaxFrames int
	// MinFrames is the minimum number of analyzed frames required to
	// produce a result.
	MinFrames int
	// Camera selects the camera channel to subscribe to.
	Camera int
}

// NewSpatialSampler returns a sampler with default thresholds.
func NewSpatialSampler() *SpatialSampler {
	return &SpatialSampler{
		Duration:  DefaultSpatialDuration,
		MaxFrames: DefaultMaxSpatialFrames,
		MinFrames: DefaultMinSpatialFrames,
		Camera:    video.CameraTop,
	}
}

// Run subscribes to the configured feed and collects frame differences
// until the duration elapses or MaxFrames frames were analyzed. Frames
// that fail to fetch or decode are skipped. It returns the statistics plus
// the first successfully decoded frame (for snapshot output); the result is
// (nil, nil, nil) when too few frames were collected.
func (s *SpatialSampler) Run(ctx context.Context, svc video.Service, cfg Config) (*SpatialResult, *video.Frame, error) {
	id, err := svc.Subscribe(cfg.SubscriptionName(), video.SubscribeParams{
		Camera:     s.Camera,
		Resolution: cfg.Resolution,
		Colorspace: video.ColorspaceRGB,
		FPS:        cfg.TargetFPS,
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "subscribe %s", cfg.Label)
	}
	defer func() {
		_ = svc.Unsubscribe(id)
	}()

	var (
		prevGray []byte
		diffs    []float64
		first    *video.Frame
		analyzed int
	)

	deadline := time.Now().Add(s.Duration)
	for time.Now().Before(deadline) && analyzed < s.MaxFrames {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}

		frame, err := svc.GetFrame(ctx, id)
		if err != nil || frame == nil {
			continue
		}

		gray, err := images.Grayscale(frame.Data, frame.Width, frame.Height, frame.Channels)
		if err != nil {
			continue
		}

		analyzed++
		if first == nil {
			first = frame
		}

		if prevGray != nil && len(prevGray) == len(gray) {
			diff, err := images.MeanAbsDiff(prevGray, gray)
			if err == nil {
				diffs = append(diffs, diff)
			}
		}
		prevGray = gray
	}

	result := ComputeSpatialResult(cfg, analyzed, diffs, s.MinFrames)
	if result == nil {
		return nil, nil, nil
	}
	return result, first, nil
}
