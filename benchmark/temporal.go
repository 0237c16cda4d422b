package benchmark

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"

	"github.com/naolab/cambench/video"
)

// DefaultTemporalDuration is the wall-clock length of one temporal pass.
const DefaultTemporalDuration = 30 * time.Second

// TemporalSampler polls frames for a fixed duration and records their
// arrival timing. The loop is deliberately sequential and blocking: one
// subscription, one outstanding fetch, so the measured intervals reflect
// the stream's delivery behavior rather than local queuing.
type TemporalSampler struct {
	// Duration is the wall-clock sampling window.
	Duration time.Duration
	// MinIntervals is the minimum number of observed intervals required
	// to produce a result.
	MinIntervals int
	// Camera selects the camera channel to subscribe to.
	Camera int
}

// NewTemporalSampler returns a sampler with default thresholds.
func NewTemporalSampler() *TemporalSampler {
	return &TemporalSampler{
		Duration:     DefaultTemporalDuration,
		MinIntervals: DefaultMinIntervals,
		Camera:       video.CameraTop,
	}
}

// Run subscribes to the configured feed and samples frame arrivals until
// the duration elapses. Nil frames and fetch errors are counted as drops
// and the loop continues. It returns (nil, nil) when too few intervals were
// observed for meaningful statistics, and an error only for subscription
// failure or cancellation.
func (s *TemporalSampler) Run(ctx context.Context, svc video.Service, cfg Config) (*TemporalResult, error) {
	id, err := svc.Subscribe(cfg.SubscriptionName(), video.SubscribeParams{
		Camera:     s.Camera,
		Resolution: cfg.Resolution,
		Colorspace: video.ColorspaceRGB,
		FPS:        cfg.TargetFPS,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "subscribe %s", cfg.Label)
	}
	defer func() {
		// Cleanup failures are deliberately swallowed.
		_ = svc.Unsubscribe(id)
	}()

	var startMem runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&startMem)

	var (
		timestamps []float64
		intervals  []float64
		last       time.Time
		frames     int
		errs       int
	)

	start := time.Now()
	deadline := start.Add(s.Duration)

	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		frame, err := svc.GetFrame(ctx, id)
		arrival := time.Now()
		if err != nil || frame == nil {
			errs++
			continue
		}

		timestamps = append(timestamps, arrival.Sub(start).Seconds())
		frames++

		if !last.IsZero() {
			intervals = append(intervals, arrival.Sub(last).Seconds())
		}
		last = arrival
	}
	elapsed := time.Since(start)

	var endMem runtime.MemStats
	runtime.ReadMemStats(&endMem)

	result := ComputeTemporalResult(cfg, elapsed, frames, errs, timestamps, intervals, s.MinIntervals)
	if result == nil {
		return nil, nil
	}

	result.Memory = MemoryMetrics{
		AllocBytes:      endMem.Alloc,
		TotalAllocBytes: endMem.TotalAlloc - startMem.TotalAlloc,
		SysBytes:        endMem.Sys,
		NumGC:           endMem.NumGC - startMem.NumGC,
	}
	return result, nil
}
