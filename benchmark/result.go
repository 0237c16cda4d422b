package benchmark

import "time"

// Default sampling thresholds. A temporal run with fewer intervals, or a
// spatial run with fewer frames, yields no result at all rather than a
// statistically meaningless one.
const (
	DefaultMinIntervals     = 5
	DefaultMinSpatialFrames = 20
	DefaultMaxSpatialFrames = 100
)

// TemporalResult holds the raw samples and derived statistics of one
// temporal sampling pass. The JSON field names follow the established
// benchmark data schema so downstream analysis notebooks keep working.
type TemporalResult struct {
	Config           string    `json:"config"`
	ResolutionIdx    int       `json:"resolution_idx"`
	TargetFPS        int       `json:"target_fps"`
	Duration         float64   `json:"duration"`
	FramesCaptured   int       `json:"frames_captured"`
	Errors           int       `json:"errors"`
	ExpectedInterval float64   `json:"expected_interval"`
	Intervals        []float64 `json:"intervals"`
	Timestamps       []float64 `json:"timestamps"`

	MeanInterval      float64 `json:"mean_interval"`
	StdInterval       float64 `json:"std_interval"`
	MinInterval       float64 `json:"min_interval"`
	MaxInterval       float64 `json:"max_interval"`
	JitterRMS         float64 `json:"jitter_rms"`
	JitterP2P         float64 `json:"jitter_p2p"`
	CVPercent         float64 `json:"cv_percent"`
	ActualFPS         float64 `json:"actual_fps"`
	EfficiencyPercent float64 `json:"efficiency_percent"`
	DropRatePercent   float64 `json:"drop_rate_percent"`

	Memory MemoryMetrics `json:"memory_stats"`
}

// SpatialResult holds the derived statistics of one spatial sampling pass.
type SpatialResult struct {
	Config          string  `json:"config"`
	FramesAnalyzed  int     `json:"frames_analyzed"`
	MeanFrameDiff   float64 `json:"mean_frame_diff"`
	StdFrameDiff    float64 `json:"std_frame_diff"`
	MaxFrameDiff    float64 `json:"max_frame_diff"`
	StabilityMetric float64 `json:"spatial_stability_metric"`
}

// MemoryMetrics captures the allocation delta of one sampling pass.
type MemoryMetrics struct {
	AllocBytes      uint64 `json:"alloc_bytes"`
	TotalAllocBytes uint64 `json:"total_alloc_bytes"`
	SysBytes        uint64 `json:"sys_bytes"`
	NumGC           uint32 `json:"num_gc"`
}

// ComputeTemporalResult derives the full temporal statistics from the raw
// samples of one pass. It returns nil when fewer than minIntervals
// inter-frame intervals were observed.
func ComputeTemporalResult(
	cfg Config,
	duration time.Duration,
	framesCaptured, errs int,
	timestamps, intervals []float64,
	minIntervals int,
) *TemporalResult {
	if minIntervals <= 0 {
		minIntervals = DefaultMinIntervals
	}
	if len(intervals) < minIntervals {
		return nil
	}

	meanInterval := Mean(intervals)
	minInterval := Min(intervals)
	maxInterval := Max(intervals)
	expected := cfg.ExpectedInterval()

	result := &TemporalResult{
		Config:           cfg.Label,
		ResolutionIdx:    cfg.Resolution,
		TargetFPS:        cfg.TargetFPS,
		Duration:         duration.Seconds(),
		FramesCaptured:   framesCaptured,
		Errors:           errs,
		ExpectedInterval: expected,
		Intervals:        intervals,
		Timestamps:       timestamps,
		MeanInterval:     meanInterval,
		StdInterval:      StdDev(intervals),
		MinInterval:      minInterval,
		MaxInterval:      maxInterval,
		JitterRMS:        RMSDeviation(intervals, expected),
		JitterP2P:        maxInterval - minInterval,
	}

	if meanInterval > 0 {
		result.CVPercent = result.StdInterval / meanInterval * 100
		result.ActualFPS = 1.0 / meanInterval
	}
	if cfg.TargetFPS > 0 {
		result.EfficiencyPercent = result.ActualFPS / float64(cfg.TargetFPS) * 100
	}
	result.DropRatePercent = DropRatePercent(framesCaptured, errs)

	return result
}

// DropRatePercent returns errors as a percentage of all fetch attempts.
func DropRatePercent(frames, errs int) float64 {
	total := frames + errs
	if total == 0 {
		return 0
	}
	return float64(errs) / float64(total) * 100
}

// ComputeSpatialResult derives the spatial stability statistics from the
// consecutive-frame difference magnitudes of one pass. It returns nil when
// fewer than minFrames frames were analyzed.
func ComputeSpatialResult(cfg Config, framesAnalyzed int, diffs []float64, minFrames int) *SpatialResult {
	if minFrames <= 0 {
		minFrames = DefaultMinSpatialFrames
	}
	if framesAnalyzed < minFrames {
		return nil
	}

	meanDiff := Mean(diffs)
	return &SpatialResult{
		Config:          cfg.Label,
		FramesAnalyzed:  framesAnalyzed,
		MeanFrameDiff:   meanDiff,
		StdFrameDiff:    StdDev(diffs),
		MaxFrameDiff:    Max(diffs),
		StabilityMetric: StabilityScore(meanDiff),
	}
}

// StabilityScore maps a mean frame difference to the (0,1] stability
// metric: 1 for perfectly static frames, approaching 0 as average change
// grows.
func StabilityScore(meanDiff float64) float64 {
	return 1.0 / (1.0 + meanDiff)
}
