// Package benchmark measures delivery timing and image stability of a
// subscription-based camera stream. A run executes a temporal sampling pass
// over every configuration, a spatial pass over the VGA configurations, and
// writes JSON, CSV and text reports of the collected statistics.
package benchmark

import (
	"fmt"

	"github.com/naolab/cambench/video"
)

// Config is one benchmark configuration: a camera resolution index paired
// with a target frame rate.
type Config struct {
	Label      string `json:"label"`
	Resolution int    `json:"resolution_idx"`
	TargetFPS  int    `json:"target_fps"`
}

// DefaultConfigs returns the standard benchmark matrix. Order matters for
// reporting: VGA first, then QVGA, each at 15 and 30 fps.
func DefaultConfigs() []Config {
	return []Config{
		{Label: "VGA_15fps", Resolution: video.ResolutionVGA, TargetFPS: 15},
		{Label: "VGA_30fps", Resolution: video.ResolutionVGA, TargetFPS: 30},
		{Label: "QVGA_15fps", Resolution: video.ResolutionQVGA, TargetFPS: 15},
		{Label: "QVGA_30fps", Resolution: video.ResolutionQVGA, TargetFPS: 30},
	}
}

// SubscriptionName returns the subscription identifier requested from the
// video service for this configuration.
func (c Config) SubscriptionName() string {
	return fmt.Sprintf("benchmark_%d_%d", c.Resolution, c.TargetFPS)
}

// ExpectedInterval returns the theoretical inter-frame interval in seconds
// implied by the target frame rate.
func (c Config) ExpectedInterval() float64 {
	if c.TargetFPS <= 0 {
		return 0
	}
	return 1.0 / float64(c.TargetFPS)
}

// String returns a human-readable summary of the configuration.
func (c Config) String() string {
	return fmt.Sprintf("%s (%s @ %d fps)", c.Label, video.ResolutionName(c.Resolution), c.TargetFPS)
}
