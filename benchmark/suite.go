package benchmark

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/naolab/cambench/images"
	"github.com/naolab/cambench/video"
)

// DefaultSnapshotWidth is the thumbnail width for per-configuration
// snapshot images.
const DefaultSnapshotWidth = 160

// Suite runs the full benchmark: a temporal pass over every configuration
// followed by a spatial pass over the VGA configurations, then report
// generation.
type Suite struct {
	svc           video.Service
	configs       []Config
	outputDir     string
	address       string
	temporal      *TemporalSampler
	spatial       *SpatialSampler
	snapshotWidth uint

	mu              sync.RWMutex
	temporalResults []TemporalResult
	spatialResults  []SpatialResult
}

// SuiteArgs represents the arguments for creating a benchmark suite.
type SuiteArgs struct {
	// Service is the frame source to benchmark.
	Service video.Service
	// Configs is the configuration matrix; DefaultConfigs() when empty.
	Configs []Config
	// OutputDir receives all report files.
	OutputDir string
	// Address is recorded in the report for traceability.
	Address string
	// Temporal overrides the temporal sampler; defaults apply when nil.
	Temporal *TemporalSampler
	// Spatial overrides the spatial sampler; defaults apply when nil.
	Spatial *SpatialSampler
	// SnapshotWidth is the thumbnail width for snapshots; 0 uses the default.
	SnapshotWidth uint
}

// NewSuite creates a benchmark suite.
func NewSuite(args SuiteArgs) *Suite {
	configs := args.Configs
	if len(configs) == 0 {
		configs = DefaultConfigs()
	}
	temporal := args.Temporal
	if temporal == nil {
		temporal = NewTemporalSampler()
	}
	spatial := args.Spatial
	if spatial == nil {
		spatial = NewSpatialSampler()
	}
	snapshotWidth := args.SnapshotWidth
	if snapshotWidth == 0 {
		snapshotWidth = DefaultSnapshotWidth
	}

	return &Suite{
		svc:           args.Service,
		configs:       configs,
		outputDir:     args.OutputDir,
		address:       args.Address,
		temporal:      temporal,
		spatial:       spatial,
		snapshotWidth: snapshotWidth,
	}
}

// Run executes all passes and writes the reports. Subscription failures
// skip the affected configuration; a cancelled context aborts the run after
// the sampler's best-effort unsubscribe.
func (s *Suite) Run(ctx context.Context) (*Report, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}
	stamp := time.Now().Format("20060102_150405")

	var snapshots []string

	for _, cfg := range s.configs {
		log.Printf("Testing %s...", cfg)

		result, err := s.temporal.Run(ctx, s.svc, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("Temporal test %s failed: %v", cfg.Label, err)
			continue
		}
		if result == nil {
			log.Printf("Temporal test %s: too few intervals, skipping", cfg.Label)
			continue
		}

		s.mu.Lock()
		s.temporalResults = append(s.temporalResults, *result)
		s.mu.Unlock()

		log.Printf("  %s: %.1f fps actual, %.1fms jitter",
			cfg.Label, result.ActualFPS, result.JitterRMS*1000)
	}

	for _, cfg := range s.configs {
		if cfg.Resolution != video.ResolutionVGA {
			continue
		}
		log.Printf("Spatial test %s...", cfg)

		result, snapshot, err := s.spatial.Run(ctx, s.svc, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("Spatial test %s failed: %v", cfg.Label, err)
			continue
		}
		if result == nil {
			log.Printf("Spatial test %s: too few frames, skipping", cfg.Label)
			continue
		}

		s.mu.Lock()
		s.spatialResults = append(s.spatialResults, *result)
		s.mu.Unlock()

		log.Printf("  %s spatial: %.4f stability", cfg.Label, result.StabilityMetric)

		if snapshot != nil {
			path, err := s.writeSnapshot(cfg, snapshot, stamp)
			if err != nil {
				log.Printf("Snapshot %s failed: %v", cfg.Label, err)
			} else {
				snapshots = append(snapshots, path)
			}
		}
	}

	report := &Report{
		Timestamp: stamp,
		Address:   s.address,
		Temporal:  s.TemporalResults(),
		Spatial:   s.SpatialResults(),
	}

	files, err := report.Save(s.outputDir)
	if err != nil {
		return nil, err
	}
	files.Snapshots = snapshots
	report.Files = *files

	log.Printf("Results saved to: %s", s.outputDir)
	log.Printf("  - JSON data: %s", files.JSON)
	if files.TemporalCSV != "" {
		log.Printf("  - CSV data: %s", files.TemporalCSV)
	}
	log.Printf("  - Summary: %s", files.Summary)

	return report, nil
}

// TemporalResults returns a copy of the accumulated temporal results.
func (s *Suite) TemporalResults() []TemporalResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]TemporalResult, len(s.temporalResults))
	copy(results, s.temporalResults)
	return results
}

// SpatialResults returns a copy of the accumulated spatial results.
func (s *Suite) SpatialResults() []SpatialResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]SpatialResult, len(s.spatialResults))
	copy(results, s.spatialResults)
	return results
}

func (s *Suite) writeSnapshot(cfg Config, frame *video.Frame, stamp string) (string, error) {
	path := filepath.Join(s.outputDir, fmt.Sprintf("snapshot_%s_%s.png", cfg.Label, stamp))

	file, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create snapshot file")
	}
	defer file.Close()

	err = images.WriteThumbnail(file, frame.Data, frame.Width, frame.Height, frame.Channels, s.snapshotWidth)
	if err != nil {
		return "", errors.Wrap(err, "write snapshot")
	}
	return path, nil
}
