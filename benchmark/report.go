package benchmark

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// Report is the complete output document of one benchmark run.
type Report struct {
	Timestamp string           `json:"timestamp"`
	Address   string           `json:"address,omitempty"`
	Temporal  []TemporalResult `json:"temporal_jitter"`
	Spatial   []SpatialResult  `json:"spatial_stability"`
	Files     SavedFiles       `json:"-"`
}

// SavedFiles lists the paths written for one report.
type SavedFiles struct {
	JSON        string
	TemporalCSV string
	SpatialCSV  string
	Summary     string
	Snapshots   []string
}

// Save writes the report under outputDir: the full JSON document, one CSV
// per non-empty result set, and the text summary. File names embed the
// report's run timestamp.
func (r *Report) Save(outputDir string) (*SavedFiles, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}

	files := &SavedFiles{}

	files.JSON = filepath.Join(outputDir, fmt.Sprintf("nao_benchmark_%s.json", r.Timestamp))
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal report")
	}
	if err := os.WriteFile(files.JSON, data, 0o644); err != nil {
		return nil, errors.Wrap(err, "write JSON report")
	}

	if len(r.Temporal) > 0 {
		files.TemporalCSV = filepath.Join(outputDir, fmt.Sprintf("temporal_data_%s.csv", r.Timestamp))
		if err := writeTemporalCSV(files.TemporalCSV, r.Temporal); err != nil {
			return nil, errors.Wrap(err, "write temporal CSV")
		}
	}

	if len(r.Spatial) > 0 {
		files.SpatialCSV = filepath.Join(outputDir, fmt.Sprintf("spatial_data_%s.csv", r.Timestamp))
		if err := writeSpatialCSV(files.SpatialCSV, r.Spatial); err != nil {
			return nil, errors.Wrap(err, "write spatial CSV")
		}
	}

	files.Summary = filepath.Join(outputDir, fmt.Sprintf("summary_%s.txt", r.Timestamp))
	if err := r.writeSummary(files.Summary); err != nil {
		return nil, errors.Wrap(err, "write summary")
	}

	return files, nil
}

func writeTemporalCSV(path string, results []TemporalResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"config", "resolution_idx", "target_fps", "duration",
		"frames_captured", "errors", "expected_interval",
		"mean_interval", "std_interval", "min_interval", "max_interval",
		"jitter_rms", "jitter_p2p", "cv_percent",
		"actual_fps", "efficiency_percent", "drop_rate_percent",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, result := range results {
		row := []string{
			result.Config,
			strconv.Itoa(result.ResolutionIdx),
			strconv.Itoa(result.TargetFPS),
			formatFloat(result.Duration),
			strconv.Itoa(result.FramesCaptured),
			strconv.Itoa(result.Errors),
			formatFloat(result.ExpectedInterval),
			formatFloat(result.MeanInterval),
			formatFloat(result.StdInterval),
			formatFloat(result.MinInterval),
			formatFloat(result.MaxInterval),
			formatFloat(result.JitterRMS),
			formatFloat(result.JitterP2P),
			formatFloat(result.CVPercent),
			formatFloat(result.ActualFPS),
			formatFloat(result.EfficiencyPercent),
			formatFloat(result.DropRatePercent),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeSpatialCSV(path string, results []SpatialResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"config", "frames_analyzed",
		"mean_frame_diff", "std_frame_diff", "max_frame_diff",
		"spatial_stability_metric",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, result := range results {
		row := []string{
			result.Config,
			strconv.Itoa(result.FramesAnalyzed),
			formatFloat(result.MeanFrameDiff),
			formatFloat(result.StdFrameDiff),
			formatFloat(result.MaxFrameDiff),
			formatFloat(result.StabilityMetric),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// writeSummary emits the condensed human-readable run summary.
func (r *Report) writeSummary(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintln(file, "NAO Camera Benchmark Summary")
	fmt.Fprintln(file, "==============================")
	fmt.Fprintln(file)

	fmt.Fprintln(file, "TEMPORAL JITTER RESULTS:")
	for _, result := range r.Temporal {
		fmt.Fprintf(file, "%s: %.1ffps (%.1f%%), Jitter: %.1fms RMS, CV: %.1f%%\n",
			result.Config, result.ActualFPS, result.EfficiencyPercent,
			result.JitterRMS*1000, result.CVPercent)
	}

	if len(r.Spatial) > 0 {
		fmt.Fprintln(file)
		fmt.Fprintln(file, "SPATIAL STABILITY:")
		for _, result := range r.Spatial {
			fmt.Fprintf(file, "%s: Stability %.4f, Frame diff: %.2f±%.2f\n",
				result.Config, result.StabilityMetric,
				result.MeanFrameDiff, result.StdFrameDiff)
		}
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
