package benchmark

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	return &Report{
		Timestamp: "20250101_120000",
		Address:   "172.15.1.29:9559",
		Temporal: []TemporalResult{
			{
				Config:            "VGA_30fps",
				ResolutionIdx:     2,
				TargetFPS:         30,
				Duration:          30.0,
				FramesCaptured:    880,
				Errors:            5,
				ExpectedInterval:  1.0 / 30.0,
				MeanInterval:      0.0339,
				StdInterval:       0.0021,
				MinInterval:       0.030,
				MaxInterval:       0.041,
				JitterRMS:         0.0022,
				JitterP2P:         0.011,
				CVPercent:         6.2,
				ActualFPS:         29.5,
				EfficiencyPercent: 98.3,
				DropRatePercent:   0.56,
			},
		},
		Spatial: []SpatialResult{
			{
				Config:          "VGA_30fps",
				FramesAnalyzed:  100,
				MeanFrameDiff:   2.41,
				StdFrameDiff:    0.35,
				MaxFrameDiff:    3.9,
				StabilityMetric: 0.2932,
			},
		},
	}
}

func TestReportSaveWritesAllFiles(t *testing.T) {
	dir := t.TempDir()

	files, err := sampleReport().Save(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "nao_benchmark_20250101_120000.json"), files.JSON)
	assert.Equal(t, filepath.Join(dir, "temporal_data_20250101_120000.csv"), files.TemporalCSV)
	assert.Equal(t, filepath.Join(dir, "spatial_data_20250101_120000.csv"), files.SpatialCSV)
	assert.Equal(t, filepath.Join(dir, "summary_20250101_120000.txt"), files.Summary)

	for _, path := range []string{files.JSON, files.TemporalCSV, files.SpatialCSV, files.Summary} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
}

func TestReportJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := sampleReport()

	files, err := original.Save(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(files.JSON)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.Timestamp, decoded.Timestamp)
	assert.Equal(t, original.Address, decoded.Address)
	require.Len(t, decoded.Temporal, 1)
	assert.Equal(t, original.Temporal[0].JitterRMS, decoded.Temporal[0].JitterRMS)
	require.Len(t, decoded.Spatial, 1)
	assert.Equal(t, original.Spatial[0].StabilityMetric, decoded.Spatial[0].StabilityMetric)
}

func TestReportCSVOneRowPerResult(t *testing.T) {
	dir := t.TempDir()

	files, err := sampleReport().Save(dir)
	require.NoError(t, err)

	file, err := os.Open(files.TemporalCSV)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one result row")

	assert.Equal(t, "config", rows[0][0])
	assert.Equal(t, "drop_rate_percent", rows[0][len(rows[0])-1])
	assert.Equal(t, "VGA_30fps", rows[1][0])
	assert.Equal(t, len(rows[0]), len(rows[1]))
}

func TestReportSkipsEmptyCSVs(t *testing.T) {
	dir := t.TempDir()

	report := &Report{Timestamp: "20250101_120000"}
	files, err := report.Save(dir)
	require.NoError(t, err)

	assert.Empty(t, files.TemporalCSV)
	assert.Empty(t, files.SpatialCSV)
	assert.NotEmpty(t, files.JSON)
	assert.NotEmpty(t, files.Summary)
}

func TestReportSummaryContent(t *testing.T) {
	dir := t.TempDir()

	files, err := sampleReport().Save(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(files.Summary)
	require.NoError(t, err)
	summary := string(data)

	assert.True(t, strings.HasPrefix(summary, "NAO Camera Benchmark Summary"))
	assert.Contains(t, summary, "TEMPORAL JITTER RESULTS:")
	assert.Contains(t, summary, "VGA_30fps: 29.5fps (98.3%), Jitter: 2.2ms RMS, CV: 6.2%")
	assert.Contains(t, summary, "SPATIAL STABILITY:")
	assert.Contains(t, summary, "VGA_30fps: Stability 0.2932, Frame diff: 2.41±0.35")
}
