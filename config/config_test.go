package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	var cfg Config

	assert.Equal(t, "172.15.1.29", cfg.HostAddr())
	assert.Equal(t, "172.15.1.29:9559", cfg.GatewayAddr())
	assert.Equal(t, SourceRobot, cfg.FrameSource())
	assert.Equal(t, 30*time.Second, cfg.TemporalDuration())
	assert.Equal(t, 15*time.Second, cfg.SpatialDuration())
	assert.Equal(t, "benchmark_data", cfg.OutputDirPath())
	assert.Equal(t, "cambench.log", cfg.LogFilePath())
	assert.NoError(t, cfg.Validate())
}

func TestOverrides(t *testing.T) {
	cfg := Config{
		Host:            "10.0.0.5",
		Port:            7000,
		Source:          SourceWebcam,
		TemporalSeconds: 10,
		SpatialSeconds:  5,
		OutputDir:       "/tmp/out",
		LogFile:         "run.log",
	}

	assert.Equal(t, "10.0.0.5:7000", cfg.GatewayAddr())
	assert.Equal(t, SourceWebcam, cfg.FrameSource())
	assert.Equal(t, 10*time.Second, cfg.TemporalDuration())
	assert.Equal(t, 5*time.Second, cfg.SpatialDuration())
	assert.Equal(t, "/tmp/out", cfg.OutputDirPath())
	assert.Equal(t, "run.log", cfg.LogFilePath())
}

func TestValidate(t *testing.T) {
	assert.Error(t, Config{Port: -1}.Validate())
	assert.Error(t, Config{Port: 70000}.Validate())
	assert.Error(t, Config{Source: "pigeon"}.Validate())
	assert.Error(t, Config{WebcamDevice: -2}.Validate())
	assert.Error(t, Config{Source: SourceReplay}.Validate(), "replay needs a directory")
	assert.NoError(t, Config{Source: SourceReplay, ReplayDir: "frames"}.Validate())
	assert.NoError(t, Config{Source: SourceRobot}.Validate())
}

func TestIPv6HostJoinsCorrectly(t *testing.T) {
	cfg := Config{Host: "fe80::1", Port: 9559}
	assert.Equal(t, "[fe80::1]:9559", cfg.GatewayAddr())
}
