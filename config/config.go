// Package config manages loading and interpreting application configuration.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultHost is the robot address used when none is configured.
	DefaultHost = "172.15.1.29"
	// DefaultPort is the robot frame gateway port.
	DefaultPort = 9559
	// defaultTemporalSeconds is the temporal sampling window per config.
	defaultTemporalSeconds = 30
	// defaultSpatialSeconds is the spatial sampling cap per config.
	defaultSpatialSeconds = 15
	// defaultOutputDir receives all benchmark report files.
	defaultOutputDir = "benchmark_data"
)

// Source selects where frames come from.
const (
	SourceRobot  = "robot"
	SourceWebcam = "webcam"
	SourceReplay = "replay"
)

// Config represents the top-level application configuration.
type Config struct {
	Host            string `json:"host,omitempty"            mapstructure:"host"`
	Port            int    `json:"port,omitempty"            mapstructure:"port"`
	Source          string `json:"source,omitempty"          mapstructure:"source"`
	WebcamDevice    int    `json:"webcamDevice,omitempty"    mapstructure:"webcamDevice"`
	ReplayDir       string `json:"replayDir,omitempty"       mapstructure:"replayDir"`
	TemporalSeconds int    `json:"temporalSeconds,omitempty" mapstructure:"temporalSeconds"`
	SpatialSeconds  int    `json:"spatialSeconds,omitempty"  mapstructure:"spatialSeconds"`
	SpatialFrameCap int    `json:"spatialFrameCap,omitempty" mapstructure:"spatialFrameCap"`
	OutputDir       string `json:"output,omitempty"          mapstructure:"output"`
	LogFile         string `json:"logFile,omitempty"         mapstructure:"logFile"`
	ConfigPath      string `json:"-"                         mapstructure:"-"`
}

// HostAddr returns the robot host, applying the default when unset.
func (c Config) HostAddr() string {
	if host := strings.TrimSpace(c.Host); host != "" {
		return host
	}
	return DefaultHost
}

// GatewayAddr returns the host:port dial target for the frame gateway.
func (c Config) GatewayAddr() string {
	port := c.Port
	if port <= 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(c.HostAddr(), strconv.Itoa(port))
}

// FrameSource returns the configured source, defaulting to the robot.
func (c Config) FrameSource() string {
	switch strings.TrimSpace(c.Source) {
	case SourceWebcam:
		return SourceWebcam
	case SourceReplay:
		return SourceReplay
	default:
		return SourceRobot
	}
}

// TemporalDuration returns the temporal sampling window per configuration.
func (c Config) TemporalDuration() time.Duration {
	if c.TemporalSeconds <= 0 {
		return defaultTemporalSeconds * time.Second
	}
	return time.Duration(c.TemporalSeconds) * time.Second
}

// SpatialDuration returns the spatial sampling cap per configuration.
func (c Config) SpatialDuration() time.Duration {
	if c.SpatialSeconds <= 0 {
		return defaultSpatialSeconds * time.Second
	}
	return time.Duration(c.SpatialSeconds) * time.Second
}

// OutputDirPath returns the report output directory, applying the default
// when unset.
func (c Config) OutputDirPath() string {
	if dir := strings.TrimSpace(c.OutputDir); dir != "" {
		return dir
	}
	return defaultOutputDir
}

// LogFilePath returns the application log file path, applying a default.
func (c Config) LogFilePath() string {
	if path := strings.TrimSpace(c.LogFile); path != "" {
		return path
	}
	return "cambench.log"
}

// Validate rejects configurations no run could use.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch src := strings.TrimSpace(c.Source); src {
	case "", SourceRobot, SourceWebcam:
	case SourceReplay:
		if strings.TrimSpace(c.ReplayDir) == "" {
			return fmt.Errorf("source %q requires replayDir", SourceReplay)
		}
	default:
		return fmt.Errorf("invalid source %q: must be %q, %q or %q",
			src, SourceRobot, SourceWebcam, SourceReplay)
	}
	if c.WebcamDevice < 0 {
		return fmt.Errorf("invalid webcam device %d", c.WebcamDevice)
	}
	return nil
}
