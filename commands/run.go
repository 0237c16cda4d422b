package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/naolab/cambench/benchmark"
	"github.com/naolab/cambench/config"
	"github.com/naolab/cambench/video"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
)

// runCmd executes the full benchmark.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the camera benchmark and write reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *currentConfig

		if cfg.FrameSource() == config.SourceRobot && !cmd.Flags().Changed("host") && strings.TrimSpace(cfg.Host) == "" {
			cfg.Host = promptHost(os.Stdin, cmd.OutOrStdout(), config.DefaultHost)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, target, err := openService(cfg)
		if err != nil {
			failColor.Fprintf(cmd.OutOrStdout(), "✗ Connection failed: %v\n", err)
			return err
		}
		defer func() {
			_ = svc.Close()
		}()
		okColor.Fprintf(cmd.OutOrStdout(), "✓ Connected to %s\n", target)

		temporal := benchmark.NewTemporalSampler()
		temporal.Duration = cfg.TemporalDuration()

		spatial := benchmark.NewSpatialSampler()
		spatial.Duration = cfg.SpatialDuration()
		if cfg.SpatialFrameCap > 0 {
			spatial.MaxFrames = cfg.SpatialFrameCap
		}

		suite := benchmark.NewSuite(benchmark.SuiteArgs{
			Service:   svc,
			OutputDir: cfg.OutputDirPath(),
			Address:   target,
			Temporal:  temporal,
			Spatial:   spatial,
		})

		report, err := suite.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "\nInterrupted by user")
				return nil
			}
			failColor.Fprintln(cmd.OutOrStdout(), "✗ Benchmark failed!")
			return err
		}

		okColor.Fprintln(cmd.OutOrStdout(), "✓ Benchmark completed!")
		fmt.Fprintf(cmd.OutOrStdout(), "Results saved to: %s\n", report.Files.JSON)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// openService builds the frame source selected by the configuration and
// returns it alongside a printable target description.
func openService(cfg config.Config) (video.Service, string, error) {
	switch cfg.FrameSource() {
	case config.SourceWebcam:
		svc, err := video.NewWebcamClient(cfg.WebcamDevice)
		if err != nil {
			return nil, "", err
		}
		return svc, fmt.Sprintf("webcam device %d", cfg.WebcamDevice), nil
	case config.SourceReplay:
		svc, err := video.NewReplayClient(cfg.ReplayDir)
		if err != nil {
			return nil, "", err
		}
		return svc, fmt.Sprintf("replay corpus %s", cfg.ReplayDir), nil
	default:
		addr := cfg.GatewayAddr()
		svc, err := video.NewStreamClient(addr)
		if err != nil {
			return nil, "", err
		}
		return svc, addr, nil
	}
}

// promptHost asks for the robot address on stdin, falling back to def on
// an empty answer.
func promptHost(in io.Reader, out io.Writer, def string) string {
	fmt.Fprintf(out, "NAO IP (default: %s): ", def)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	if answer := strings.TrimSpace(line); answer != "" {
		return answer
	}
	return def
}
