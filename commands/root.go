// Package commands defines the cambench command-line interface.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/naolab/cambench/config"
	"github.com/naolab/cambench/logging"
)

var (
	cfgFile       string
	currentConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cambench",
	Short: "cambench — camera jitter and stability benchmark for NAO robots",
	Long: `cambench measures delivery timing and image stability of a NAO
camera stream across a matrix of resolution/frame-rate configurations and
writes JSON, CSV and text reports for later analysis.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		var cfg config.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = cfgFile
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and runs it. This is
// called by main.main().
func Execute() {
	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultConfigPath, "config file")

	rootCmd.PersistentFlags().String("host", "", "robot address (prompts when omitted)")
	rootCmd.PersistentFlags().Int("port", config.DefaultPort, "frame gateway port")
	rootCmd.PersistentFlags().String("source", config.SourceRobot, "frame source: robot, webcam or replay")
	rootCmd.PersistentFlags().Int("device", 0, "webcam device id (source=webcam)")
	rootCmd.PersistentFlags().String("replay", "", "frame image directory (source=replay)")
	rootCmd.PersistentFlags().String("output", "", "report output directory")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("source", rootCmd.PersistentFlags().Lookup("source"))
	_ = viper.BindPFlag("webcamDevice", rootCmd.PersistentFlags().Lookup("device"))
	_ = viper.BindPFlag("replayDir", rootCmd.PersistentFlags().Lookup("replay"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// initConfig points viper at the configured file.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file when present; a missing file is
// not an error, flags and defaults then apply.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}
