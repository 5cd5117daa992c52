package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tphakala/go-hq-resampler/internal/config"
	"github.com/tphakala/go-hq-resampler/internal/logger"
)

var (
	cfgFile string

	appConfig config.Config
	log       = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "resample-wav",
	Short: "High-quality WAV sample rate converter",
	Long: `resample-wav converts WAV files between sample rates using
multi-stage FFT convolution, half-band and fractional delay filters.

Configuration is read from resample.yaml in the working directory or
$HOME/.config/resample, RESAMPLE_ environment variables and flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		appConfig = cfg

		l, err := logger.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = log.Sync()
	},
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./resample.yaml or ~/.config/resample/resample.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log encoding: console or json")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file, rotated")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(planCmd)
}
