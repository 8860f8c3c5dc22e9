package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quorumlabs/council/internal/config"
	"github.com/quorumlabs/council/internal/log"
)

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "council",
	Short:   "Fan-out analysis runs across a council of AI analysts",
	Long: `Council dispatches one query to a registry of specialized AI analysts
running concurrently, waits for every analysis to land, and has a lead
analyst synthesize them into a single recommendation.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/council/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write a debug log and mirror it to stderr")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("provider", defaults.Provider)
	viper.SetDefault("worker_timeout", defaults.WorkerTimeout)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(filepath.Join(home, ".config", "council"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create the default one.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			defaultPath := config.DefaultConfigPath()
			if defaultPath != "" {
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file).
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// initLogging wires the debug log when --debug or COUNCIL_DEBUG is set. The
// log file lives next to the config; cleanup is deferred to process exit.
func initLogging() {
	if !debug && os.Getenv("COUNCIL_DEBUG") == "" {
		return
	}
	debug = true

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	logPath := filepath.Join(home, ".config", "council", "debug.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not create log directory: %v\n", err)
		return
	}
	if _, err := log.Init(logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open debug log: %v\n", err)
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
