package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/milestones/internal/logger"
	"github.com/ppiankov/milestones/internal/model"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile     string
	verbose     bool
	logLevel    string
	logPretty   bool
	metricsFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "milestones",
	Short: "Milestones - dated events from markdown notes",
	Long: `Milestones finds dates in a vault of markdown notes and lays them out
as a timeline.

It understands header fields, #date/ and #year/ tags, [[date]] links and
free-text dates in English, Spanish, French and Japanese, including
partial dates such as "March 1947" or "1953".`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("milestones %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.milestones/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", false, "human-readable log output")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("output.log_pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := setDefaults(model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading defaults: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".milestones"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match MILESTONES_*, e.g.
	// MILESTONES_EXTRACT_LANGUAGE=fr
	viper.SetEnvPrefix("MILESTONES")
	viper.SetEnvKeyReplacer(envReplacer())
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
	}
}

func envReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// setDefaults registers every default key so environment variables can
// override keys that no config file mentions
func setDefaults(cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	flattenDefaults("", tree)
	return nil
}

func flattenDefaults(prefix string, tree map[string]interface{}) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]interface{}); ok {
			flattenDefaults(key, sub)
			continue
		}
		viper.SetDefault(key, v)
	}
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then environment variables. Command flags are applied by callers.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Extract.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeline.SortOrder != model.SortAscending && cfg.Timeline.SortOrder != model.SortDescending {
		return nil, fmt.Errorf("invalid sort order %q (want asc or desc)", cfg.Timeline.SortOrder)
	}
	return cfg, nil
}

// initLogger configures the process logger from cfg
func initLogger(cfg *model.Config) *logger.Logger {
	level := cfg.Output.LogLevel
	if cfg.Output.Verbose && (level == "" || level == "info") {
		level = "debug"
	}
	return logger.Init(logger.Config{
		Level:  level,
		Pretty: cfg.Output.LogPretty,
	})
}
