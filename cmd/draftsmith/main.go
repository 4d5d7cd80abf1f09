// Command draftsmith serves a draftsmith site and runs the article
// generation pipeline from the command line.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "draftsmith",
	Short: "AI article generator and blog engine",
	Long: `draftsmith turns a topic such as "10 best desk lamps" into an illustrated
draft article and publishes it on a small blog.

Provider keys are read from the environment (or .env and draftsmith.yaml) and
can be overridden at runtime from the admin settings page.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./draftsmith.yaml or ~/.config/draftsmith/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "write JSON logs instead of console output")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

// initConfig loads .env, then draftsmith.yaml, then lets the environment
// override both.
func initConfig() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("draftsmith")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "draftsmith"))
		}
	}

	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger from the log_level and log_json
// settings.
func newLogger(v *viper.Viper) zerolog.Logger {
	level, err := zerolog.ParseLevel(v.GetString("log_level"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if v.GetBool("log_json") {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
