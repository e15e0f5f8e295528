package cmd

import (
	"fmt"
	"os"

	"github.com/axellelanca/itrules/internal/config"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Cfg holds the configuration loaded before any command runs.
var Cfg *config.Config

// RootCmd is the base command. Subcommands register themselves from their
// own init functions.
var RootCmd = &cobra.Command{
	Use:   "itrules",
	Short: "Log and report social media links violating the IT Rules",
	Long: `itrules records reported social media links, lists them by date range,
exports PDF or DOCX reports, and keeps an audit log of report downloads.

Client commands talk to the logger service at client.base_url. The
run-server command starts a reference implementation of that service.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called from main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.String("base-url", "", "logger service URL (overrides client.base_url)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	viper.BindPFlag("client.base_url", flags.Lookup("base-url"))
	viper.BindPFlag("log.level", flags.Lookup("log-level"))
}

// initConfig loads .env, then the configuration, then applies the log
// settings to the standard logrus logger.
func initConfig() {
	_ = godotenv.Load() // .env is optional

	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Warn("problem loading configuration, using defaults")
		Cfg, err = config.Load(viper.New())
		if err != nil {
			logrus.WithError(err).Fatal("failed to load default configuration")
		}
	}

	if err := Cfg.ConfigureLogger(logrus.StandardLogger()); err != nil {
		logrus.WithError(err).Warn("invalid log settings, keeping defaults")
	}
}
