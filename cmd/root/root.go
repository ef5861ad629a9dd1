package root

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/neilberkman/recap/internal/config"
	"github.com/neilberkman/recap/internal/logger"
)

var (
	cfgFile string
	verbose bool
)

var (
	// Version information - will be set by goreleaser
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// RootCmd represents the base command
var RootCmd = &cobra.Command{
	Use:   "recap",
	Short: "Your AI chat history, wrapped - computed locally",
	Long: `Recap turns a ChatGPT conversation export into year-in-review style
statistics: when you chat, which models you lean on, how long your streaks
run, and which conversations dominated your year.

Everything is computed and stored on this machine. The export file never
leaves your device; only the optional summary command talks to a model API.

Quick start:
  recap import conversations.json   # Parse an export and build the stats
  recap stats                       # Overview of the stored snapshot
  recap wrapped                     # The full breakdown
  recap summary 1                   # LLM summary of one conversation`,
	Version: Version,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		if viper.GetBool("verbose") {
			logger.Log.SetLevel(logrus.DebugLevel)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/recap/config.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	if err := viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	viper.AutomaticEnv()
}
