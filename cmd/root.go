package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/enmccarthy/lbann/internal/command"
	"github.com/enmccarthy/lbann/internal/config"
	"github.com/enmccarthy/lbann/internal/utils"
	"github.com/spf13/cobra"
)

var (
	debugMode bool
	quietMode bool
)

var rootCmd = &cobra.Command{
	Use:           "lbannctl",
	Short:         "lbannctl: build and validate LBANN launch commands for LC clusters (SLURM/LSF).",
	Version:       config.VERSION,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Step 1: Load built-in defaults
		config.LoadDefaults()

		// Step 2: Initialize Viper (read config file, env vars)
		if err := config.InitViper(); err != nil {
			utils.PrintDebug("Error reading config file: %v", err)
		}

		// Step 3: Load resolved values into the Global config
		config.LoadFromViper()

		// Step 4: Apply command-line flags (highest priority)
		if debugMode {
			utils.DebugMode = true
			config.Global.Debug = true
			utils.PrintDebug("Debug mode enabled")
			utils.PrintDebug("lbannctl Version: %s", utils.StyleInfo(config.VERSION))
			if configPath, err := config.GetUserConfigPath(); err == nil {
				utils.PrintDebug("User config: %s", utils.StylePath(configPath))
			}
		}
		if quietMode {
			utils.QuietMode = true
			config.Global.Quiet = true
		}

		// Step 5: Version gate from the site config (warning only)
		if !config.MeetsMinVersion() {
			utils.PrintWarning("Site config requires lbannctl >= %s (running %s).",
				config.Global.MinVersion, config.VERSION)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// A skipped run (missing executable under skip semantics) is
		// neither success nor failure; exit 3 so CI can tell them apart.
		var skip *command.SkipError
		if errors.As(err, &skip) {
			utils.PrintMessage("%v", skip)
			os.Exit(3)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Subcommands are attached to rootCmd in their respective init() functions
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode with verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Suppress informational output")
}
