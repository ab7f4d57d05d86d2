// SelfMenu keeps a deck of recipe cards and times how long each one takes
// to cook, one session at a time.
//
// Usage:
//
//	selfmenu [--config FILE] [--verbose|--quiet] <command>
package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	quiet      bool
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "selfmenu",
	Short:         "SelfMenu - a recipe deck with a cooking timer",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/selfmenu/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose/debug logging")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "disable all logging")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}
