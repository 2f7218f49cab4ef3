package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hochfrequenz/acc/internal/config"
	"github.com/hochfrequenz/acc/internal/logging"
)

// errReported signals a failure that has already been shown to the user
var errReported = errors.New("reported")

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger = zap.NewNop()

	rootCmd = &cobra.Command{
		Use:   "acc",
		Short: "Agent Command Central - AI assisted lint fixing",
		Long: `acc runs your lint command, lets opencode turn the findings into structured
issues and then asks opencode to fix each issue, a bounded number at a time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = logging.New(verbose)
			if err != nil {
				return err
			}

			cfg, err = config.LoadWithLocalFallback(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ./.acc.toml or ~/.config/acc/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
