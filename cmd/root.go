package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/climastery/internal/config"
	"github.com/abhisek/climastery/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "climastery",
	Short: "Interactive trainer for the GitHub Copilot CLI",
	Long: "climastery — a terminal training course for the GitHub Copilot CLI with lessons,\n" +
		"quizzes, scenario challenges, XP levels and achievements.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runPlay,
}

// Resolved by setup before any command runs.
var (
	cfg    *config.Config
	logger *zap.Logger
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to config file (default <data-dir>/config.yaml)")
	flags.String("data-dir", "", "Directory for progress, journal and logs (overrides CLIMASTERY_HOME)")
	flags.Bool("no-color", false, "Disable colors")
	flags.Bool("plain", false, "Use numbered menus instead of arrow-key menus")
	flags.String("log-level", "", "Log level: debug, info, warn, error, off")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(selftestCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads .env, the config file and flag overrides, then opens the log.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	flags := cmd.Flags()
	dataDir, _ := flags.GetString("data-dir")
	path, _ := flags.GetString("config")
	if path == "" {
		if dataDir != "" {
			path = filepath.Join(dataDir, config.ConfigFile)
		} else {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if dataDir != "" {
		c.Storage.DataDir = dataDir
	}
	if noColor, _ := flags.GetBool("no-color"); noColor {
		c.UI.Color = false
	}
	if plain, _ := flags.GetBool("plain"); plain {
		c.UI.Menu = config.MenuPlain
	}
	if level, _ := flags.GetString("log-level"); level != "" {
		c.Logging.Level = level
	}
	if err := c.ResolveDataDir(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}

	l, err := logging.New(c.Logging.Level, c.LogPath())
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}

	cfg, logger = c, l
	logger.Debug("config loaded",
		zap.String("path", path),
		zap.String("data_dir", c.Storage.DataDir),
		zap.String("backend", c.Storage.Backend))
	return nil
}
