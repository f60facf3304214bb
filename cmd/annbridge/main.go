package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"annbridge/internal/config"
	"annbridge/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "annbridge",
	Short: "Convert typed linguistic annotations to annotation store records",
	Long: `annbridge annotates documents, converts the annotations through an ordered
converter chain and uploads the resulting records to an annotation store.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfg    *config.AppConfig
	logger *slog.Logger
)

func main() {
	_ = godotenv.Load()

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(typeURICmd)

	rootCmd.PersistentFlags().String("config", "", "path to YAML config (default ./annbridge.yaml or ~/.config/annbridge/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error), overrides config")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text|json), overrides config")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and the logger for every subcommand.
func setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	var err error
	if path == "" {
		cfg, path, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if f, _ := cmd.Flags().GetString("log-format"); f != "" {
		cfg.Logging.Format = f
	}
	logger, err = logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	logger.Debug("config loaded", "path", path)
	return nil
}
