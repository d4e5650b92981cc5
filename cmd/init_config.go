package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/wiretap/internal/config"
	"github.com/oshokin/wiretap/internal/logger"
)

//nolint:gochecknoglobals // Cobra command requires a global definition.
var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write the default configuration file",
	Long: `Writes the default configuration as YAML.

Without an argument the file is created as '` + config.DefaultConfigFilename + `'
in the current directory. Existing files are never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var path string
		if len(args) > 0 {
			path = args[0]
		}

		if err := config.WriteDefaultConfig(path); err != nil {
			logger.Fatalf(cmd.Context(), "Failed to write default config: %v", err)
		}

		if path == "" {
			path = config.DefaultConfigFilename
		}

		logger.Infof(cmd.Context(), "Default configuration written to '%s'", path)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(initConfigCmd)
}
