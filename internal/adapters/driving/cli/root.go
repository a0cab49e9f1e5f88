// Package cli implements the docchat command line interface using cobra.
// Commands share a bootstrap step that loads the configuration and wires
// the adapters into the core services.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/docchat-io/docchat/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with a document using retrieval-augmented generation",
	Long: `docchat indexes a document (PDF, plain text or Markdown) into a local
vector index and answers questions about it, grounding every reply in
retrieved passages. Conversations persist across runs in a local SQLite
database.

Run "docchat index" once to build the index, then "docchat chat" for an
interactive session or "docchat serve" to expose the HTTP API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.docchat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration from --config or the default path.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// newLogger builds the process logger. Verbose mode lowers the level to
// debug; output goes to stderr so command output stays parseable.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
