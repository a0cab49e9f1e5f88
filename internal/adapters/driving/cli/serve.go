package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docchat-io/docchat/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chat API",
	Long: `Starts the HTTP server exposing the chat API.

The index is prepared before the server accepts traffic: a persisted
snapshot is restored when it matches the configured embedding model,
otherwise the source document is extracted and embedded from scratch.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.retrieval.Prepare(ctx); err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}

	if a.cfg.Document.Watch {
		go func() {
			if err := a.retrieval.Watch(ctx); err != nil && ctx.Err() == nil {
				a.log.Error("document watch stopped", "error", err)
			}
		}()
	}

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	server := httpapi.NewServer(
		httpapi.ServerConfig{RatePerMinute: a.cfg.Server.RatePerMinute},
		a.chat,
		a.retrieval,
		a.store,
		a.llm,
		a.log,
	)
	return server.Run(ctx, addr)
}
