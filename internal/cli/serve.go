package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/myjellybean/jellybean/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local HTTP API server",
	Long: `Start an HTTP server exposing the analyzer on this machine.

Endpoints:
  GET    /health        Health check
  POST   /api/analyze   Analyze a message
  POST   /api/report    Format a result as the shareable report
  GET    /api/history   Saved analyses, newest first
  DELETE /api/history   Clear saved analyses
  GET    /api/samples   Demo messages
  GET    /api/ws        WebSocket session driving the view state machine
  GET    /metrics       Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "address to listen on (default server.addr, 127.0.0.1)")
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default server.port, 8787)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if cmd.Flags().Changed("addr") {
		addr, _ = cmd.Flags().GetString("addr")
	}
	port := cfg.Server.Port
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetInt("port")
	}

	listen := fmt.Sprintf("%s:%d", addr, port)
	srv := api.New(api.Options{
		Addr:           listen,
		Store:          openStore(),
		Analyzer:       newAnalyzer(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Timeout:        cfg.Provider.Timeout,
		Logger:         appLog,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	appLog.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
