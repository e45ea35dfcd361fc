package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/spritepad/internal/compose"
	"github.com/kiesman99/spritepad/internal/logging"
	"github.com/kiesman99/spritepad/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for sprite placement and sheet assembly",
	Long: `Start an HTTP server that exposes placement and sheet assembly.

Endpoints (under /api/v1):
  GET  /health
  POST /place?width=32&height=32&align=center&scale=none   body: image
  POST /sheet?tile_width=32&tile_height=32&sheet_width=160&sheet_height=224&count=35
                                                            body: multipart "tile" parts

Examples:
  # Start server on default port 8080
  spritepad serve

  # Start server with custom bind address
  spritepad serve --bind 0.0.0.0 --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server configuration
	serveCmd.Flags().StringP("bind", "b", "localhost", "bind address")
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().Duration("timeout", 30*time.Second, "request timeout")
	serveCmd.Flags().IntP("workers", "j", 0, "concurrent tile decodes per request (default: one per CPU)")

	// Bind flags to viper
	viper.BindPFlag("server.bind", serveCmd.Flags().Lookup("bind"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.timeout", serveCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("server.workers", serveCmd.Flags().Lookup("workers"))
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.FromContext(cmd.Context())
	timeout := viper.GetDuration("server.timeout")
	addr := fmt.Sprintf("%s:%d", viper.GetString("server.bind"), viper.GetInt("server.port"))

	apiServer := server.NewServer(version, compose.New(viper.GetInt("server.workers")), logger)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.NewRouter(apiServer, logger, timeout),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()

		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "err", err)
		}
	}()

	logger.Info("starting spritepad server", "addr", addr, "version", version)
	logger.Info("endpoints",
		"health", "http://"+addr+"/api/v1/health",
		"place", "http://"+addr+"/api/v1/place",
		"sheet", "http://"+addr+"/api/v1/sheet")

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return errors.Wrap(err, "server error")
	}
	return nil
}
