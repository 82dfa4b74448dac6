package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/fte-report/internal/config"
	"github.com/iwvelando/fte-report/internal/server"
	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(f *flags) *cobra.Command {
	var serverConfigPath, address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report API and upload page over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverConf, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				serverConf.Address = address
			}

			env, err := loadEnvironment(f)
			if err != nil {
				return err
			}
			defer env.close()

			logger := env.logger
			if serverConf.Logging != (config.LoggingConfig{}) {
				if logger, err = initializeLogger(serverConf.Logging, f.logLevel); err != nil {
					return err
				}
				defer func() { _ = logger.Sync() }()
			}

			handler := server.NewHandler(logger, env.refs, env.policy(), serverConf.UploadSizeBytes(), Version)
			srv := server.NewHTTPServer(serverConf, handler)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, logger, srv)
		},
	}
	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, logger *zap.Logger, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "main.serve"),
			zap.String("address", srv.Addr),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down",
		zap.String("op", "main.serve"),
	)
	return srv.Shutdown(shutdownCtx)
}
