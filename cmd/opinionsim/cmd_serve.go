package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/GoSim-25-26J-441/opinion-core/internal/experiment"
	"github.com/GoSim-25-26J-441/opinion-core/internal/server"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/logger"
)

// grpcServiceName is the health-checked service name
const grpcServiceName = "opinion.v1.Simulation"

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP run API and a gRPC health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			httpAddr, _ := cmd.Flags().GetString("http-addr")
			grpcAddr, _ := cmd.Flags().GetString("grpc-addr")
			dbPath, _ := cmd.Flags().GetString("db")
			logLevel, _ := cmd.Flags().GetString("log-level")
			if logLevel == "" {
				logLevel = "info"
			}

			logger.SetDefault(logger.NewText(logLevel, os.Stdout))

			runs, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer runs.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// TODO: Configure gRPC server security (TLS, authentication) before
			// exposing the health endpoint outside a private network.
			grpcServer := grpc.NewServer()
			healthServer := health.NewServer()
			healthpb.RegisterHealthServer(grpcServer, healthServer)
			healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
			healthServer.SetServingStatus(grpcServiceName, healthpb.HealthCheckResponse_SERVING)

			grpcLis, err := net.Listen("tcp", grpcAddr)
			if err != nil {
				logger.Error("failed to listen for gRPC", "addr", grpcAddr, "error", err)
				return err
			}

			api := server.NewHTTPServer(runs, experiment.NewRunner(logger.Default))
			api.SetLogger(logger.Default)
			httpSrv := &http.Server{
				Addr:              httpAddr,
				Handler:           api.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      60 * time.Second,
				IdleTimeout:       120 * time.Second,
				MaxHeaderBytes:    1 << 20,
			}

			go func() {
				logger.Info("gRPC health server listening", "addr", grpcAddr)
				if err := grpcServer.Serve(grpcLis); err != nil {
					logger.Error("gRPC server error", "error", err)
					stop()
				}
			}()

			go func() {
				logger.Info("HTTP server listening", "addr", httpAddr, "db", dbPath)
				if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", "error", err)
					stop()
				}
			}()

			<-ctx.Done()
			logger.Info("shutdown requested")
			stop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			healthServer.Shutdown()
			grpcServer.GracefulStop()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP shutdown error", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().String("http-addr", ":8080", "HTTP listen address")
	cmd.Flags().String("grpc-addr", ":50051", "gRPC listen address")
	cmd.Flags().String("db", "", "SQLite database for runs (in-memory when empty)")
	return cmd
}
