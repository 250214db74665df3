package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"github.com/kalaiprof897-eng/management/pkg/auth"
	"github.com/kalaiprof897-eng/management/pkg/common"
	"github.com/kalaiprof897-eng/management/pkg/config"
	"github.com/kalaiprof897-eng/management/pkg/dashboard"
	"github.com/kalaiprof897-eng/management/pkg/db"
	"github.com/kalaiprof897-eng/management/pkg/gateway"
	dashboardGrpc "github.com/kalaiprof897-eng/management/pkg/grpc"
	dashboardHttp "github.com/kalaiprof897-eng/management/pkg/http"
	"github.com/kalaiprof897-eng/management/pkg/summary"
)

const shutdownTimeout = 10 * time.Second

var logDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and, when configured, the gRPC health service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		common.ConfigureLogger(common.LogOptions{Dir: logDir})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&logDir, "log-dir", "", "directory for the rotating log file (default ./logs)")
}

func openGateway(ctx context.Context, cfg config.Config) (gateway.Gateway, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		g, err := gateway.NewPgGateway(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := g.Ping(ctx); err != nil {
			// cycles will settle as DegradedError until the database answers
			common.GetLogger().Warn("Database is not reachable yet", zap.Error(err))
		}
		return g, g.Close, nil
	case config.BackendSqlite:
		d := db.GetInstance(db.UseSqliteDialectorAt(cfg.DbPath))
		return gateway.NewGormGateway(d), func() { _ = d.Close() }, nil
	case config.BackendMemory:
		d := db.GetInstance(db.UseMemorySqliteDialector())
		return gateway.NewGormGateway(d), func() { _ = d.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := common.GetLogger()

	g, closeGateway, err := openGateway(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeGateway()

	// A missing auth configuration does not stop the process: the API answers
	// every request with the configuration error instead.
	var initErr error
	var sessions *auth.SessionStore
	client, err := auth.NewGoTrueClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	if err != nil {
		initErr = err
		logger.Error("Auth is not configured, serving configuration error", zap.Error(err))
	} else {
		sessions = auth.NewSessionStore(client)
	}

	var summarizer summary.Summarizer
	if gs, err := summary.NewGeminiSummarizer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel); err != nil {
		logger.Error("Summary generation disabled", zap.Error(err))
	} else {
		summarizer = gs
	}

	app := dashboard.NewApp(dashboard.AppOptions{
		Gateway:      g,
		Sessions:     sessions,
		Summarizer:   summarizer,
		DefaultRate:  rate.Limit(cfg.DefaultRate),
		DefaultBurst: cfg.DefaultBurst,
	})
	defer app.Close()

	rs := &dashboardHttp.RestfulServer{
		Server:  gin.Default(),
		App:     app,
		InitErr: initErr,
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("backend", string(cfg.Backend)),
		zap.Float64("default_rate", cfg.DefaultRate),
		zap.Int("default_burst", cfg.DefaultBurst))

	var (
		healthServer *dashboardGrpc.HealthServer
		grpcServer   *grpc.Server
		grpcListener net.Listener
	)
	if cfg.GrpcHostPort != "" {
		healthServer = dashboardGrpc.NewHealthServer(
			dashboard.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst))
		unobserve := app.Observe(healthServer.Observe)
		defer unobserve()

		grpcServer = healthServer.NewServer([]string{dashboardGrpc.HealthCheckMethod})
		if grpcListener, err = net.Listen("tcp", cfg.GrpcHostPort); err != nil {
			return fmt.Errorf("failed to listen: %w", err)
		}
	}

	eg, ctx := errgroup.WithContext(ctx)

	httpServer := &nethttp.Server{Addr: cfg.HttpHostPort, Handler: rs.Server}
	eg.Go(func() error {
		logger.Info("Starting HTTP server on: " + cfg.HttpHostPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("http server failed to serve: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if grpcServer != nil {
		eg.Go(func() error {
			logger.Info("start gRPC server on " + cfg.GrpcHostPort)
			if err := grpcServer.Serve(grpcListener); err != nil {
				return fmt.Errorf("grpc server failed to serve: %w", err)
			}
			return nil
		})
		eg.Go(func() error {
			<-ctx.Done()
			healthServer.Shutdown()
			grpcServer.GracefulStop()
			return nil
		})
	}

	err = eg.Wait()
	logger.Info("Server stopped")
	return err
}
