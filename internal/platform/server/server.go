package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ogurasousui/employee-directory/internal/platform/config"
)

// Server は HTTP サーバーとヘルスチェック用 gRPC サーバーのライフサイクルを管理します。
type Server struct {
	cfg        config.ServerConfig
	httpServer *http.Server
	grpcServer *grpc.Server
	health     *health.Server
	log        zerolog.Logger
}

// New は Server を構築します。HealthListenAddr が空の場合 gRPC サーバーは起動しません。
func New(cfg config.ServerConfig, handler http.Handler, log zerolog.Logger, opts ...grpc.ServerOption) *Server {
	s := &Server{
		cfg: cfg,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}

	if cfg.HealthListenAddr != "" {
		s.grpcServer = grpc.NewServer(opts...)
		s.health = health.NewServer()
		healthpb.RegisterHealthServer(s.grpcServer, s.health)
	}

	return s
}

// Run は待ち受けを開始し、コンテキストがキャンセルされると両サーバーを停止します。
func (s *Server) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", s.cfg.HTTPListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.HTTPListenAddr, err)
	}

	var healthLis net.Listener
	if s.grpcServer != nil {
		healthLis, err = net.Listen("tcp", s.cfg.HealthListenAddr)
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("listen on %s: %w", s.cfg.HealthListenAddr, err)
		}
	}

	return s.Serve(ctx, httpLis, healthLis)
}

// Serve は渡されたリスナーで待ち受けます。healthLis が nil の場合 gRPC サーバーは起動しません。
func (s *Server) Serve(ctx context.Context, httpLis, healthLis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", httpLis.Addr().String()).Msg("HTTP server listening")
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	})

	if s.grpcServer != nil && healthLis != nil {
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		g.Go(func() error {
			s.log.Info().Str("addr", healthLis.Addr().String()).Msg("gRPC health server listening")
			if err := s.grpcServer.Serve(healthLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("serve gRPC: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info().Dur("timeout", timeout).Msg("shutting down")

	var grpcStopped chan struct{}
	if s.grpcServer != nil {
		s.health.Shutdown()
		grpcStopped = make(chan struct{})
		go func() {
			s.grpcServer.GracefulStop()
			close(grpcStopped)
		}()
	}

	httpErr := s.httpServer.Shutdown(ctx)

	if grpcStopped != nil {
		select {
		case <-grpcStopped:
		case <-ctx.Done():
			// Watch ストリームが残っていると GracefulStop は戻らない
			s.log.Warn().Msg("gRPC graceful stop timed out, forcing stop")
			s.grpcServer.Stop()
			<-grpcStopped
		}
	}

	if httpErr != nil {
		return fmt.Errorf("shutdown HTTP: %w", httpErr)
	}
	return nil
}
