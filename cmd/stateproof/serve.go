package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/ChainSafe/log15"
	"github.com/mapprotocol/stateproof/chains"
	"github.com/mapprotocol/stateproof/internal/constant"
	"github.com/mapprotocol/stateproof/internal/expose"
	exposegrpc "github.com/mapprotocol/stateproof/internal/expose/grpc"
	"github.com/mapprotocol/stateproof/internal/expose/handler"
	"github.com/mapprotocol/stateproof/internal/expose/metrics"
	"github.com/mapprotocol/stateproof/internal/expose/service"
	"github.com/mapprotocol/stateproof/pkg/util"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

func serve(ctx *cli.Context) error {
	err := startLogger(ctx)
	if err != nil {
		return err
	}
	log.Info("Starting state proof service...", "version", Version)

	cfg, err := expose.Local(ctx)
	if err != nil {
		return err
	}
	proffer, ok := chains.CreateProffer(cfg.Chain.Type)
	if !ok {
		return fmt.Errorf("unrecognized chain type: %s", cfg.Chain.Type)
	}

	var (
		reg = prometheus.NewRegistry()
		m   *metrics.Metrics
	)
	if cfg.Other.Metrics {
		m = metrics.New(reg)
	}
	srv := service.NewProof(cfg, proffer, m, util.NewAlarm(cfg.Other.Env, cfg.Other.MonitorUrl))

	var (
		gs  *grpc.Server
		lis net.Listener
	)
	if cfg.Other.GrpcPort > 0 {
		lis, err = net.Listen("tcp", fmt.Sprintf(":%d", cfg.Other.GrpcPort))
		if err != nil {
			return errors.Wrap(err, "listen grpc")
		}
		gs = grpc.NewServer()
		exposegrpc.NewGRPCServer(srv, m).Register(gs)
	}

	sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(sigCtx)

	servers := []*http.Server{{
		Addr:              fmt.Sprintf(":%d", cfg.Other.Port),
		Handler:           handler.NewRouter(cfg, handler.New(cfg, srv, m)),
		ReadHeaderTimeout: constant.HttpTimeOut,
	}}
	if cfg.Other.Metrics {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		servers = append(servers, &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Other.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: constant.HttpTimeOut,
		})
	}
	for _, hs := range servers {
		g.Go(func() error {
			log.Info("HTTP server listening", "addr", hs.Addr)
			if err := hs.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrapf(err, "serve %s", hs.Addr)
			}
			return nil
		})
	}

	if gs != nil {
		g.Go(func() error {
			log.Info("gRPC server listening", "addr", lis.Addr())
			return gs.Serve(lis)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down state proof service...")
		return shutdown(servers, gs, constant.ShutdownTimeout)
	})

	return g.Wait()
}

func shutdown(servers []*http.Server, gs *grpc.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if gs != nil {
		done := make(chan struct{})
		go func() {
			gs.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			gs.Stop()
		}
	}

	var firstErr error
	for _, hs := range servers {
		if err := hs.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
