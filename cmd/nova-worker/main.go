// Command nova-worker runs one shard's end of the router/worker protocol
// (spec.md §4.8): it dials a router, negotiates a handshake, and serves
// IndexShard/UpdateFile/Query requests out of an in-memory shard index.
package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nova-lang/nova/internal/cache"
	"github.com/nova-lang/nova/internal/config"
	"github.com/nova-lang/nova/internal/rpc"
	"github.com/nova-lang/nova/internal/shardworker"
	"github.com/nova-lang/nova/internal/worker"
)

var workerBuild = "dev"

func main() {
	_ = godotenv.Load()

	var (
		routerAddr string
		shardID    uint32
		project    string
	)

	root := &cobra.Command{
		Use:   "nova-worker",
		Short: "Serve one workspace shard over Nova's router/worker RPC protocol",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), routerAddr, shardID, project)
		},
	}
	root.Flags().StringVar(&routerAddr, "router-addr", "127.0.0.1:7777", "address of the router to dial")
	root.Flags().Uint32Var(&shardID, "shard-id", 0, "shard id this worker serves")
	root.Flags().StringVar(&project, "project", ".", "project root identifying this workspace in the on-disk ledger")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, routerAddr string, shardID uint32, project string) error {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel).With().Uint32("shard_id", shardID).Logger()

	ledger, err := cache.OpenLedger(cfg.CacheDir + "/ledger.db")
	if err != nil {
		return fmt.Errorf("nova-worker: open ledger: %w", err)
	}
	defer ledger.Close()
	projectHash := cache.HashPath(project)

	var cached *rpc.CachedIndexInfo
	shard := shardworker.New(shardID, logger)
	if rev, ok, err := ledger.ShardRevision(projectHash, shardID); err == nil && ok {
		cached = &rpc.CachedIndexInfo{Revision: rev}
	}

	tlsConfig, err := clientTLSConfig(cfg)
	if err != nil {
		return fmt.Errorf("nova-worker: %w", err)
	}

	var authToken *string
	if cfg.AuthToken != "" {
		authToken = &cfg.AuthToken
	}

	caps := rpc.Capabilities{
		MaxFrameLen:          rpc.DefaultMaxFrameLen,
		MaxPacketLen:         rpc.DefaultMaxFrameLen,
		SupportedCompression: []rpc.CompressionAlgo{rpc.CompressionNone},
		SupportsCancel:       true,
		SupportsChunking:     true,
	}

	w, err := worker.Dial(worker.Config{
		Addr:        routerAddr,
		TLSConfig:   tlsConfig,
		ShardID:     shardID,
		AuthToken:   authToken,
		WorkerBuild: workerBuild,
	}, cached, caps)
	if err != nil {
		return fmt.Errorf("nova-worker: dial router: %w", err)
	}
	defer w.Close()

	logger.Info().Uint32("worker_id", w.Welcome.WorkerID).Uint64("revision", w.Welcome.Revision).
		Msg("handshake complete, serving shard")

	handler := &ledgerRecordingHandler{shard: shard, ledger: ledger, projectHash: projectHash}

	errCh := make(chan error, 1)
	go func() { errCh <- w.Serve(handler) }()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		_ = w.Close()
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

// ledgerRecordingHandler persists the shard's revision to the on-disk
// ledger after every successful IndexShard/UpdateFile, so a later start
// of this worker advertises that revision as its cached_index_info. The
// router does not act on that field and still sends the full file set
// on a shard's first attach.
type ledgerRecordingHandler struct {
	shard       *shardworker.Shard
	ledger      *cache.Ledger
	projectHash string
}

func (h *ledgerRecordingHandler) Handle(req rpc.Request) rpc.Response {
	resp := h.shard.Handle(req)
	if resp.IndexDigest != nil && resp.Err == "" {
		_ = h.ledger.RecordShard(h.projectHash, resp.IndexDigest.ShardID, resp.IndexDigest.Revision)
	}
	return resp
}

func clientTLSConfig(cfg *config.Config) (*tls.Config, error) {
	if cfg.TLSCertFile == "" {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("load worker client cert: %w", err)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}, nil
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(parsed).With().Timestamp().Logger()
}
