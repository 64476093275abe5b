// Command nova launches Nova's distributed router (spec.md §4.8): it
// partitions a workspace into per-source-root shards, listens for worker
// connections on one address per shard, and seeds the first worker to
// attach on each shard with that shard's current file set.
package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nova-lang/nova/internal/config"
	"github.com/nova-lang/nova/internal/rpc"
	"github.com/nova-lang/nova/internal/router"
	"github.com/nova-lang/nova/internal/vfs"
)

func main() {
	_ = godotenv.Load()

	var (
		roots        []string
		excludeGlobs []string
	)

	routerCmd := &cobra.Command{
		Use:   "router",
		Short: "Partition --root workspaces into shards and serve worker connections",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(roots) == 0 {
				return fmt.Errorf("nova router: at least one --root is required")
			}
			return runRouter(cmd.Context(), roots, excludeGlobs)
		},
	}
	routerCmd.Flags().StringArrayVar(&roots, "root", nil, "source root to shard and serve (repeatable, one shard per root)")
	routerCmd.Flags().StringArrayVar(&excludeGlobs, "exclude", nil, "doublestar glob excluded from a root's file set (repeatable)")

	root := &cobra.Command{
		Use:   "nova",
		Short: "Nova language-intelligence router and local tooling",
	}
	root.AddCommand(routerCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runRouter opens one listener per source root (one shard each), serves
// worker connections on every listener concurrently, and seeds the first
// worker to attach on each shard with its initial file set before handing
// control to the router's own request dispatch.
func runRouter(ctx context.Context, roots, excludeGlobs []string) error {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	layout := router.WorkspaceLayout{}
	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			return fmt.Errorf("nova router: resolve root %q: %w", r, err)
		}
		layout.SourceRoots = append(layout.SourceRoots, router.SourceRoot{Path: abs})
	}

	rtr := router.NewRouter(layout, logger)

	tlsConfig, err := serverTLSConfig(cfg)
	if err != nil {
		return fmt.Errorf("nova router: %w", err)
	}

	host, portStr, err := net.SplitHostPort(cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("nova router: parse listen addr %q: %w", cfg.ListenAddr, err)
	}
	basePort, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("nova router: listen port %q is not numeric: %w", portStr, err)
	}

	caps := rpc.Capabilities{
		MaxFrameLen:          rpc.DefaultMaxFrameLen,
		MaxPacketLen:         rpc.DefaultMaxFrameLen,
		SupportedCompression: []rpc.CompressionAlgo{rpc.CompressionNone},
		SupportsCancel:       true,
		SupportsChunking:     true,
	}

	var (
		wg        sync.WaitGroup
		listeners []net.Listener
	)
	for i, root := range layout.SourceRoots {
		shard := router.ShardID(i)
		addr := net.JoinHostPort(host, strconv.Itoa(basePort+i))

		ln, err := listen(addr, tlsConfig)
		if err != nil {
			for _, prior := range listeners {
				_ = prior.Close()
			}
			return fmt.Errorf("nova router: listen for shard %d on %s: %w", shard, addr, err)
		}
		listeners = append(listeners, ln)
		logger.Info().Uint32("shard_id", uint32(shard)).Str("addr", addr).Str("root", root.Path).
			Msg("shard listener ready")

		wg.Add(1)
		go func(shard router.ShardID, rootPath string, ln net.Listener) {
			defer wg.Done()
			go seedShardOnAttach(ctx, rtr, shard, rootPath, excludeGlobs, logger)
			if err := rtr.Serve(ctx, ln, func(net.Conn) router.ShardID { return shard }, 1, caps); err != nil {
				logger.Error().Uint32("shard_id", uint32(shard)).Err(err).Msg("shard listener stopped")
			}
		}(shard, root.Path, ln)
	}

	<-ctx.Done()
	logger.Info().Msg("shutting down router")
	rtr.Shutdown()
	for _, ln := range listeners {
		_ = ln.Close()
	}
	wg.Wait()
	return nil
}

// seedShardOnAttach waits for a worker to attach to shard, then reads
// every source file under root and pushes it as that shard's initial
// IndexShard request. The router has no attach-completion callback, so
// this polls Router.IsAttached at a short interval rather than racing
// the handshake goroutine Serve spawns per accepted connection.
func seedShardOnAttach(ctx context.Context, rtr *router.Router, shard router.ShardID, root string, excludeGlobs []string, logger zerolog.Logger) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if rtr.IsAttached(shard) {
				seedShard(ctx, rtr, shard, root, excludeGlobs, logger)
				return
			}
		}
	}
}

func seedShard(ctx context.Context, rtr *router.Router, shard router.ShardID, root string, excludeGlobs []string, logger zerolog.Logger) {
	paths, err := vfs.ExpandSourceRoot(root, excludeGlobs)
	if err != nil {
		logger.Error().Uint32("shard_id", uint32(shard)).Err(err).Msg("expand source root")
		return
	}

	files := make([]rpc.FileText, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			logger.Warn().Str("path", p).Err(err).Msg("skip unreadable source file")
			continue
		}
		files = append(files, rpc.FileText{Path: p, Text: string(data)})
	}

	resp, err := rtr.Call(ctx, root, rpc.Request{
		Kind:       rpc.RequestIndexShard,
		IndexShard: &rpc.IndexShardRequest{Revision: 1, Files: files},
	})
	if err != nil {
		logger.Error().Uint32("shard_id", uint32(shard)).Err(err).Msg("seed index_shard failed")
		return
	}
	event := logger.Info().Uint32("shard_id", uint32(shard)).Int("files", len(files))
	if resp.IndexDigest != nil {
		event = event.Uint64("revision", resp.IndexDigest.Revision)
	}
	event.Msg("shard seeded")
}

func listen(addr string, tlsConfig *router.ServerTLSConfig) (net.Listener, error) {
	if tlsConfig == nil {
		return net.Listen("tcp", addr)
	}
	conf, err := tlsConfig.Build()
	if err != nil {
		return nil, err
	}
	return tls.Listen("tcp", addr, conf)
}

func serverTLSConfig(cfg *config.Config) (*router.ServerTLSConfig, error) {
	if cfg.TLSCertFile == "" {
		return nil, nil
	}
	return &router.ServerTLSConfig{
		CertFile:          cfg.TLSCertFile,
		KeyFile:           cfg.TLSKeyFile,
		ClientCAFile:      cfg.TLSClientCA,
		RequireClientAuth: cfg.RequireMTLS,
	}, nil
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(parsed).With().Timestamp().Logger()
}
