package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/api"
	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/observability/prom"
	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/store"
)

const shutdownTimeout = 10 * time.Second

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr       string
	redis      cache.RedisConfig
	cacheScope string
	mongo      store.MongoConfig
	noMetrics  bool
	maxBody    int64
}

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout API",
		Long: `Run the HTTP layout API.

Layouts and exports are cached in memory, or in Redis with --redis-addr so
several servers share them. Charts are stored in memory, or in MongoDB with
--mongo-uri. Prometheus metrics are served at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.addr, "addr", "localhost:8080", "listen address")
	fs.StringVar(&opts.redis.Addr, "redis-addr", "", "Redis address for the layout cache (default: in-memory cache)")
	fs.StringVar(&opts.redis.Password, "redis-password", "", "Redis password")
	fs.IntVar(&opts.redis.DB, "redis-db", 0, "Redis database")
	fs.StringVar(&opts.redis.Prefix, "redis-prefix", appName+":", "prefix of Redis keys")
	fs.StringVar(&opts.cacheScope, "cache-scope", "", "namespace cache keys, e.g. per deployment")
	fs.StringVar(&opts.mongo.URI, "mongo-uri", "", "MongoDB URI for stored charts (default: in-memory store)")
	fs.StringVar(&opts.mongo.Database, "mongo-db", appName, "MongoDB database")
	fs.BoolVar(&opts.noMetrics, "no-metrics", false, "do not serve Prometheus metrics")
	fs.Int64Var(&opts.maxBody, "max-body", api.DefaultMaxBodyBytes, "maximum request body size in bytes")

	return cmd
}

// newServeRunner creates the runner of the API from the backend flags.
func (c *CLI) newServeRunner(ctx context.Context, opts serveOpts) (*pipeline.Runner, error) {
	var ch cache.Cache = cache.NewMemoryCache()
	if opts.redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, opts.redis)
		if err != nil {
			return nil, err
		}
		ch = rc
		c.Logger.Info("using redis cache", "addr", opts.redis.Addr)
	}

	keyer := cache.NewDefaultKeyer()
	if opts.cacheScope != "" {
		keyer = cache.NewScopedKeyer(keyer, opts.cacheScope)
	}
	runner := pipeline.NewRunner(ch, keyer, c.Logger)

	if opts.mongo.URI != "" {
		st, err := store.NewMongoStore(ctx, opts.mongo)
		if err != nil {
			_ = runner.Close()
			return nil, err
		}
		runner.Store = st
		c.Logger.Info("using mongodb store", "database", opts.mongo.Database)
	} else {
		runner.Store = store.NewMemoryStore()
	}
	return runner, nil
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	runner, err := c.newServeRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	cfg := api.Config{Runner: runner, Logger: c.Logger, MaxBodyBytes: opts.maxBody}
	if !opts.noMetrics {
		if _, err := prom.Install(prom.Config{Registerer: prometheus.DefaultRegisterer}); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		cfg.Metrics = promhttp.Handler()
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           api.New(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	ln, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return err
	}
	c.printSuccess("Serving on http://%s", ln.Addr())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
