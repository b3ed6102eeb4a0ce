package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/syncvar"
	"github.com/aretw0/syncvar/internal/logging"
	"github.com/aretw0/syncvar/pkg/adapters/memory"
	"github.com/aretw0/syncvar/pkg/adapters/redis"
	"github.com/aretw0/syncvar/pkg/observability"
	"github.com/aretw0/syncvar/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
)

// Options are the CLI settings shared by every command.
type Options struct {
	LogLevel    string
	LogJSON     bool
	RedisAddr   string
	RedisPrefix string
	JournalTTL  time.Duration
}

// Runtime is the wired set of collaborators a command works with.
type Runtime struct {
	Binder   *syncvar.Binder
	Journal  ports.Journal
	Registry *prometheus.Registry
	Logger   *slog.Logger

	closers []func() error
}

// NewRuntime wires logger, journal, metrics and binder with standard CLI conventions.
// The journal is Redis when RedisAddr is set, in memory otherwise.
func NewRuntime(ctx context.Context, opts Options) (*Runtime, error) {
	level := slog.LevelInfo
	if opts.LogLevel != "" {
		var err error
		if level, err = logging.ParseLevel(opts.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.LogLevel, err)
		}
	}
	rt := &Runtime{
		Logger:   logging.NewWriter(logWriter, level, opts.LogJSON),
		Registry: prometheus.NewRegistry(),
	}

	if opts.RedisAddr != "" {
		journal, err := newRedisJournal(ctx, opts)
		if err != nil {
			return nil, err
		}
		rt.Journal = journal
		rt.closers = append(rt.closers, journal.Close)
	} else {
		rt.Journal = memory.NewJournal()
	}

	metrics, err := observability.NewMetrics(rt.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	rt.Binder = syncvar.New(
		syncvar.WithLogger(rt.Logger),
		syncvar.WithSinks(
			observability.NewLogSink(rt.Logger),
			metrics,
			observability.NewJournalSink(rt.Journal),
		),
	)
	return rt, nil
}

func newRedisJournal(ctx context.Context, opts Options) (*redis.Journal, error) {
	client := backend.NewClient(&backend.Options{Addr: opts.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", opts.RedisAddr, err)
	}

	var journalOpts []redis.Option
	if opts.RedisPrefix != "" {
		journalOpts = append(journalOpts, redis.WithPrefix(opts.RedisPrefix))
	}
	if opts.JournalTTL > 0 {
		journalOpts = append(journalOpts, redis.WithTTL(opts.JournalTTL))
	}
	return redis.NewFromClient(client, journalOpts...), nil
}

// Close releases the runtime's connections.
func (r *Runtime) Close() error {
	var errs []error
	for _, closer := range r.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
