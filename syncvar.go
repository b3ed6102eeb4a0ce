package syncvar

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/syncvar/internal/logging"
	"github.com/aretw0/syncvar/pkg/domain"
	"github.com/aretw0/syncvar/pkg/observability"
	"github.com/aretw0/syncvar/pkg/polling"
	"github.com/aretw0/syncvar/pkg/ports"
	"github.com/aretw0/syncvar/pkg/proxytree"
)

// Version is the library version.
const Version = "0.1.0"

// Binder associates variable names with wrapped trees and dispatches their changes to sinks.
// The registry is safe for concurrent use; the trees themselves are not.
type Binder struct {
	mu    sync.RWMutex
	vars  map[string]*binding
	conns map[string]*Connection

	sinks  []ports.Sink
	logger *slog.Logger
}

// Option defines a functional option for configuring the Binder.
type Option func(*Binder)

// WithLogger sets the structured logger used for the default log sink and sink failures.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		b.logger = logger
	}
}

// WithSinks adds sinks. When no sink is configured the binder logs every change.
func WithSinks(sinks ...ports.Sink) Option {
	return func(b *Binder) {
		b.sinks = append(b.sinks, sinks...)
	}
}

// New creates a Binder.
func New(opts ...Option) *Binder {
	b := &Binder{
		vars:  make(map[string]*binding),
		conns: make(map[string]*Connection),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	if len(b.sinks) == 0 {
		b.sinks = []ports.Sink{observability.NewLogSink(b.logger)}
	}
	return b
}

// binding is the registry entry of a name. Its node is nil while the tree is being built.
type binding struct {
	node *proxytree.Node
}

// Bind wraps a copy of value under name and returns the tree to mutate.
func (b *Binder) Bind(name string, value any) (*proxytree.Node, error) {
	bnd, err := b.reserve(name)
	if err != nil {
		return nil, err
	}

	node, err := proxytree.Construct(value, b.onChange(name, bnd))
	if err != nil {
		b.release(name)
		return nil, err
	}

	b.store(bnd, node)
	return node, nil
}

// BindScope wraps scope[key] in place and binds the resulting tree under name.
func (b *Binder) BindScope(name string, scope map[string]any, key string) error {
	bnd, err := b.reserve(name)
	if err != nil {
		return err
	}

	if err := proxytree.Wrap(scope, key, b.onChange(name, bnd)); err != nil {
		b.release(name)
		return err
	}

	b.store(bnd, scope[key].(*proxytree.Node))
	return nil
}

// Lookup returns the tree bound under name.
func (b *Binder) Lookup(name string) (*proxytree.Node, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	bnd, ok := b.vars[name]
	if !ok || bnd.node == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrVariableNotFound, name)
	}
	return bnd.node, nil
}

// Names returns the bound variable names, sorted.
func (b *Binder) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.vars))
	for name, bnd := range b.vars {
		if bnd.node != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Unbind forgets name. The tree keeps working but its changes are no longer dispatched,
// even if name is bound again later.
func (b *Binder) Unbind(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.vars, name)
	delete(b.conns, name)
}

// Connect validates cfg and returns a placeholder connection for name.
// No network I/O is performed.
func (b *Binder) Connect(ctx context.Context, name string, cfg ConnectConfig) (*Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conn := &Connection{
		Name:    name,
		Config:  cfg,
		handler: cfg.handler(),
	}

	b.mu.Lock()
	b.conns[name] = conn
	b.mu.Unlock()

	b.logger.DebugContext(ctx, "connect is a placeholder, no transport started",
		"variable", name,
		"method", cfg.Method,
		"host", cfg.Host,
	)
	return conn, nil
}

// reserve claims name with an empty binding so concurrent binds of the same name fail.
func (b *Binder) reserve(name string) (*binding, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.vars[name]; exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyBound, name)
	}
	bnd := &binding{}
	b.vars[name] = bnd
	return bnd, nil
}

func (b *Binder) release(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.vars, name)
}

func (b *Binder) store(bnd *binding, node *proxytree.Node) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bnd.node = node
}

func (b *Binder) onChange(name string, bnd *binding) domain.ChangeFunc {
	return func(change domain.Change) {
		b.mu.RLock()
		current := b.vars[name]
		conn := b.conns[name]
		b.mu.RUnlock()

		if current != bnd {
			return
		}

		ctx := context.Background()
		for _, sink := range b.sinks {
			if err := sink.Record(ctx, name, change); err != nil {
				b.logger.Error("sink failed to record change",
					"variable", name,
					"path", change.Path,
					"err", err,
				)
			}
		}
		if conn != nil {
			conn.handler.OnChange(name, change)
		}
	}
}

// Connection is the placeholder returned by Connect.
type Connection struct {
	Name   string
	Config ConnectConfig

	handler polling.Handler
}

// Handler returns the polling handler selected by the connection's method.
func (c *Connection) Handler() polling.Handler {
	return c.handler
}
