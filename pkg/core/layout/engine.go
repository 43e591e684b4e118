package layout

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dockgrid/pkg/core/dock"
	"github.com/matzehuels/dockgrid/pkg/errors"
	"github.com/matzehuels/dockgrid/pkg/layoutio"
	"github.com/matzehuels/dockgrid/pkg/observability"
	"github.com/matzehuels/dockgrid/pkg/store"
)

// Options configures an Engine. The zero value is usable: an empty default
// layout, no persistence, and the default logger.
type Options struct {
	// Store persists the layout. Nil disables persistence.
	Store store.Store

	// Key is the store key, e.g. from [store.Keyer.LayoutKey].
	Key string

	// Format is the encoding written to the store. Defaults to JSON.
	Format layoutio.Format

	// Sizing holds panel defaults. Zero fields fall back to built-ins.
	Sizing dock.Sizing

	// Logger receives operation logs. Nil uses log.Default().
	Logger *log.Logger

	// AutoSave persists after every successful operation.
	AutoSave bool

	// Initial is the starting snapshot. Nil starts from [Default].
	Initial *Snapshot
}

// Engine serializes operations on a layout. All methods are safe for
// concurrent use; snapshots it hands out are immutable.
type Engine struct {
	mu        sync.Mutex
	snap      Snapshot
	reg       *Registry
	opts      Options
	logger    *log.Logger
	listeners []func(ActiveViewChange)
}

// NewEngine creates an engine.
func NewEngine(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Store == nil {
		opts.Store = store.NewNullStore()
	}
	if opts.Format == "" {
		opts.Format = layoutio.JSON
	}
	if opts.Key == "" {
		opts.Key = store.NewDefaultKeyer().LayoutKey("")
	}
	snap := Default(opts.Sizing)
	if opts.Initial != nil {
		snap = *opts.Initial
	}
	return &Engine{
		snap:   snap,
		reg:    NewRegistry(snap),
		opts:   opts,
		logger: opts.Logger,
	}
}

// Snapshot returns the current snapshot.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap
}

// Registry returns the index of the current snapshot.
func (e *Engine) Registry() *Registry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reg
}

// OnActiveViewChange registers fn to be called, after each operation, for
// every part whose active view changed. Listeners run synchronously on the
// applying goroutine, after the engine lock is released.
func (e *Engine) OnActiveViewChange(fn func(ActiveViewChange)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Apply runs op and makes the result current. On error the current
// snapshot is unchanged. With AutoSave, the new snapshot is current even if
// persisting it fails; the store error is returned.
func (e *Engine) Apply(ctx context.Context, op Operation) (Snapshot, error) {
	if op == nil {
		return e.Snapshot(), errors.New(errors.ErrCodeInvalidInput, "nil operation")
	}
	name := op.Name()
	hooks := observability.Layout()
	hooks.OnOperationStart(ctx, name)
	start := time.Now()

	e.mu.Lock()
	next, err := Apply(e.snap, op)
	if err != nil {
		rev := e.snap.Revision
		e.mu.Unlock()
		hooks.OnOperationComplete(ctx, name, rev, time.Since(start), err)
		e.logger.Debug("operation rejected", "op", name, "err", err)
		return next, err
	}
	notify := e.install(next)
	var saveErr error
	if e.opts.AutoSave {
		saveErr = e.save(ctx, next)
	}
	e.mu.Unlock()

	elapsed := time.Since(start)
	hooks.OnOperationComplete(ctx, name, next.Revision, elapsed, nil)
	e.logger.Debug("operation applied", "op", name, "revision", next.Revision, "duration", elapsed)

	notify(ctx)
	return next, saveErr
}

// Save writes the current snapshot to the store.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.save(ctx, e.snap)
}

func (e *Engine) save(ctx context.Context, s Snapshot) error {
	data, err := Marshal(s, e.opts.Format)
	if err != nil {
		return err
	}
	if err := e.opts.Store.Save(ctx, e.opts.Key, data); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	e.logger.Debug("layout saved", "key", e.opts.Key, "revision", s.Revision, "bytes", len(data))
	return nil
}

// Load replaces the current snapshot with the stored one. It reports false,
// leaving the engine unchanged, when nothing is stored under the key.
func (e *Engine) Load(ctx context.Context) (bool, error) {
	data, ok, err := e.opts.Store.Load(ctx, e.opts.Key)
	if err != nil {
		return false, fmt.Errorf("load layout: %w", err)
	}
	if !ok {
		return false, nil
	}
	s, err := Unmarshal(data, e.opts.Format, e.opts.Sizing)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	notify := e.install(s)
	e.mu.Unlock()

	e.logger.Debug("layout loaded", "key", e.opts.Key, "revision", s.Revision)
	notify(ctx)
	return true, nil
}

// Reset drops the stored layout and returns to the default snapshot.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.opts.Store.Delete(ctx, e.opts.Key); err != nil {
		return fmt.Errorf("reset layout: %w", err)
	}
	s := Default(e.opts.Sizing)
	e.mu.Lock()
	notify := e.install(s)
	e.mu.Unlock()

	e.logger.Debug("layout reset", "key", e.opts.Key)
	notify(ctx)
	return nil
}

// Replace validates s and makes it current, keeping the revision counter
// monotonic. It is how imported layouts enter a running engine. Listeners
// see the active-view changes as for an operation.
func (e *Engine) Replace(ctx context.Context, s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	if s.Revision <= e.snap.Revision {
		s.Revision = e.snap.Revision + 1
	}
	notify := e.install(s)
	var saveErr error
	if e.opts.AutoSave {
		saveErr = e.save(ctx, s)
	}
	e.mu.Unlock()

	e.logger.Debug("layout replaced", "revision", s.Revision)
	notify(ctx)
	return saveErr
}

// install makes s current. The caller holds e.mu and calls the returned
// func, which reports the active-view changes, after releasing it.
func (e *Engine) install(s Snapshot) func(context.Context) {
	prev := e.reg
	e.snap = s
	e.reg = NewRegistry(s)
	changes := ActiveViewChanges(prev, e.reg)
	listeners := slices.Clone(e.listeners)
	return func(ctx context.Context) {
		notifyChanges(ctx, changes, listeners)
	}
}

func notifyChanges(ctx context.Context, changes []ActiveViewChange, listeners []func(ActiveViewChange)) {
	hooks := observability.Layout()
	for _, c := range changes {
		hooks.OnActiveViewChange(ctx, c.PartID, c.Previous, c.Current)
		for _, fn := range listeners {
			fn(c)
		}
	}
}
