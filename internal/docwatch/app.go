package docwatch

import (
	"context"
	"fmt"

	"github.com/bft-labs/axiom/internal/cliconfig"
	"github.com/bft-labs/axiom/internal/filewatch"
	"github.com/bft-labs/axiom/pkg/loading"
	"github.com/bft-labs/axiom/pkg/log"
	"github.com/bft-labs/axiom/pkg/scheduler"
	"github.com/bft-labs/axiom/pkg/state"
)

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger for document state changes.
func WithLogger(logger log.Logger) Option {
	return func(a *App) {
		a.logger = log.OrNoop(logger)
	}
}

// WithEventHandler forwards scheduler events, for example to metrics.
func WithEventHandler(handler scheduler.EventHandler) Option {
	return func(a *App) {
		a.events = handler
	}
}

// App watches one document and keeps it loaded.
type App struct {
	cfg    cliconfig.Config
	logger log.Logger
	events scheduler.EventHandler
	store  *state.Store[State]
}

// New creates an App for a validated cfg.
func New(cfg cliconfig.Config, opts ...Option) *App {
	a := &App{
		cfg:    cfg,
		logger: log.NewNoopLogger(),
		store:  state.NewStore(InitialState(cfg.File)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Store returns the document store.
func (a *App) Store() *state.Store[State] {
	return a.store
}

// Run loads the document and, unless cfg.Once is set, reloads it on every
// change until ctx is done. In once mode a failed load is returned as an
// error.
func (a *App) Run(ctx context.Context) error {
	schedOpts := []scheduler.Option{
		scheduler.WithLogger(a.logger),
		scheduler.WithShutdownTimeout(a.cfg.ShutdownTimeout),
	}
	if a.events != nil {
		schedOpts = append(schedOpts, scheduler.WithEventHandler(a.events))
	}
	sch := scheduler.New(ctx, a.store, schedOpts...)
	defer func() {
		if err := sch.Close(); err != nil {
			a.logger.Warn("scheduler shutdown", log.Err(err))
		}
	}()

	if a.cfg.Once {
		return a.runOnce(ctx, sch)
	}
	return a.watch(ctx, sch)
}

func (a *App) runOnce(ctx context.Context, sch *scheduler.Scheduler[State]) error {
	job := scheduler.Run(sch, LoadCommand(), Request{Path: a.cfg.File, Revision: 1})
	if err := job.Wait(ctx); err != nil {
		return err
	}

	s := a.store.CurrentState()
	a.report(s)
	if s.Load.IsError() {
		return fmt.Errorf("load %s: %w", s.Path, s.Load.Cause())
	}
	return nil
}

func (a *App) watch(ctx context.Context, sch *scheduler.Scheduler[State]) error {
	mode := scheduler.Latest
	if a.cfg.Mode == cliconfig.ModeSequential {
		mode = scheduler.Sequential
	}

	changes, err := filewatch.New(a.cfg.File,
		filewatch.WithDebounce(a.cfg.Debounce),
		filewatch.WithLogger(a.logger),
	).Watch(ctx)
	if err != nil {
		return err
	}

	sub := a.store.Observe(ctx)
	defer sub.Close()

	scheduler.ReduceInto[State, filewatch.Change](sch, changes, OnChange)
	scheduler.RunOn(sch, Requests(), LoadCommand(), mode)

	a.logger.Info("watching document",
		log.String("file", a.cfg.File),
		log.Stringer("mode", mode),
	)

	var last State
	for s := range sub.C() {
		if s.Load.Equal(last.Load) && s.Revision == last.Revision {
			continue
		}
		a.report(s)
		last = s
	}
	return nil
}

func (a *App) report(s State) {
	fields := []log.Field{
		log.String("file", s.Path),
		log.Uint64("revision", s.Revision),
		log.Stringer("load", s.Load.Kind),
	}
	switch s.Load.Kind {
	case loading.KindSuccess:
		if s.Doc != nil {
			fields = append(fields, log.Any("keys", s.Doc.Keys()))
		}
		a.logger.Info("document loaded", fields...)
	case loading.KindError:
		a.logger.Warn("document failed to load", append(fields, log.Err(s.Load.Cause()))...)
	default:
		a.logger.Debug("document state", fields...)
	}
}
