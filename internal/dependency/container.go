// Package dependency wires core shellchat services using go.uber.org/dig.
package dependency

import (
	"errors"
	"io"
	"os"

	"go.uber.org/dig"

	"github.com/crystaldolphin/shellchat/internal/agent"
	"github.com/crystaldolphin/shellchat/internal/config"
	"github.com/crystaldolphin/shellchat/internal/cron"
	"github.com/crystaldolphin/shellchat/internal/providers"
	"github.com/crystaldolphin/shellchat/internal/singleton"
	"github.com/crystaldolphin/shellchat/internal/store"
	"github.com/crystaldolphin/shellchat/internal/tools"
	"github.com/crystaldolphin/shellchat/internal/ui"
)

// ProviderName is a named string type so dig can distinguish the selected
// provider from plain strings.
type ProviderName string

// Options are the values chosen at startup rather than read from config.
type Options struct {
	// Provider overrides cfg.Provider (e.g. from the interactive menu).
	Provider string
	// Out receives chat output. Nil means os.Stdout.
	Out io.Writer
}

// Container resolves services lazily: a command only builds what it asks
// for, so listing sessions never needs an API key.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	d       *dig.Container
	closers []func() error
}

// New registers all constructors. Nothing is built until a getter is called.
func New(cfg *config.Config, opts Options) (*Container, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Provider == "" {
		opts.Provider = cfg.Provider
	}

	c := &Container{d: dig.New()}
	ctors := []any{
		func() *config.Config { return cfg },
		func() ProviderName { return ProviderName(opts.Provider) },
		func() *ui.Printer { return ui.NewPrinter(opts.Out) },
		newProviderClient,
		c.newStoreLock,
		c.newStore,
		newToolRegistry,
		tools.NewDispatcher,
		newEngineFactory,
		newJobStore,
	}
	for _, ctor := range ctors {
		if err := c.d.Provide(ctor); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Close releases everything that was built, in reverse order.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Container) Printer() (*ui.Printer, error) { return resolve[*ui.Printer](c) }
func (c *Container) Store() (store.Store, error) { return resolve[store.Store](c) }
func (c *Container) EngineFactory() (*agent.EngineFactory, error) {
	return resolve[*agent.EngineFactory](c)
}
func (c *Container) JobStore() (*cron.JobStore, error) { return resolve[*cron.JobStore](c) }

func resolve[T any](c *Container) (T, error) {
	var out T
	err := c.d.Invoke(func(v T) { out = v })
	if err != nil {
		// Surface the constructor's own error rather than dig's wrapping.
		err = dig.RootCause(err)
	}
	return out, err
}

func newProviderClient(cfg *config.Config, name ProviderName) (*providers.Client, error) {
	params, err := cfg.ProviderParams(string(name))
	if err != nil {
		return nil, err
	}
	return providers.New(params)
}

func (c *Container) newStoreLock(cfg *config.Config) (*singleton.Lock, error) {
	lock, err := singleton.Acquire(cfg.StorePath())
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, lock.Release)
	return lock, nil
}

// The lock parameter orders construction: the store is opened only once
// this process owns it.
func (c *Container) newStore(cfg *config.Config, _ *singleton.Lock) (store.Store, error) {
	s, err := store.Open(cfg.Store.Driver, cfg.StorePath())
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, s.Close)
	return s, nil
}

func newToolRegistry(cfg *config.Config) *tools.Registry {
	return tools.NewRegistryBuilder().
		WithTool(tools.NewShellTool(cfg.Tools.Shell.Interpreter, cfg.Tools.Shell.WorkingDir)).
		WithTool(tools.NewSearchTool(cfg.Tools.Web.Search.Endpoint, cfg.SearchTimeout())).
		Build()
}

func newEngineFactory(
	client *providers.Client,
	dispatcher *tools.Dispatcher,
	s store.Store,
	printer *ui.Printer,
) *agent.EngineFactory {
	return agent.NewFactory(client, dispatcher, s, printer)
}

func newJobStore() *cron.JobStore {
	return cron.NewJobStore(config.CronJobsPath())
}
