package bridge

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/muurk/raopbridge/internal/config"
	"github.com/muurk/raopbridge/internal/discovery"
	"github.com/muurk/raopbridge/internal/logging"
	"github.com/muurk/raopbridge/internal/resolved"
	"github.com/muurk/raopbridge/internal/tunnel"
)

// Bridge owns the three execution contexts of the daemon: the presence
// reconciler, the endpoint resolver loop, and the tunnel registry. The
// first two run on their own goroutines; the registry runs on the
// goroutine calling Start.
type Bridge struct {
	cfg      *config.Config
	client   *resolved.Client // nil when the zeroconf backend is active
	presence *discovery.Reconciler
	loop     *discovery.Loop
	registry *tunnel.Registry

	// done signals the resolver loop that the event consumer is gone.
	done chan struct{}
}

// New wires up a bridge from the configuration. Connecting to the resolver
// backend is the only fatal step; everything after startup retries on its
// polling cadence.
func New(cfg *config.Config) (*Bridge, error) {
	if err := logging.Initialize(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Bridge{
		cfg:  cfg,
		done: make(chan struct{}),
	}

	var browser resolved.Browser
	var svcResolver resolved.ServiceResolver
	switch cfg.Backend {
	case config.BackendZeroconf:
		backend := resolved.NewZeroconfBackend()
		browser, svcResolver = backend, backend
	default:
		client, err := resolved.NewClient()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to resolver service: %w", err)
		}
		b.client = client
		browser, svcResolver = client, client
	}

	events := make(chan discovery.Endpoint, discovery.DefaultEventBuffer)

	b.presence = discovery.NewReconciler(discovery.ReconcilerConfig{
		Browser:     browser,
		Service:     cfg.Service,
		Interval:    cfg.PollDuration(),
		RetryBudget: cfg.RetryBudget,
	})
	b.loop = discovery.NewLoop(discovery.LoopConfig{
		Browser:  browser,
		Resolver: svcResolver,
		Service:  cfg.Service,
		Family:   cfg.Family(),
		Interval: cfg.PollDuration(),
		Events:   events,
		Done:     b.done,
	})
	b.registry = tunnel.NewRegistry(tunnel.RegistryConfig{
		Loader:   &tunnel.PWCLILoader{},
		Module:   cfg.SinkModule,
		Events:   events,
		Interval: cfg.DrainDuration(),
	})

	return b, nil
}

// Start runs the bridge until SIGINT/SIGTERM. The presence reconciler and
// the resolver loop get their own goroutines; the registry consumer runs
// here.
func (b *Bridge) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("starting raopbridge",
		zap.String("service", b.cfg.Service),
		zap.String("backend", b.cfg.Backend),
		zap.String("address_family", b.cfg.AddressFamily),
		zap.String("sink_module", b.cfg.SinkModule),
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		b.presence.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		b.loop.Run(ctx)
	}()

	b.registry.Run(ctx)

	// Consumer is gone; wake the resolver loop if it is mid-emission.
	close(b.done)
	wg.Wait()

	if b.client != nil {
		if err := b.client.Close(); err != nil {
			logging.Warn("closing resolver connection", zap.Error(err))
		}
	}

	logging.Info("raopbridge stopped")
	logging.Sync()
	return nil
}
