package tunnel

import (
	"context"
	"net/netip"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/muurk/raopbridge/internal/discovery"
	"github.com/muurk/raopbridge/internal/logging"
)

// DefaultDrainInterval is the consumer tick period. One pending endpoint is
// taken per tick at most.
const DefaultDrainInterval = time.Millisecond

// slowTickThreshold is how long a consumer tick may take before it gets a
// debug log entry.
const slowTickThreshold = time.Millisecond

// Key is the deduplication identity of a tunnel: two endpoints with the
// same hostname and socket address never both yield a sink.
type Key struct {
	Hostname string
	Addr     netip.AddrPort
}

// Tunnel is one created sink. The handle lives as long as the process;
// there is no disposal path.
type Tunnel struct {
	Handle Handle
}

// RegistryConfig configures the endpoint consumer. Zero values fall back to
// the package defaults.
type RegistryConfig struct {
	Loader   Loader
	Module   string
	Events   <-chan discovery.Endpoint
	Interval time.Duration
	Clock    clock.Clock
}

// Registry drains the discovery event channel and creates exactly one sink
// per unique endpoint. The tunnel map is owned by the goroutine running
// Run; no locking, no other writers.
type Registry struct {
	cfg     RegistryConfig
	tunnels map[Key]Tunnel
}

// NewRegistry creates a registry with defaults applied.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Module == "" {
		cfg.Module = DefaultSinkModule
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultDrainInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return &Registry{
		cfg:     cfg,
		tunnels: make(map[Key]Tunnel),
	}
}

// Run ticks until ctx is cancelled or the event channel is closed.
func (r *Registry) Run(ctx context.Context) {
	ticker := r.cfg.Clock.Ticker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			open := r.Tick()
			if elapsed := time.Since(start); elapsed > slowTickThreshold {
				logging.Debug("slow consumer tick", zap.Duration("took", elapsed))
			}
			if !open {
				logging.Info("event channel closed, stopping registry")
				return
			}
		}
	}
}

// Tick performs one bounded unit of consumer work: a zero-timeout attempt
// to take a single pending endpoint. It never blocks. The return value is
// false once the event channel has been closed and drained.
func (r *Registry) Tick() bool {
	select {
	case ep, ok := <-r.cfg.Events:
		if !ok {
			return false
		}
		r.handle(ep)
		return true
	default:
		return true
	}
}

// Len reports how many tunnels exist.
func (r *Registry) Len() int {
	return len(r.tunnels)
}

// handle creates a sink for ep unless its key is already registered.
func (r *Registry) handle(ep discovery.Endpoint) {
	key := Key{Hostname: ep.Hostname, Addr: ep.Addr}
	if _, ok := r.tunnels[key]; ok {
		return
	}

	props := PropertiesFromEndpoint(ep)
	handle, err := r.cfg.Loader.Load(r.cfg.Module, props.Serialize())
	if err != nil {
		// Creation is attempted once per key; a failed handle is kept so
		// the endpoint is not retried every cycle.
		logging.Error("sink creation failed",
			zap.String("hostname", key.Hostname),
			zap.String("addr", key.Addr.String()),
			zap.Error(err))
	}

	logging.Info("discovered new tunnel",
		zap.String("hostname", key.Hostname),
		zap.String("addr", key.Addr.String()),
		zap.String("name", props.DisplayName))
	r.tunnels[key] = Tunnel{Handle: handle}
}
