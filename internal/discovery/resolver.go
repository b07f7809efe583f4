package discovery

import (
	"context"
	"fmt"
	"net/netip"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/muurk/raopbridge/internal/logging"
	"github.com/muurk/raopbridge/internal/resolved"
	"github.com/muurk/raopbridge/internal/rr"
)

// DefaultEventBuffer sizes the discovery event channel. The consumer drains
// at most one event per tick, so bursts queue here; the design accepts
// unbounded growth and this buffer merely keeps the common case from ever
// blocking the producer.
const DefaultEventBuffer = 1024

// LoopConfig configures an endpoint resolver loop. Zero values fall back to
// the package defaults.
type LoopConfig struct {
	Browser  resolved.Browser
	Resolver resolved.ServiceResolver
	Service  string
	Family   int32 // resolved.FamilyIPv4 or FamilyIPv6; one family at a time
	Flags    uint64
	Interval time.Duration
	Clock    clock.Clock

	// Events receives one Endpoint per resolved address. Done signals
	// that the consumer is gone; the next emission attempt then
	// terminates the loop permanently.
	Events chan<- Endpoint
	Done   <-chan struct{}
}

// Loop is the endpoint resolver loop. It browses on its own cadence,
// independent of the presence reconciler, and reacts to every cycle without
// damping: a transiently missing receiver simply produces no events that
// cycle.
type Loop struct {
	cfg LoopConfig
}

// NewLoop creates a resolver loop with defaults applied.
func NewLoop(cfg LoopConfig) *Loop {
	if cfg.Service == "" {
		cfg.Service = DefaultServiceName
	}
	if cfg.Family == 0 {
		cfg.Family = resolved.FamilyIPv4
	}
	if cfg.Flags == 0 {
		// Browse over mDNS on the matching protocol family only.
		if cfg.Family == resolved.FamilyIPv6 {
			cfg.Flags = resolved.FlagMDNSIPv6
		} else {
			cfg.Flags = resolved.FlagMDNSIPv4
		}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return &Loop{cfg: cfg}
}

// Run polls until ctx is cancelled or the event consumer goes away. Query
// failures abandon the cycle and are retried at the next interval.
func (l *Loop) Run(ctx context.Context) {
	ticker := l.cfg.Clock.Ticker(l.cfg.Interval)
	defer ticker.Stop()

	for {
		if !l.cycle(ctx) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// cycle performs one browse-resolve-emit pass. It returns false when the
// loop must terminate (consumer gone).
func (l *Loop) cycle(ctx context.Context) bool {
	logging.Debug("scanning", zap.Int32("family", l.cfg.Family))

	records, err := l.cfg.Browser.ResolveRecord(ctx, resolved.IfindexAny,
		l.cfg.Service, rr.ClassIN, rr.TypePTR, l.cfg.Flags)
	if err != nil {
		logging.Error("browse query failed", zap.String("service", l.cfg.Service), zap.Error(err))
		return true
	}

	for _, raw := range records {
		rec, _, err := rr.ParseRR(raw.Data)
		if err != nil {
			logging.Warn("undecodable browse record", zap.Error(err))
			continue
		}
		if raw.Type != rr.TypePTR || rec.Type != rr.TypePTR {
			logging.Warn("received non-ptr record on ptr request",
				zap.Uint16("answer_type", raw.Type), zap.Uint16("record_type", rec.Type))
			continue
		}
		domain, _, err := rr.ParseName(rec.RData)
		if err != nil {
			logging.Warn("undecodable pointer target", zap.String("name", rec.Name), zap.Error(err))
			continue
		}
		if !l.resolveTarget(ctx, domain) {
			return false
		}
	}
	return true
}

// resolveTarget resolves one service instance and emits an Endpoint per
// valid address. It returns false when the consumer is gone.
func (l *Loop) resolveTarget(ctx context.Context, domain string) bool {
	srvs, rawTxts, err := l.cfg.Resolver.ResolveService(ctx, resolved.IfindexAny,
		"", "", domain, l.cfg.Family, 0)
	if err != nil {
		logging.Warn("service resolution failed", zap.String("domain", domain), zap.Error(err))
		return true
	}

	txts := make([]string, len(rawTxts))
	for i, raw := range rawTxts {
		txts[i] = string(raw)
	}

	for _, srv := range srvs {
		for _, ha := range srv.Addresses {
			addr, err := SocketAddr(ha, srv.Port)
			if err != nil {
				logging.Warn("skipping address", zap.String("domain", domain), zap.Error(err))
				continue
			}
			ep := Endpoint{Hostname: srv.Hostname, Addr: addr, Text: txts}
			select {
			case l.cfg.Events <- ep:
			case <-l.cfg.Done:
				logging.Info("event consumer is gone, stopping resolver loop")
				return false
			case <-ctx.Done():
				return false
			}
		}
	}
	return true
}

// SocketAddr constructs a socket address from a resolver address tuple.
// Link-local unicast IPv6 addresses embed the interface index as their
// zone; everything else carries none.
func SocketAddr(ha resolved.HostAddress, port uint16) (netip.AddrPort, error) {
	switch {
	case ha.Family == resolved.FamilyIPv6 && len(ha.Address) == 16:
		addr, _ := netip.AddrFromSlice(ha.Address)
		if addr.IsLinkLocalUnicast() && ha.Ifindex != 0 {
			addr = addr.WithZone(strconv.Itoa(int(ha.Ifindex)))
		}
		return netip.AddrPortFrom(addr, port), nil
	case ha.Family == resolved.FamilyIPv4 && len(ha.Address) == 4:
		addr, _ := netip.AddrFromSlice(ha.Address)
		return netip.AddrPortFrom(addr, port), nil
	default:
		return netip.AddrPort{}, fmt.Errorf("unknown address family %d with %d-byte address",
			ha.Family, len(ha.Address))
	}
}
