package discovery

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/muurk/raopbridge/internal/logging"
	"github.com/muurk/raopbridge/internal/resolved"
	"github.com/muurk/raopbridge/internal/rr"
)

const (
	// DefaultServiceName is the well-known browse identity of RAOP
	// (AirPlay audio) receivers.
	DefaultServiceName = "_raop._tcp.local"

	// DefaultPollInterval is how often both discovery loops query the
	// resolver.
	DefaultPollInterval = 3 * time.Second

	// DefaultRetryBudget is how many consecutive empty cycles a candidate
	// survives before being declared removed (~24s at the default
	// interval).
	DefaultRetryBudget = 8
)

// ReconcilerConfig configures a presence reconciler. Zero values fall back
// to the package defaults.
type ReconcilerConfig struct {
	Browser     resolved.Browser
	Service     string
	Interval    time.Duration
	RetryBudget int
	Flags       uint64 // browse protocol flags, default mDNS on both families
	Clock       clock.Clock

	// OnAdded and OnRemoved are invoked from the reconciler's own
	// goroutine when membership changes. Optional; presence changes are
	// always logged regardless.
	OnAdded   func(CandidateHost)
	OnRemoved func(CandidateHost)
}

// Reconciler converts repeated browse snapshots into a stable presence view
// with hysteresis against transient lookup misses. The stable set is owned
// exclusively by the goroutine running Run; nothing else touches it.
type Reconciler struct {
	cfg    ReconcilerConfig
	stable map[CandidateKey]*CandidateHost
}

// NewReconciler creates a reconciler with defaults applied.
func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	if cfg.Service == "" {
		cfg.Service = DefaultServiceName
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.RetryBudget <= 0 {
		cfg.RetryBudget = DefaultRetryBudget
	}
	if cfg.Flags == 0 {
		cfg.Flags = resolved.FlagMDNSIPv4 | resolved.FlagMDNSIPv6
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return &Reconciler{
		cfg:    cfg,
		stable: make(map[CandidateKey]*CandidateHost),
	}
}

// Run polls until ctx is cancelled. Query failures abandon the cycle and
// are retried at the next scheduled interval, never immediately.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := r.cfg.Clock.Ticker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		r.cycle(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// cycle performs one browse-and-reconcile pass.
func (r *Reconciler) cycle(ctx context.Context) {
	records, err := r.cfg.Browser.ResolveRecord(ctx, resolved.IfindexAny,
		r.cfg.Service, rr.ClassIN, rr.TypePTR, r.cfg.Flags)
	if err != nil {
		logging.Error("browse query failed", zap.String("service", r.cfg.Service), zap.Error(err))
		return
	}

	r.reconcile(r.decode(records))
}

// decode turns raw browse answers into the set of candidates seen this
// cycle. Per-record failures are logged and skipped; they never abort the
// cycle.
func (r *Reconciler) decode(records []resolved.RawRecord) map[CandidateKey]struct{} {
	seen := make(map[CandidateKey]struct{}, len(records))
	for _, raw := range records {
		if raw.Class != rr.ClassIN || raw.Type != rr.TypePTR {
			logging.Warn("unexpected class/type in browse answer",
				zap.Uint16("class", raw.Class), zap.Uint16("type", raw.Type))
			continue
		}
		rec, _, err := rr.ParseRR(raw.Data)
		if err != nil {
			logging.Warn("undecodable browse record", zap.Error(err))
			logging.LogRawRecord("browse record payload", raw.Data)
			continue
		}
		if rec.Class != rr.ClassIN || rec.Type != rr.TypePTR {
			logging.Warn("unexpected class/type in decoded record",
				zap.Uint16("class", rec.Class), zap.Uint16("type", rec.Type))
			continue
		}
		domain, _, err := rr.ParseName(rec.RData)
		if err != nil {
			logging.Warn("undecodable pointer target", zap.String("name", rec.Name), zap.Error(err))
			continue
		}
		seen[CandidateKey{Ifindex: raw.Ifindex, Name: rec.Name, Domain: domain}] = struct{}{}
	}
	return seen
}

// reconcile replaces the stable set with this cycle's sightings, carrying
// over absent hosts that still have retry budget. Sighted hosts always get
// a full budget; a host absent with zero budget is dropped and reported
// removed exactly once.
func (r *Reconciler) reconcile(seen map[CandidateKey]struct{}) {
	next := make(map[CandidateKey]*CandidateHost, len(seen))
	for key := range seen {
		next[key] = &CandidateHost{CandidateKey: key, Retries: r.cfg.RetryBudget}
	}

	for key, host := range r.stable {
		if _, ok := seen[key]; ok {
			continue
		}
		if host.Retries == 0 {
			logging.Info("host removed",
				zap.Int32("ifindex", key.Ifindex),
				zap.String("name", key.Name),
				zap.String("domain", key.Domain))
			if r.cfg.OnRemoved != nil {
				r.cfg.OnRemoved(*host)
			}
			continue
		}
		// Absent this cycle but budget remains: keep it around in case
		// of mdns cache flushes et cetera.
		next[key] = &CandidateHost{CandidateKey: key, Retries: host.Retries - 1}
	}

	for key := range seen {
		if _, ok := r.stable[key]; ok {
			continue
		}
		logging.Info("host added",
			zap.Int32("ifindex", key.Ifindex),
			zap.String("name", key.Name),
			zap.String("domain", key.Domain))
		if r.cfg.OnAdded != nil {
			r.cfg.OnAdded(*next[key])
		}
	}

	r.stable = next
}
