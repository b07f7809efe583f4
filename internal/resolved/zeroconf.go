package resolved

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/muurk/raopbridge/internal/rr"
)

// DefaultBrowseTimeout bounds how long a single zeroconf browse collects
// answers. The polling loops run every few seconds, so the window must stay
// well below the poll interval.
const DefaultBrowseTimeout = 2 * time.Second

// ZeroconfBackend implements Browser and ServiceResolver directly over
// multicast DNS using the zeroconf responder, for hosts without
// systemd-resolved. Answers are re-encoded into the same wire shapes the
// D-Bus backend returns so callers cannot tell the backends apart.
//
// The zeroconf library does not report which interface an address was
// learned on, so every HostAddress carries Ifindex 0. Link-local IPv6
// addresses from this backend therefore resolve without a usable scope;
// prefer the resolved backend on IPv6 networks.
type ZeroconfBackend struct {
	// Timeout is how long each browse/lookup collects answers.
	Timeout time.Duration
}

// NewZeroconfBackend creates a backend with the default browse timeout.
func NewZeroconfBackend() *ZeroconfBackend {
	return &ZeroconfBackend{Timeout: DefaultBrowseTimeout}
}

// ResolveRecord browses for the service encoded in name and synthesizes one
// PTR record per discovered instance. Only ClassIN/TypePTR queries are
// supported; anything else is an immediate call failure, matching how
// resolved rejects unsupported lookups.
func (b *ZeroconfBackend) ResolveRecord(ctx context.Context, ifindex int32, name string, class, rrType uint16, flags uint64) ([]RawRecord, error) {
	if class != rr.ClassIN || rrType != rr.TypePTR {
		return nil, fmt.Errorf("zeroconf backend: unsupported class/type %d/%d", class, rrType)
	}
	service, domain, err := splitServiceName(name)
	if err != nil {
		return nil, err
	}

	entries, err := b.browse(ctx, func(bctx context.Context, res *zeroconf.Resolver, ch chan<- *zeroconf.ServiceEntry) error {
		return res.Browse(bctx, service, domain, ch)
	})
	if err != nil {
		return nil, err
	}

	records := make([]RawRecord, 0, len(entries))
	for _, entry := range entries {
		target := fmt.Sprintf("%s.%s.%s", entry.Instance, entry.Service, strings.TrimSuffix(entry.Domain, "."))
		rdata, err := rr.AppendName(nil, target)
		if err != nil {
			return nil, fmt.Errorf("encoding instance %q: %w", target, err)
		}
		data, err := rr.AppendRR(nil, &rr.ResourceRecord{
			Name:  name,
			Type:  rr.TypePTR,
			Class: rr.ClassIN,
			TTL:   uint32(entry.TTL),
			RData: rdata,
		})
		if err != nil {
			return nil, fmt.Errorf("encoding record for %q: %w", target, err)
		}
		records = append(records, RawRecord{
			Ifindex: IfindexAny,
			Class:   rr.ClassIN,
			Type:    rr.TypePTR,
			Data:    data,
		})
	}
	return records, nil
}

// ResolveService looks up one service instance and maps its addresses into
// SRV tuples, filtered to the requested address family.
func (b *ZeroconfBackend) ResolveService(ctx context.Context, ifindex int32, name, serviceType, domain string, family int32, flags uint64) ([]SRVRecord, [][]byte, error) {
	instance, service, zcDomain, err := splitInstanceName(domain)
	if err != nil {
		return nil, nil, err
	}

	entries, err := b.browse(ctx, func(bctx context.Context, res *zeroconf.Resolver, ch chan<- *zeroconf.ServiceEntry) error {
		return res.Lookup(bctx, instance, service, zcDomain, ch)
	})
	if err != nil {
		return nil, nil, err
	}
	if len(entries) == 0 {
		return nil, nil, fmt.Errorf("zeroconf backend: %q did not resolve", domain)
	}

	var srvs []SRVRecord
	var txts [][]byte
	for _, entry := range entries {
		srv := SRVRecord{
			Port:     uint16(entry.Port),
			Hostname: entry.HostName,
			Domain:   domain,
		}
		switch family {
		case FamilyIPv4:
			for _, ip := range entry.AddrIPv4 {
				if v4 := ip.To4(); v4 != nil {
					srv.Addresses = append(srv.Addresses, HostAddress{Family: FamilyIPv4, Address: v4})
				}
			}
		case FamilyIPv6:
			for _, ip := range entry.AddrIPv6 {
				if v6 := ip.To16(); v6 != nil {
					srv.Addresses = append(srv.Addresses, HostAddress{Family: FamilyIPv6, Address: v6})
				}
			}
		default:
			return nil, nil, fmt.Errorf("zeroconf backend: unsupported address family %d", family)
		}
		srvs = append(srvs, srv)
		for _, txt := range entry.Text {
			txts = append(txts, []byte(txt))
		}
	}
	return srvs, txts, nil
}

// browse runs one collection pass with a fresh resolver, gathering every
// entry that arrives before the timeout elapses.
func (b *ZeroconfBackend) browse(ctx context.Context, start func(context.Context, *zeroconf.Resolver, chan<- *zeroconf.ServiceEntry) error) ([]*zeroconf.ServiceEntry, error) {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultBrowseTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	ch := make(chan *zeroconf.ServiceEntry)
	done := make(chan []*zeroconf.ServiceEntry, 1)
	go func() {
		var entries []*zeroconf.ServiceEntry
		for entry := range ch {
			entries = append(entries, entry)
		}
		done <- entries
	}()

	if err := start(ctx, resolver, ch); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	return <-done, nil
}

// splitServiceName splits a browse name like "_raop._tcp.local" into the
// service ("_raop._tcp") and domain ("local") parts.
func splitServiceName(name string) (service, domain string, err error) {
	for _, proto := range []string{"._tcp.", "._udp."} {
		if idx := strings.Index(name, proto); idx >= 0 {
			return name[:idx+len(proto)-1], name[idx+len(proto):], nil
		}
	}
	return "", "", fmt.Errorf("zeroconf backend: cannot split service name %q", name)
}

// splitInstanceName splits a full instance domain like
// "Kitchen._raop._tcp.local" into instance, service and domain parts.
func splitInstanceName(name string) (instance, service, domain string, err error) {
	for _, proto := range []string{"._tcp.", "._udp."} {
		idx := strings.Index(name, proto)
		if idx < 0 {
			continue
		}
		head := name[:idx]
		dot := strings.LastIndex(head, ".")
		if dot < 0 {
			continue
		}
		return head[:dot], head[dot+1:] + proto[:len(proto)-1], name[idx+len(proto):], nil
	}
	return "", "", "", fmt.Errorf("zeroconf backend: cannot split instance name %q", name)
}
