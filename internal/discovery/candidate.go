package discovery

import (
	"fmt"
	"net/netip"
)

// CandidateKey identifies a candidate host across reconciliation cycles.
// The retry budget is deliberately excluded from the identity so a
// re-sighted host matches its existing entry regardless of how much budget
// it has burned.
type CandidateKey struct {
	// Ifindex is the interface the browse answer arrived on (0 = any).
	Ifindex int32

	// Name is the owner name of the pointer record, normally the browsed
	// service name ("_raop._tcp.local").
	Name string

	// Domain is the pointer target: the full service instance name
	// (e.g. "Kitchen._raop._tcp.local").
	Domain string
}

// CandidateHost is one browse answer tracked by the presence reconciler.
type CandidateHost struct {
	CandidateKey

	// Retries is the number of consecutive absent cycles the host may
	// still survive. Reset to the full budget on every sighting.
	Retries int
}

// String returns a debug representation of the candidate
func (c CandidateHost) String() string {
	return fmt.Sprintf("Candidate{ifindex=%d, name=%q, domain=%q, retries=%d}",
		c.Ifindex, c.Name, c.Domain, c.Retries)
}

// Endpoint is one resolved, reachable receiver address. It is emitted by
// the resolver loop and consumed exactly once by the tunnel registry.
type Endpoint struct {
	// Hostname is the SRV target host (e.g. "kitchen-speaker.local").
	Hostname string

	// Addr is the resolved socket address. Link-local IPv6 addresses
	// carry the interface index as their zone.
	Addr netip.AddrPort

	// Text holds the instance's TXT entries in resolver order.
	Text []string
}

// String returns a debug representation of the endpoint
func (e Endpoint) String() string {
	return fmt.Sprintf("Endpoint{host=%q, addr=%s, txt=%d entries}", e.Hostname, e.Addr, len(e.Text))
}
