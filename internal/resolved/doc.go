// Package resolved talks to the external name-resolution service that
// performs multicast DNS lookups on the daemon's behalf.
//
// The primary backend is systemd-resolved, reached over the system D-Bus at
// org.freedesktop.resolve1. Its Manager interface exposes two calls this
// daemon uses:
//
//   - ResolveRecord: a raw record lookup. For a PTR query against
//     "_raop._tcp.local" it returns one opaque wire-format resource record
//     per advertised receiver (decoded by the rr package).
//   - ResolveService: a full DNS-SD service resolution for one instance,
//     returning SRV data (port, hostname, addresses per interface) and the
//     instance's TXT records.
//
// The two calls are abstracted behind the Browser and ServiceResolver
// interfaces so that the discovery loops never depend on the transport. A
// second backend in zeroconf.go implements the same interfaces with the
// grandcat/zeroconf multicast responder for hosts that do not run
// systemd-resolved; it synthesizes the same wire shapes, so the rest of the
// pipeline cannot tell the backends apart.
//
// # Address Families
//
// The resolved API identifies address families with the Linux AF_* values
// (2 for IPv4, 10 for IPv6) and returns raw 4- or 16-byte addresses tagged
// with the interface index they were learned on. Those tuples are passed
// through unchanged; interpretation (including IPv6 scope handling) happens
// in the discovery package.
package resolved
