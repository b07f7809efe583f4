// Package discovery implements the two polling loops that find RAOP
// (AirPlay audio) receivers through the system resolver service.
//
// # Presence Reconciler
//
// The Reconciler browses for "_raop._tcp.local" pointer records on a fixed
// cadence and maintains a stable set of candidate hosts. Multicast DNS
// lookups are lossy and bursty: a receiver missing from a single browse is
// not necessarily gone (cache flushes, dropped responses). Each candidate
// therefore carries a retry budget; a host must be absent for that many
// consecutive cycles before it is declared removed, and any re-sighting
// restores the full budget.
//
// # Endpoint Resolver Loop
//
// The Loop browses independently on its own cadence, without hysteresis,
// and resolves every pointer answer it sees into concrete endpoints: one
// service resolution plus TXT lookup per instance, one Endpoint event per
// resolved address. Events flow through a single-producer/single-consumer
// channel to the tunnel registry, which deduplicates them.
//
// The two loops intentionally do not share candidate state. The reconciler
// damps flapping for its presence reporting; the resolver loop reacts to
// every cycle so a rediscovered receiver is usable again immediately.
//
// # IPv6 Scope Handling
//
// Link-local IPv6 addresses are only valid within one interface's scope, so
// when a resolved address is link-local unicast the interface index it was
// learned on becomes the address zone. All other addresses carry no zone.
package discovery
