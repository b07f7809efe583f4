// Package tunnel turns discovered receiver endpoints into audio sinks.
//
// The Registry is the single consumer of the discovery event channel. It is
// driven by a fast periodic tick and deliberately drains at most one event
// per tick: consumer work is bounded per scheduler step, and bursts of
// endpoints are absorbed by the channel and processed gradually. The
// trade-off is that a large burst takes many ticks to clear; with the
// default 1ms drain interval that backlog is negligible in practice.
//
// # Deduplication
//
// Endpoints are deduplicated by (hostname, socket address). The resolver
// loop re-emits every receiver every few seconds, so the registry sees the
// same endpoint over and over; only the first sighting creates a sink.
// Handles are kept for the life of the process and never released - a
// receiver that disappears keeps its sink (see the package's design notes
// in the repository DESIGN.md).
//
// # Sink Creation
//
// A sink is created by loading an external audio module by name, passing a
// brace-delimited serialized property block derived from the endpoint's
// TXT records (transport, encryption, codec, display name). The module's
// internal streaming behavior is entirely outside this package's scope.
package tunnel
