// Package bridge assembles the raopbridge daemon.
//
// It wires the configured resolver backend into the two discovery loops
// and the tunnel registry, and owns the process-lifetime concurrency
// structure:
//
//   - presence reconciler: own goroutine, own polling cadence, owns the
//     stable candidate set
//   - endpoint resolver loop: own goroutine, own cadence, sole producer on
//     the event channel
//   - tunnel registry: the Start goroutine, sole consumer, owns the tunnel
//     map
//
// No state is shared mutably across these contexts except through the
// one-directional event channel. Shutdown is signal-driven: cancelling the
// context stops all three, and the resolver loop additionally watches a
// done channel so an in-flight emission cannot strand it after the
// consumer exits.
package bridge
