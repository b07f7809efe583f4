package tunnel

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/muurk/raopbridge/internal/discovery"
)

// fakeLoader records every load request.
type fakeLoader struct {
	calls []string // serialized args, one per Load
	err   error
}

func (f *fakeLoader) Load(module, args string) (Handle, error) {
	f.calls = append(f.calls, args)
	if f.err != nil {
		return "", f.err
	}
	return Handle("module-42"), nil
}

func newTestRegistry(events chan discovery.Endpoint) (*Registry, *fakeLoader) {
	loader := &fakeLoader{}
	reg := NewRegistry(RegistryConfig{
		Loader: loader,
		Events: events,
	})
	return reg, loader
}

func TestRegistry_DedupByHostnameAndAddress(t *testing.T) {
	events := make(chan discovery.Endpoint, 8)
	reg, loader := newTestRegistry(events)

	ep := discovery.Endpoint{
		Hostname: "kitchen-speaker.local",
		Addr:     netip.MustParseAddrPort("192.168.4.20:7000"),
		Text:     []string{"am=Kitchen"},
	}

	// The resolver loop re-emits the same endpoint every cycle; only the
	// first sighting may create a sink.
	events <- ep
	events <- ep
	events <- ep

	for i := 0; i < 3; i++ {
		require.True(t, reg.Tick())
	}
	require.Len(t, loader.calls, 1)
	require.Equal(t, 1, reg.Len())
}

func TestRegistry_DistinctAddressesGetDistinctSinks(t *testing.T) {
	events := make(chan discovery.Endpoint, 8)
	reg, loader := newTestRegistry(events)

	events <- discovery.Endpoint{
		Hostname: "speaker.local",
		Addr:     netip.MustParseAddrPort("192.168.4.20:7000"),
	}
	events <- discovery.Endpoint{
		Hostname: "speaker.local",
		Addr:     netip.MustParseAddrPort("192.168.4.21:7000"),
	}

	reg.Tick()
	reg.Tick()
	require.Len(t, loader.calls, 2)
	require.Equal(t, 2, reg.Len())
}

func TestRegistry_DrainsAtMostOnePerTick(t *testing.T) {
	events := make(chan discovery.Endpoint, 8)
	reg, loader := newTestRegistry(events)

	for i := 0; i < 3; i++ {
		events <- discovery.Endpoint{
			Hostname: "speaker.local",
			Addr:     netip.AddrPortFrom(netip.AddrFrom4([4]byte{10, 0, 0, byte(i)}), 7000),
		}
	}

	require.True(t, reg.Tick())
	require.Len(t, loader.calls, 1)
	require.Len(t, events, 2)

	require.True(t, reg.Tick())
	require.True(t, reg.Tick())
	require.Len(t, loader.calls, 3)

	// Empty channel: the tick is a no-op, never a block.
	require.True(t, reg.Tick())
	require.Len(t, loader.calls, 3)
}

func TestRegistry_TickReportsClosedChannel(t *testing.T) {
	events := make(chan discovery.Endpoint, 1)
	reg, _ := newTestRegistry(events)

	events <- discovery.Endpoint{
		Hostname: "speaker.local",
		Addr:     netip.MustParseAddrPort("10.0.0.1:7000"),
	}
	close(events)

	require.True(t, reg.Tick())  // drains the buffered endpoint
	require.False(t, reg.Tick()) // then observes closure
}

func TestRegistry_FailedCreationIsNotRetried(t *testing.T) {
	events := make(chan discovery.Endpoint, 8)
	reg, loader := newTestRegistry(events)
	loader.err = errors.New("module load failed")

	ep := discovery.Endpoint{
		Hostname: "speaker.local",
		Addr:     netip.MustParseAddrPort("10.0.0.1:7000"),
	}
	events <- ep
	events <- ep

	reg.Tick()
	reg.Tick()
	// Creation is attempted once per key, success or not.
	require.Len(t, loader.calls, 1)
	require.Equal(t, 1, reg.Len())
}

func TestRegistry_PassesSerializedProperties(t *testing.T) {
	events := make(chan discovery.Endpoint, 1)
	reg, loader := newTestRegistry(events)

	events <- discovery.Endpoint{
		Hostname: "kitchen-speaker.local",
		Addr:     netip.MustParseAddrPort("192.168.4.20:7000"),
		Text:     []string{"tp=TCP", "et=1", "cn=2", "am=Kitchen"},
	}
	reg.Tick()

	require.Len(t, loader.calls, 1)
	require.Equal(t, `{ raop.ip = "192.168.4.20" raop.ip.version = "4" raop.port = "7000"`+
		` raop.name = "Kitchen (IPv4)" raop.hostname = "kitchen-speaker.local"`+
		` raop.transport = "tcp" raop.encryption.type = "RSA" raop.audio.codec = "AAC" }`,
		loader.calls[0])
}
