package discovery

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/muurk/raopbridge/internal/resolved"
)

func TestSocketAddr(t *testing.T) {
	linkLocal := netip.MustParseAddr("fe80::1").As16()
	global := netip.MustParseAddr("2001:db8::5").As16()

	tests := []struct {
		name     string
		ha       resolved.HostAddress
		port     uint16
		want     string
		wantZone string
		wantErr  bool
	}{
		{
			name:     "link-local ipv6 gets interface zone",
			ha:       resolved.HostAddress{Ifindex: 3, Family: resolved.FamilyIPv6, Address: linkLocal[:]},
			port:     7000,
			want:     "[fe80::1%3]:7000",
			wantZone: "3",
		},
		{
			name:     "global ipv6 carries no zone",
			ha:       resolved.HostAddress{Ifindex: 3, Family: resolved.FamilyIPv6, Address: global[:]},
			port:     7000,
			want:     "[2001:db8::5]:7000",
			wantZone: "",
		},
		{
			name:     "ipv4 never carries a zone",
			ha:       resolved.HostAddress{Ifindex: 3, Family: resolved.FamilyIPv4, Address: []byte{192, 168, 4, 16}},
			port:     5000,
			want:     "192.168.4.16:5000",
			wantZone: "",
		},
		{
			name:    "ipv6 family with 4-byte address",
			ha:      resolved.HostAddress{Family: resolved.FamilyIPv6, Address: []byte{1, 2, 3, 4}},
			wantErr: true,
		},
		{
			name:    "ipv4 family with 16-byte address",
			ha:      resolved.HostAddress{Family: resolved.FamilyIPv4, Address: global[:]},
			wantErr: true,
		},
		{
			name:    "unknown family",
			ha:      resolved.HostAddress{Family: 99, Address: []byte{1, 2, 3, 4}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := SocketAddr(tt.ha, tt.port)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, addr.String())
			require.Equal(t, tt.wantZone, addr.Addr().Zone())
		})
	}
}

// fakeServiceResolver returns a scripted resolution result.
type fakeServiceResolver struct {
	srvs []resolved.SRVRecord
	txts [][]byte
	err  error
}

func (f *fakeServiceResolver) ResolveService(ctx context.Context, ifindex int32, name, serviceType, domain string, family int32, flags uint64) ([]resolved.SRVRecord, [][]byte, error) {
	return f.srvs, f.txts, f.err
}

func TestLoop_CycleEmitsEndpointPerAddress(t *testing.T) {
	browser := &fakeBrowser{records: []resolved.RawRecord{
		ptrRecord(t, 0, "Kitchen._raop._tcp.local"),
	}}
	resolver := &fakeServiceResolver{
		srvs: []resolved.SRVRecord{{
			Port:     7000,
			Hostname: "kitchen-speaker.local",
			Addresses: []resolved.HostAddress{
				{Family: resolved.FamilyIPv4, Address: []byte{192, 168, 4, 20}},
				{Family: resolved.FamilyIPv4, Address: []byte{10, 0, 0, 20}},
				{Family: 99, Address: []byte{1}}, // skipped, non-fatal
			},
			Domain: "Kitchen._raop._tcp.local",
		}},
		txts: [][]byte{[]byte("tp=TCP"), []byte("am=Kitchen")},
	}

	events := make(chan Endpoint, 16)
	loop := NewLoop(LoopConfig{
		Browser:  browser,
		Resolver: resolver,
		Events:   events,
		Done:     make(chan struct{}),
	})

	require.True(t, loop.cycle(context.Background()))
	require.Len(t, events, 2)

	first := <-events
	require.Equal(t, "kitchen-speaker.local", first.Hostname)
	require.Equal(t, "192.168.4.20:7000", first.Addr.String())
	require.Equal(t, []string{"tp=TCP", "am=Kitchen"}, first.Text)

	second := <-events
	require.Equal(t, "10.0.0.20:7000", second.Addr.String())
}

func TestLoop_ResolutionFailureIsPerTarget(t *testing.T) {
	browser := &fakeBrowser{records: []resolved.RawRecord{
		ptrRecord(t, 0, "Kitchen._raop._tcp.local"),
	}}
	resolver := &fakeServiceResolver{err: context.DeadlineExceeded}

	events := make(chan Endpoint, 1)
	loop := NewLoop(LoopConfig{
		Browser:  browser,
		Resolver: resolver,
		Events:   events,
		Done:     make(chan struct{}),
	})

	// The loop keeps going; nothing is emitted.
	require.True(t, loop.cycle(context.Background()))
	require.Empty(t, events)
}

func TestLoop_ConsumerGoneTerminatesLoop(t *testing.T) {
	browser := &fakeBrowser{records: []resolved.RawRecord{
		ptrRecord(t, 0, "Kitchen._raop._tcp.local"),
	}}
	resolver := &fakeServiceResolver{
		srvs: []resolved.SRVRecord{{
			Port:      7000,
			Hostname:  "kitchen-speaker.local",
			Addresses: []resolved.HostAddress{{Family: resolved.FamilyIPv4, Address: []byte{192, 168, 4, 20}}},
		}},
	}

	done := make(chan struct{})
	close(done)

	// Unbuffered channel with no receiver: only the closed done channel
	// lets the emission attempt complete, by terminating the loop.
	loop := NewLoop(LoopConfig{
		Browser:  browser,
		Resolver: resolver,
		Events:   make(chan Endpoint),
		Done:     done,
	})
	require.False(t, loop.cycle(context.Background()))
}
