package resolved

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// D-Bus identity of systemd-resolved
const (
	busName       = "org.freedesktop.resolve1"
	objectPath    = dbus.ObjectPath("/org/freedesktop/resolve1")
	managerIface  = "org.freedesktop.resolve1.Manager"
	methodRecord  = managerIface + ".ResolveRecord"
	methodService = managerIface + ".ResolveService"
)

// Client is a systemd-resolved client over the system D-Bus. It implements
// Browser and ServiceResolver.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the system bus and binds the resolve1 manager
// object. Connection failure here is the only fatal error in the daemon;
// everything after startup is retried on the next polling cycle.
func NewClient() (*Client, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(busName, objectPath),
	}, nil
}

// Close releases the bus connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// ResolveRecord performs a raw record lookup via the Manager.ResolveRecord
// method. The reply is an array of (ifindex, class, type, data) tuples plus
// a flags word describing the protocol that answered; the flags are not
// used here.
func (c *Client) ResolveRecord(ctx context.Context, ifindex int32, name string, class, rrType uint16, flags uint64) ([]RawRecord, error) {
	call := c.obj.CallWithContext(ctx, methodRecord, 0, ifindex, name, class, rrType, flags)
	if call.Err != nil {
		return nil, fmt.Errorf("ResolveRecord %q: %w", name, call.Err)
	}

	var records []RawRecord
	var outFlags uint64
	if err := call.Store(&records, &outFlags); err != nil {
		return nil, fmt.Errorf("ResolveRecord %q: decoding reply: %w", name, err)
	}
	return records, nil
}

// ResolveService performs a full DNS-SD resolution via
// Manager.ResolveService. The reply carries the SRV tuples, the TXT entries
// as raw byte strings, the canonical name/type/domain and a flags word; the
// canonical fields and flags are discarded.
func (c *Client) ResolveService(ctx context.Context, ifindex int32, name, serviceType, domain string, family int32, flags uint64) ([]SRVRecord, [][]byte, error) {
	call := c.obj.CallWithContext(ctx, methodService, 0, ifindex, name, serviceType, domain, family, flags)
	if call.Err != nil {
		return nil, nil, fmt.Errorf("ResolveService %q: %w", domain, call.Err)
	}

	var (
		srvs                              []SRVRecord
		txts                              [][]byte
		canonName, canonType, canonDomain string
		outFlags                          uint64
	)
	if err := call.Store(&srvs, &txts, &canonName, &canonType, &canonDomain, &outFlags); err != nil {
		return nil, nil, fmt.Errorf("ResolveService %q: decoding reply: %w", domain, err)
	}
	return srvs, txts, nil
}
