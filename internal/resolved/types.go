package resolved

import "context"

// Wire constants of the org.freedesktop.resolve1 Manager API.
const (
	// IfindexAny asks the resolver to query on every interface.
	IfindexAny = int32(0)

	// FamilyIPv4 and FamilyIPv6 are the Linux AF_INET/AF_INET6 values the
	// resolved API uses to tag addresses.
	FamilyIPv4 = int32(2)
	FamilyIPv6 = int32(10)

	// FlagMDNSIPv4 and FlagMDNSIPv6 restrict a lookup to the multicast DNS
	// protocol on the given family (SD_RESOLVED_MDNS_IPV4/IPV6).
	FlagMDNSIPv4 = uint64(1 << 3)
	FlagMDNSIPv6 = uint64(1 << 4)
)

// RawRecord is one element of a ResolveRecord response: an undecoded
// resource record plus the class/type/interface the resolver reported for
// it. Data is the record in wire format.
type RawRecord struct {
	Ifindex int32
	Class   uint16
	Type    uint16
	Data    []byte
}

// HostAddress is one (interface, family, raw address) tuple from a
// ResolveService response. Address is 4 bytes for FamilyIPv4 and 16 bytes
// for FamilyIPv6; anything else is a resolver bug the caller must tolerate.
type HostAddress struct {
	Ifindex int32
	Family  int32
	Address []byte
}

// SRVRecord is one resolved service instance: the SRV fields plus every
// address the target hostname resolved to.
type SRVRecord struct {
	Priority  uint16
	Weight    uint16
	Port      uint16
	Hostname  string
	Addresses []HostAddress
	Domain    string
}

// Browser issues browse queries: raw record lookups for a well-known
// service name. Implementations must be safe for concurrent use; the two
// discovery loops share one instance.
type Browser interface {
	// ResolveRecord looks up name with the given class and type and
	// returns one RawRecord per answer. A non-nil error abandons the
	// caller's whole polling cycle.
	ResolveRecord(ctx context.Context, ifindex int32, name string, class, rrType uint16, flags uint64) ([]RawRecord, error)
}

// ServiceResolver issues full DNS-SD resolutions for one service instance
// domain, returning SRV data and the instance's TXT entries as raw byte
// strings.
type ServiceResolver interface {
	ResolveService(ctx context.Context, ifindex int32, name, serviceType, domain string, family int32, flags uint64) ([]SRVRecord, [][]byte, error)
}
