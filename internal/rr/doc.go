// Package rr decodes DNS resource records as returned by the system
// resolver's raw-record API.
//
// The resolver hands back each answer as an opaque byte blob containing a
// single uncompressed resource record in RFC 1035 wire format. This package
// parses that blob into its name, type, class, TTL and rdata fields, and
// parses dotted names out of rdata payloads (the PTR target of a service
// browse).
//
// # Wire Format
//
// A record is laid out as:
//
//	name      sequence of length-prefixed labels, zero-length label terminates
//	type      uint16, big-endian
//	class     uint16, big-endian
//	ttl       uint32, big-endian
//	rdlength  uint16, big-endian
//	rdata     rdlength bytes
//
// # Limitations
//
// Label compression pointers (RFC 1035 §4.1.4) are not supported: a pointer
// byte is consumed as an ordinary label length and will desynchronize the
// parse. The resolver service always returns fully expanded records for
// single-record lookups, so compression never appears in practice.
//
// # Usage Example
//
//	rec, _, err := rr.ParseRR(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if rec.Class == rr.ClassIN && rec.Type == rr.TypePTR {
//	    target, _, err := rr.ParseName(rec.RData)
//	    ...
//	}
package rr
