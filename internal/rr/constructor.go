package rr

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// AppendName encodes a dotted name as length-prefixed labels with a
// zero-length terminator and appends it to dst. An empty name encodes as
// just the terminator (the DNS root).
func AppendName(dst []byte, name string) ([]byte, error) {
	if name != "" {
		for _, label := range strings.Split(name, ".") {
			if len(label) == 0 {
				return nil, fmt.Errorf("empty label in name %q", name)
			}
			if len(label) > 63 {
				return nil, fmt.Errorf("label %q exceeds 63 bytes", label)
			}
			dst = append(dst, byte(len(label)))
			dst = append(dst, label...)
		}
	}
	return append(dst, 0), nil
}

// AppendRR encodes rec in wire format and appends it to dst. It is the
// inverse of ParseRR and is used by backends that synthesize records and by
// tests.
func AppendRR(dst []byte, rec *ResourceRecord) ([]byte, error) {
	if len(rec.RData) > 0xffff {
		return nil, fmt.Errorf("rdata length %d exceeds uint16", len(rec.RData))
	}
	dst, err := AppendName(dst, rec.Name)
	if err != nil {
		return nil, err
	}
	dst = binary.BigEndian.AppendUint16(dst, rec.Type)
	dst = binary.BigEndian.AppendUint16(dst, rec.Class)
	dst = binary.BigEndian.AppendUint32(dst, rec.TTL)
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(rec.RData)))
	return append(dst, rec.RData...), nil
}
