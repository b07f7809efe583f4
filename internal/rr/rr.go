package rr

import (
	"encoding/binary"
	"fmt"
)

// DNS class and type constants (RFC 1035)
const (
	ClassIN = 1 // Internet class

	TypePTR = 12 // Pointer record (service browse answers)
	TypeTXT = 16 // Text record (key=value metadata)
	TypeSRV = 33 // Service record (host/port)
)

// Fixed-width field sizes following the name in a resource record:
// type (2) + class (2) + ttl (4) + rdlength (2)
const fixedHeaderSize = 10

// ResourceRecord is a single decoded resource record.
// It is immutable once constructed; callers extract the fields they need
// and discard it.
type ResourceRecord struct {
	Name  string // Owner name, dotted form without trailing dot
	Type  uint16 // Record type (TypePTR, TypeSRV, ...)
	Class uint16 // Record class (ClassIN)
	TTL   uint32 // Time to live in seconds
	RData []byte // Raw payload, RDLength bytes
}

// ParseName decodes a dotted name from a sequence of length-prefixed labels
// terminated by a zero-length label. It returns the name, the bytes
// remaining after the terminator, and an error if a label overruns the
// buffer. Compression pointers are not handled (see package doc).
func ParseName(data []byte) (string, []byte, error) {
	var name []byte
	offset := 0
	for {
		if offset >= len(data) {
			return "", nil, fmt.Errorf("name truncated at offset %d: missing terminator", offset)
		}
		length := int(data[offset])
		offset++
		if length == 0 {
			return string(name), data[offset:], nil
		}
		if offset+length > len(data) {
			return "", nil, fmt.Errorf("label at offset %d: declared length %d exceeds remaining %d bytes",
				offset-1, length, len(data)-offset)
		}
		if len(name) > 0 {
			name = append(name, '.')
		}
		name = append(name, data[offset:offset+length]...)
		offset += length
	}
}

// ParseRR decodes one resource record from data. It returns the record, the
// bytes remaining after it, and an error if any fixed-width field or the
// payload is truncated. The parse is purely functional; data is not modified.
func ParseRR(data []byte) (*ResourceRecord, []byte, error) {
	name, rest, err := ParseName(data)
	if err != nil {
		return nil, nil, fmt.Errorf("record name: %w", err)
	}

	if len(rest) < fixedHeaderSize {
		return nil, nil, fmt.Errorf("record header at offset %d: need %d bytes, have %d",
			len(data)-len(rest), fixedHeaderSize, len(rest))
	}

	rec := &ResourceRecord{
		Name:  name,
		Type:  binary.BigEndian.Uint16(rest[0:2]),
		Class: binary.BigEndian.Uint16(rest[2:4]),
		TTL:   binary.BigEndian.Uint32(rest[4:8]),
	}
	rdLength := int(binary.BigEndian.Uint16(rest[8:10]))
	rest = rest[fixedHeaderSize:]

	if rdLength > len(rest) {
		return nil, nil, fmt.Errorf("record payload: declared length %d exceeds remaining %d bytes",
			rdLength, len(rest))
	}
	rec.RData = rest[:rdLength]

	return rec, rest[rdLength:], nil
}

// String returns a debug representation of the record
func (r *ResourceRecord) String() string {
	return fmt.Sprintf("RR{name=%q, type=%d, class=%d, ttl=%d, rdata=%d bytes}",
		r.Name, r.Type, r.Class, r.TTL, len(r.RData))
}
