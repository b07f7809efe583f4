package tunnel

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/raopbridge/internal/discovery"
	"github.com/muurk/raopbridge/internal/logging"
)

// DefaultDisplayName is used when a receiver advertises no "am=" entry.
const DefaultDisplayName = "<unnamed>"

// SinkProperties is the structured form of a receiver's TXT metadata,
// combined with its resolved address. Empty fields were either not
// advertised or not recognized and are omitted from the serialized block.
type SinkProperties struct {
	Address     string // literal IP, including any IPv6 zone
	IPVersion   string // "4" or "6"
	Port        uint16
	DisplayName string // "am=" value, "(IPv4)"-suffixed for IPv4 receivers
	Hostname    string
	Transport   string // "udp" or "tcp"
	Encryption  string // "RSA", "auth_setup" or "none"
	Codec       string // "AAC-ELD", "AAC", "ALAC" or "PCM"
}

// PropertiesFromEndpoint maps an endpoint's TXT entries into sink
// properties using fixed decoding rules. The first entry matching each key
// prefix wins; unknown values are logged and get a safe default where one
// exists.
func PropertiesFromEndpoint(ep discovery.Endpoint) SinkProperties {
	addr := ep.Addr.Addr()
	props := SinkProperties{
		Address:     addr.String(),
		IPVersion:   "6",
		Port:        ep.Addr.Port(),
		DisplayName: DefaultDisplayName,
		Hostname:    ep.Hostname,
	}
	if addr.Is4() || addr.Is4In6() {
		props.IPVersion = "4"
	}

	var sawName, sawTransport, sawEncryption, sawCodec bool
	for _, entry := range ep.Text {
		switch {
		case strings.HasPrefix(entry, "am="):
			if sawName {
				continue
			}
			sawName = true
			props.DisplayName = strings.TrimPrefix(entry, "am=")

		case strings.HasPrefix(entry, "tp="):
			if sawTransport {
				continue
			}
			sawTransport = true
			tp := strings.TrimPrefix(entry, "tp=")
			switch {
			case listContains(tp, "UDP"):
				props.Transport = "udp"
			case listContains(tp, "TCP"):
				props.Transport = "tcp"
			default:
				logging.Warn("unknown transport", zap.String("tp", tp))
			}

		case strings.HasPrefix(entry, "et="):
			if sawEncryption {
				continue
			}
			sawEncryption = true
			et := strings.TrimPrefix(entry, "et=")
			switch {
			case listContains(et, "1"):
				props.Encryption = "RSA"
			case listContains(et, "4"):
				props.Encryption = "auth_setup"
			default:
				logging.Warn("unknown encryption type", zap.String("et", et))
				props.Encryption = "none"
			}

		case strings.HasPrefix(entry, "cn="):
			if sawCodec {
				continue
			}
			sawCodec = true
			cn := strings.TrimPrefix(entry, "cn=")
			switch {
			case listContains(cn, "3"):
				props.Codec = "AAC-ELD"
			case listContains(cn, "2"):
				props.Codec = "AAC"
			case listContains(cn, "1"):
				props.Codec = "ALAC"
			case listContains(cn, "0"):
				props.Codec = "PCM"
			default:
				// Codec stays unset; the sink module picks its own.
				logging.Warn("unknown codec", zap.String("cn", cn))
			}
		}
	}

	if props.IPVersion == "4" {
		props.DisplayName += " (IPv4)"
	}
	return props
}

// Serialize renders the properties as the brace-delimited key=value block
// the sink module loader expects. Optional properties are omitted when
// unset; key order is fixed.
func (p SinkProperties) Serialize() string {
	var b strings.Builder
	b.WriteString("{")
	writeProp(&b, "raop.ip", p.Address)
	writeProp(&b, "raop.ip.version", p.IPVersion)
	writeProp(&b, "raop.port", fmt.Sprintf("%d", p.Port))
	writeProp(&b, "raop.name", p.DisplayName)
	writeProp(&b, "raop.hostname", p.Hostname)
	if p.Transport != "" {
		writeProp(&b, "raop.transport", p.Transport)
	}
	if p.Encryption != "" {
		writeProp(&b, "raop.encryption.type", p.Encryption)
	}
	if p.Codec != "" {
		writeProp(&b, "raop.audio.codec", p.Codec)
	}
	b.WriteString(" }")
	return b.String()
}

func writeProp(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, " %s = \"%s\"", key, value)
}

// listContains reports whether a comma-separated list contains exactly v.
func listContains(list, v string) bool {
	for _, item := range strings.Split(list, ",") {
		if item == v {
			return true
		}
	}
	return false
}
