package tunnel

import (
	"fmt"
	"os/exec"
	"strings"
)

// DefaultSinkModule is the external audio module loaded for each unique
// endpoint.
const DefaultSinkModule = "libpipewire-module-raop-sink"

// Handle is the opaque reference to a loaded sink module instance.
type Handle string

// Loader requests creation of one external sink instance. args is the
// serialized property block from SinkProperties.Serialize.
type Loader interface {
	Load(module, args string) (Handle, error)
}

// PWCLILoader loads sink modules through the pw-cli utility. The returned
// handle is pw-cli's output for the loaded module (its object id line),
// kept only for logging; nothing in this daemon ever unloads a module.
type PWCLILoader struct {
	// Path overrides the pw-cli binary location. Empty means $PATH lookup.
	Path string
}

// Load runs "pw-cli load-module <module> <args>".
func (l *PWCLILoader) Load(module, args string) (Handle, error) {
	bin := l.Path
	if bin == "" {
		bin = "pw-cli"
	}
	out, err := exec.Command(bin, "load-module", module, args).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("pw-cli load-module %s: %w (output: %s)",
			module, err, strings.TrimSpace(string(out)))
	}
	return Handle(strings.TrimSpace(string(out))), nil
}
