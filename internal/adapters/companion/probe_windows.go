//go:build windows

package companion

import (
	"context"
	"os"

	"golang.org/x/sys/windows/registry"
)

const (
	desktopRegistryKey = `SOFTWARE\Docker Inc.\Docker Desktop`
	desktopExecutable  = `C:\\Program Files\\Docker\\Docker\\Docker Desktop.exe`
)

// New returns a probe reading the registry, with a wmic fallback.
func New() *Probe {
	return &Probe{run: execRunner, readFile: os.ReadFile}
}

func (p *Probe) lookup(ctx context.Context) (string, bool) {
	if v, ok := registryVersion(); ok {
		return v, true
	}

	out, err := p.run(ctx, "wmic", "datafile", "where",
		"name='"+desktopExecutable+"'", "get", "version", "/value")
	if err != nil {
		return "", false
	}
	return parseWMIC(out)
}

func registryVersion() (string, bool) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, desktopRegistryKey, registry.QUERY_VALUE)
	if err != nil {
		return "", false
	}
	defer k.Close()

	v, _, err := k.GetStringValue("CurrentVersion")
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}
