//go:build darwin

package companion

import (
	"context"
	"os"
)

const desktopInfoPlist = "/Applications/Docker.app/Contents/Info.plist"

// New returns a probe reading the application bundle's Info.plist.
func New() *Probe {
	return &Probe{run: execRunner, readFile: os.ReadFile}
}

func (p *Probe) lookup(ctx context.Context) (string, bool) {
	data, err := p.readFile(desktopInfoPlist)
	if err == nil {
		if v, ok := parsePlistVersion(data); ok {
			return v, true
		}
	}
	// Binary plists are not XML; let the system convert it.
	out, err := p.run(ctx, "defaults", "read", "/Applications/Docker.app/Contents/Info", "CFBundleShortVersionString")
	if err != nil {
		return "", false
	}
	return parsePackageVersion(out)
}
