//go:build linux

package companion

import (
	"context"
	"os"
)

const desktopPackage = "docker-desktop"

// New returns a probe asking the package manager.
func New() *Probe {
	return &Probe{run: execRunner, readFile: os.ReadFile}
}

func (p *Probe) lookup(ctx context.Context) (string, bool) {
	if out, err := p.run(ctx, "dpkg-query", "-W", "-f=${Version}", desktopPackage); err == nil {
		if v, ok := parsePackageVersion(out); ok {
			return v, true
		}
	}
	out, err := p.run(ctx, "rpm", "-q", "--qf", "%{VERSION}", desktopPackage)
	if err != nil {
		return "", false
	}
	return parsePackageVersion(out)
}
