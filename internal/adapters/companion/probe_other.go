//go:build !windows && !darwin && !linux

package companion

import (
	"context"
	"os"
)

// New returns a probe that never finds the application.
func New() *Probe {
	return &Probe{run: execRunner, readFile: os.ReadFile}
}

func (p *Probe) lookup(ctx context.Context) (string, bool) {
	return "", false
}
