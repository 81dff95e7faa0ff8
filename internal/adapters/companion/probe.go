// Package companion finds the installed version of Docker Desktop.
//
// Each platform has its own lookup; all of them are best-effort and report
// ok=false rather than an error when the application cannot be found.
package companion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"os/exec"
	"strings"

	"github.com/bft-labs/enginewatch/internal/update"
)

// runner executes a command and returns its standard output.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Probe implements ports.CompanionProbe for the current platform.
type Probe struct {
	run      runner
	readFile func(name string) ([]byte, error)
}

// CompanionVersion returns the installed Docker Desktop version, normalized to
// at most three components.
func (p *Probe) CompanionVersion(ctx context.Context) (string, bool) {
	v, ok := p.lookup(ctx)
	if !ok {
		return "", false
	}
	v = update.Normalize(v)
	if v == "" {
		return "", false
	}
	return v, true
}

// parseWMIC extracts the value from `wmic datafile ... get version /value`.
func parseWMIC(out []byte) (string, bool) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if v, ok := strings.CutPrefix(line, "Version="); ok {
			v = strings.TrimSpace(v)
			if v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// parsePlistVersion returns CFBundleShortVersionString from an XML Info.plist.
func parsePlistVersion(data []byte) (string, bool) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	var (
		inKey     bool
		inString  bool
		wantValue bool
		text      strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", false
		}
		if err != nil {
			return "", false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			text.Reset()
			inKey = t.Name.Local == "key"
			inString = t.Name.Local == "string"
			if !inKey && !inString {
				wantValue = false
			}
		case xml.CharData:
			if inKey || inString {
				text.Write(t)
			}
		case xml.EndElement:
			switch {
			case inKey:
				wantValue = strings.TrimSpace(text.String()) == "CFBundleShortVersionString"
			case inString && wantValue:
				v := strings.TrimSpace(text.String())
				return v, v != ""
			case inString:
				wantValue = false
			}
			inKey, inString = false, false
		}
	}
}

// parsePackageVersion strips the packaging revision from a dpkg or rpm
// version ("4.34.3-170107" becomes "4.34.3").
func parsePackageVersion(out []byte) (string, bool) {
	v := strings.TrimSpace(string(out))
	if v == "" || strings.Contains(v, "not installed") {
		return "", false
	}
	if i := strings.IndexAny(v, "-~"); i > 0 {
		v = v[:i]
	}
	if i := strings.Index(v, ":"); i >= 0 {
		v = v[i+1:]
	}
	return v, v != ""
}
