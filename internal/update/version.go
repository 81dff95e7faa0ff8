package update

import (
	"strconv"
	"strings"
)

// Compare reports whether latest is strictly newer than current.
//
// A leading "v" is ignored. Trailing zero components past the third are dropped, since
// installer and registry metadata pad versions (4.42.1.0 == 4.42.1). Missing
// components count as zero. Any non-numeric component makes the versions
// incomparable and Compare returns false.
func Compare(current, latest string) bool {
	cur, ok := parseVersion(current)
	if !ok {
		return false
	}
	lat, ok := parseVersion(latest)
	if !ok {
		return false
	}

	n := len(cur)
	if len(lat) > n {
		n = len(lat)
	}
	for i := 0; i < n; i++ {
		c, l := component(cur, i), component(lat, i)
		if l != c {
			return l > c
		}
	}
	return false
}

func parseVersion(v string) ([]uint64, bool) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		return nil, false
	}
	parts := strings.Split(v, ".")
	for len(parts) > 3 && parts[len(parts)-1] == "0" {
		parts = parts[:len(parts)-1]
	}
	out := make([]uint64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

func component(parts []uint64, i int) uint64 {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

// Normalize trims a version to at most three dot-separated components.
// Installed-application probes report four-part versions with a padded zero.
func Normalize(v string) string {
	v = strings.Trim(strings.TrimSpace(v), `"`)
	parts := strings.Split(v, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, ".")
}
