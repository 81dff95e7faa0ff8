package update

import "testing"

func TestCompare(t *testing.T) {
	tests := []struct {
		current string
		latest  string
		want    bool
	}{
		{"4.42.0", "4.42.1", true},
		{"4.42.1.0", "4.42.1", false},
		{"4.42.1", "4.42.1.0", false},
		{"v1.2", "1.2.0", false},
		{"1.2.0", "v1.3", true},
		{"27.3.1", "27.3.0", false},
		{"27.3", "27.3.1", true},
		{"27.3.1", "28", true},
		{"1.10.0", "1.9.9", false},
		{"1.2.3", "1.2.3", false},
		{" 1.2.3 ", "1.2.4\n", true},
		{"1.2.3", "stable", false},
		{"1.2.3", "1.2.x", false},
		{"1.2.beta", "9.9.9", false},
		{"", "1.0.0", false},
		{"1.0.0", "", false},
		{"4.42.0.12345", "4.42.1", true},
		{"4.42.1.0.0", "4.42.1", false},
		{"1.2.3.0.5", "1.2.3.5", true},
		{"1.2.3.5", "1.2.3.0.5", false},
		{"1.2.3.0.x", "1.2.4", false},
	}

	for _, tt := range tests {
		got := Compare(tt.current, tt.latest)
		if got != tt.want {
			t.Errorf("Compare(%q, %q) = %v, want %v", tt.current, tt.latest, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4.42.1.0", "4.42.1"},
		{"4.42.1", "4.42.1"},
		{`"4.30.0.1234"`, "4.30.0"},
		{"  4.1 ", "4.1"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
