package config

import "testing"

func TestMeetsMinVersion(t *testing.T) {
	tests := []struct {
		name       string
		minVersion string
		want       bool
	}{
		{"no requirement", "", true},
		{"older requirement", "0.0.1", true},
		{"exact requirement", VERSION, true},
		{"newer requirement", "99.0.0", false},
		{"v-prefixed requirement", "v99.0.0", false},
		{"malformed requirement never blocks", "latest", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			LoadDefaults()
			Global.MinVersion = tc.minVersion
			if got := MeetsMinVersion(); got != tc.want {
				t.Errorf("MeetsMinVersion() with min_version=%q = %v, want %v", tc.minVersion, got, tc.want)
			}
		})
	}
}
