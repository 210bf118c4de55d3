package command

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckValues(t *testing.T) {
	tests := []struct {
		name      string
		blacklist []string
		values    []interface{}
		want      []string
	}{
		{
			name:      "clean values",
			blacklist: Blacklist,
			values:    []interface{}{"catalyst", "exe", "pbatch"},
			want:      nil,
		},
		{
			name:      "semicolon",
			blacklist: Blacklist,
			values:    []interface{}{"exe; rm -rf /"},
			want:      []string{"exe; rm -rf / contains ;"},
		},
		{
			name:      "flag injection",
			blacklist: Blacklist,
			values:    []interface{}{"--model=x"},
			want:      []string{"--model=x contains --"},
		},
		{
			name:      "one violation per pair",
			blacklist: Blacklist,
			values:    []interface{}{"a;b", "c--d"},
			want:      []string{"a;b contains ;", "c--d contains --"},
		},
		{
			name:      "value matching both substrings",
			blacklist: Blacklist,
			values:    []interface{}{";--"},
			want:      []string{";-- contains ;", ";-- contains --"},
		},
		{
			name:      "non-string values ignored",
			blacklist: Blacklist,
			values:    []interface{}{4, nil, true, 0.5},
			want:      nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CheckValues(tc.blacklist, tc.values)
			if len(got) != len(tc.want) {
				t.Fatalf("CheckValues() = %v, want %v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("violation[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestSanitizeGatesBeforeEverything(t *testing.T) {
	// An unsafe value must fail before cluster resolution, executable
	// probing and application-flag validation get a chance to run.
	req := &Request{
		Cluster:    "not-even-a-cluster;",
		Executable: "/does/not/exist",
		ModelPath:  "m.prototext",
		ModelName:  "also-set",
	}
	_, err := Build(req)
	if err == nil {
		t.Fatal("expected an error")
	}
	var unsafe *UnsafeValueError
	if !errors.As(err, &unsafe) {
		t.Fatalf("error = %T (%v), want *UnsafeValueError", err, err)
	}
	if !strings.Contains(err.Error(), "not-even-a-cluster; contains ;") {
		t.Errorf("error %q does not name the violation", err)
	}
}

func TestSanitizeScansExtraFlags(t *testing.T) {
	req := &Request{
		Cluster:             "catalyst",
		Executable:          "exe",
		SkipExecutableCheck: true,
		ExtraFlags: map[string]interface{}{
			"num_gpus": "2;3",
		},
	}
	_, err := Build(req)
	if !errors.Is(err, &UnsafeValueError{}) {
		t.Fatalf("error = %v, want UnsafeValueError for extra-flag value", err)
	}

	req.ExtraFlags = map[string]interface{}{"bad;key": nil}
	_, err = Build(req)
	if !errors.Is(err, &UnsafeValueError{}) {
		t.Fatalf("error = %v, want UnsafeValueError for extra-flag key", err)
	}

	// Non-string extra-flag values pass the sanitizer
	req.ExtraFlags = map[string]interface{}{"num_gpus": 2}
	if _, err := Build(req); err != nil {
		t.Fatalf("Build failed on integer extra-flag value: %v", err)
	}
}
