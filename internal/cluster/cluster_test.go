package cluster

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		scheduler Scheduler
		wantErr   bool
	}{
		{"catalyst", SchedulerSlurm, false},
		{"corona", SchedulerSlurm, false},
		{"pascal", SchedulerSlurm, false},
		{"lassen", SchedulerLSF, false},
		{"ray", SchedulerLSF, false},
		{"quartz", "", true},
		{"", "", true},
		{"Lassen", "", true}, // names are case-sensitive
	}

	for _, tc := range tests {
		clus, err := Resolve(tc.name)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Resolve(%q): expected error, got %q", tc.name, clus)
				continue
			}
			if !errors.Is(err, &UnsupportedClusterError{}) {
				t.Errorf("Resolve(%q): error %v is not an UnsupportedClusterError", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", tc.name, err)
			continue
		}
		if clus.Scheduler() != tc.scheduler {
			t.Errorf("Resolve(%q): scheduler = %q, want %q", tc.name, clus.Scheduler(), tc.scheduler)
		}
	}
}

func TestUnsupportedClusterMessage(t *testing.T) {
	_, err := Resolve("summit")
	if err == nil {
		t.Fatal("expected error for unknown cluster")
	}
	if got, want := err.Error(), "Unsupported Cluster: summit"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestKnown(t *testing.T) {
	known := Known()
	want := []Cluster{Catalyst, Corona, Lassen, Pascal, Ray}
	if len(known) != len(want) {
		t.Fatalf("Known() = %v, want %v", known, want)
	}
	for i := range want {
		if known[i] != want[i] {
			t.Errorf("Known()[%d] = %q, want %q", i, known[i], want[i])
		}
	}
}

func TestAliasPartition(t *testing.T) {
	tests := []struct {
		cluster   Cluster
		partition string
		want      string
	}{
		{Pascal, "pdebug", "pbatch"}, // pascal has no debug partition
		{Pascal, "pbatch", "pbatch"},
		{Catalyst, "pdebug", "pdebug"},
		{Lassen, "pdebug", "pdebug"},
	}

	for _, tc := range tests {
		if got := tc.cluster.AliasPartition(tc.partition); got != tc.want {
			t.Errorf("%s.AliasPartition(%q) = %q, want %q", tc.cluster, tc.partition, got, tc.want)
		}
	}
}

func TestRewriteDataDir(t *testing.T) {
	tests := []struct {
		cluster Cluster
		path    string
		want    string
	}{
		{Lassen, "/p/lscratchh/user/mnist", "/p/gpfs1/user/mnist"},
		{Ray, "/p/lscratchh/user/mnist", "/p/gscratchr/user/mnist"},
		{Ray, "/p/gscratchr/user/mnist", "/p/gscratchr/user/mnist"},
		// Native path clusters never rewrite
		{Catalyst, "/p/lscratchh/user/mnist", "/p/lscratchh/user/mnist"},
		{Pascal, "/p/lscratchh/user/mnist", "/p/lscratchh/user/mnist"},
		// No scratch token, path unchanged
		{Lassen, "/usr/share/mnist", "/usr/share/mnist"},
	}

	for _, tc := range tests {
		if got := tc.cluster.RewriteDataDir(tc.path); got != tc.want {
			t.Errorf("%s.RewriteDataDir(%q) = %q, want %q", tc.cluster, tc.path, got, tc.want)
		}
	}
}

func TestRewriteDataFilename(t *testing.T) {
	tests := []struct {
		cluster Cluster
		path    string
		want    string
	}{
		// Lassen relocates label files under original/
		{Lassen, "/p/lscratchh/mnist/labels-idx1", "/p/gpfs1/mnist/original/labels-idx1"},
		{Lassen, "/p/lscratchh/mnist/images-idx3", "/p/gpfs1/mnist/images-idx3"},
		{Ray, "/p/lscratchh/mnist/labels-idx1", "/p/gscratchr/mnist/labels-idx1"},
	}

	for _, tc := range tests {
		if got := tc.cluster.RewriteDataFilename(tc.path); got != tc.want {
			t.Errorf("%s.RewriteDataFilename(%q) = %q, want %q", tc.cluster, tc.path, got, tc.want)
		}
	}
}
