package command

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/enmccarthy/lbann/internal/cluster"
)

// clearAllocationEnv unsets the scheduler allocation variables so
// tests always exercise the allocation path, restoring them afterward.
func clearAllocationEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SLURM_JOB_NUM_NODES", "LSB_HOSTS", "LSB_JOBID"} {
		t.Setenv(key, "") // registers restoration of the original value
		os.Unsetenv(key)
	}
}

func TestResolveTimeLimit(t *testing.T) {
	tests := []struct {
		name      string
		timeLimit int
		weekly    bool
		want      int
	}{
		{"nightly default", 0, false, 35},
		{"weekly default", 0, true, 360},
		{"explicit value", 120, false, 120},
		{"explicit value weekly", 120, true, 120},
		{"clamped to max", 500, false, 360},
		{"weekly clamped", 500, true, 360},
		{"exactly max", 360, false, 360},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveTimeLimit(tc.timeLimit, tc.weekly); got != tc.want {
				t.Errorf("resolveTimeLimit(%d, %v) = %d, want %d", tc.timeLimit, tc.weekly, got, tc.want)
			}
		})
	}
}

func TestBuildSlurm(t *testing.T) {
	clearAllocationEnv(t)

	req := &Request{
		Cluster:             "pascal",
		Executable:          "./lbann",
		NumNodes:            2,
		NumProcesses:        4,
		Partition:           "pdebug",
		SkipExecutableCheck: true,
	}
	resolved, err := Build(req)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	wantAllocate := "salloc --nodes=2 --partition=pbatch --time=35"
	if resolved.Allocate != wantAllocate {
		t.Errorf("Allocate = %q, want %q", resolved.Allocate, wantAllocate)
	}
	wantRun := " srun --mpibind=off --time=35 --ntasks=4"
	if resolved.Run != wantRun {
		t.Errorf("Run = %q, want %q", resolved.Run, wantRun)
	}
	wantApplication := "./lbann --data_reader_percent=0.1"
	if resolved.Application != wantApplication {
		t.Errorf("Application = %q, want %q", resolved.Application, wantApplication)
	}
	if resolved.Redirect != "" {
		t.Errorf("Redirect = %q, want empty", resolved.Redirect)
	}

	want := "salloc --nodes=2 --partition=pbatch --time=35 srun --mpibind=off --time=35 --ntasks=4 ./lbann --data_reader_percent=0.1"
	if got := resolved.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBuildSlurmAlreadyAllocated(t *testing.T) {
	clearAllocationEnv(t)
	t.Setenv("SLURM_JOB_NUM_NODES", "2")

	req := &Request{
		Cluster:             "catalyst",
		Executable:          "./lbann",
		NumProcesses:        2,
		SkipExecutableCheck: true,
	}
	resolved, err := Build(req)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if resolved.Allocate != "" {
		t.Errorf("Allocate = %q, want empty inside an allocation", resolved.Allocate)
	}
	// No leading space when the allocation segment is empty
	wantRun := "srun --mpibind=off --time=35 --ntasks=2"
	if resolved.Run != wantRun {
		t.Errorf("Run = %q, want %q", resolved.Run, wantRun)
	}
}

func TestBuildLassen(t *testing.T) {
	clearAllocationEnv(t)

	req := &Request{
		Cluster:             "lassen",
		Executable:          "./lbann",
		NumNodes:            2,
		NumProcesses:        32,
		Partition:           "pbatch",
		Weekly:              true,
		SkipExecutableCheck: true,
	}
	resolved, err := Build(req)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// No -x on lassen, -nnodes instead of -n
	wantAllocate := "bsub -G guests -Is -nnodes 2 -q pbatch -W 360"
	if resolved.Allocate != wantAllocate {
		t.Errorf("Allocate = %q, want %q", resolved.Allocate, wantAllocate)
	}
	// jsrun takes no time limit; process count is capped at 16
	wantRun := ` jsrun -b "packed:10" -c 40 -g 4 -d packed -n 16 -r 1 -a 4`
	if resolved.Run != wantRun {
		t.Errorf("Run = %q, want %q", resolved.Run, wantRun)
	}
	if strings.Contains(resolved.Run, "-n 32") {
		t.Error("process count above 16 must be silently reduced, never passed through")
	}
	wantApplication := "./lbann --data_reader_percent=1"
	if resolved.Application != wantApplication {
		t.Errorf("Application = %q, want %q", resolved.Application, wantApplication)
	}
}

func TestBuildLassenAlreadyAllocated(t *testing.T) {
	clearAllocationEnv(t)
	t.Setenv("LSB_JOBID", "12345")

	req := &Request{
		Cluster:             "lassen",
		Executable:          "./lbann",
		NumProcesses:        4,
		SkipExecutableCheck: true,
	}
	resolved, err := Build(req)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if resolved.Allocate != "" {
		t.Errorf("Allocate = %q, want empty inside an LSF job", resolved.Allocate)
	}
	wantRun := `jsrun -b "packed:10" -c 40 -g 4 -d packed -n 4 -r 1 -a 4`
	if resolved.Run != wantRun {
		t.Errorf("Run = %q, want %q", resolved.Run, wantRun)
	}
}

func TestBuildRay(t *testing.T) {
	clearAllocationEnv(t)

	req := &Request{
		Cluster:             "ray",
		Executable:          "./lbann",
		NumNodes:            2,
		NumProcesses:        5,
		Partition:           "pbatch",
		TimeLimit:           120,
		SkipExecutableCheck: true,
	}
	resolved, err := Build(req)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// ray allocates exclusively and uses task counts: ptile = ceil(5/2)
	wantAllocate := `bsub -x -G guests -Is -n 5 -R "span[ptile=3]" -q pbatch -W 120`
	if resolved.Allocate != wantAllocate {
		t.Errorf("Allocate = %q, want %q", resolved.Allocate, wantAllocate)
	}
	wantRun := " mpirun --timeout=120 -np 5 -N 3"
	if resolved.Run != wantRun {
		t.Errorf("Run = %q, want %q", resolved.Run, wantRun)
	}
}

func TestRayAllocationTimeCap(t *testing.T) {
	clearAllocationEnv(t)

	// The ray-specific 480-minute cap sits below the bsub -W flag,
	// independent of the global wall-time clamp.
	clus := mustResolve(t, "ray")
	segment, effective := buildLsfAllocate(clus, &Request{}, 500)
	if effective != 480 {
		t.Errorf("effective time = %d, want 480", effective)
	}
	if !strings.Contains(segment, "-W 480") {
		t.Errorf("allocation %q does not carry the capped -W 480", segment)
	}

	// lassen has no allocation cap
	clus = mustResolve(t, "lassen")
	if _, effective := buildLsfAllocate(clus, &Request{}, 500); effective != 500 {
		t.Errorf("lassen effective time = %d, want 500", effective)
	}
}

func TestBuildRedirect(t *testing.T) {
	clearAllocationEnv(t)

	req := &Request{
		Cluster:             "catalyst",
		Executable:          "./lbann",
		OutputFileName:      "out.log",
		ErrorFileName:       "err.log",
		SkipExecutableCheck: true,
	}
	resolved, err := Build(req)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if want := " > out.log 2> err.log"; resolved.Redirect != want {
		t.Errorf("Redirect = %q, want %q", resolved.Redirect, want)
	}
	if !strings.HasSuffix(resolved.String(), " ./lbann --data_reader_percent=0.1 > out.log 2> err.log") {
		t.Errorf("String() = %q lacks redirect tail", resolved.String())
	}
}

func TestBuildUnsupportedCluster(t *testing.T) {
	req := &Request{
		Cluster:             "sierra",
		Executable:          "./lbann",
		SkipExecutableCheck: true,
	}
	_, err := Build(req)
	if err == nil {
		t.Fatal("expected error for unsupported cluster")
	}
	if !strings.Contains(err.Error(), "Unsupported Cluster: sierra") {
		t.Errorf("error = %q, want unsupported-cluster message", err)
	}
}

func TestCommandTuple(t *testing.T) {
	resolved := &Command{
		Allocate:    "salloc",
		Run:         " srun",
		Application: "exe --flag",
		Redirect:    " > out",
	}
	allocate, run, application, redirect := resolved.Tuple()
	if allocate != "salloc" || run != " srun" || application != "exe --flag" || redirect != " > out" {
		t.Errorf("Tuple() = (%q, %q, %q, %q)", allocate, run, application, redirect)
	}
	if want := "salloc srun exe --flag > out"; resolved.String() != want {
		t.Errorf("String() = %q, want %q", resolved.String(), want)
	}
}

func TestBuildExecutableCheck(t *testing.T) {
	clearAllocationEnv(t)

	tmpDir := t.TempDir()
	exe := filepath.Join(tmpDir, "lbann")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	// Existing executable builds fine
	req := &Request{Cluster: "catalyst", Executable: exe}
	if _, err := Build(req); err != nil {
		t.Fatalf("Build failed with existing executable: %v", err)
	}

	// Missing executable skips by default
	req = &Request{Cluster: "catalyst", Executable: filepath.Join(tmpDir, "missing")}
	_, err := Build(req)
	var skip *SkipError
	if !errors.As(err, &skip) {
		t.Fatalf("error = %T (%v), want *SkipError", err, err)
	}

	// ...and is fatal when skipping is disabled
	req.FailMissingExecutable = true
	_, err = Build(req)
	var missing *ExecutableError
	if errors.As(err, &skip) || !errors.As(err, &missing) {
		t.Fatalf("error = %T (%v), want *ExecutableError", err, err)
	}
	if !strings.Contains(err.Error(), "Executable does not exist:") {
		t.Errorf("error = %q, want existence message", err)
	}
}

func mustResolve(t *testing.T, name string) cluster.Cluster {
	t.Helper()
	clus, err := cluster.Resolve(name)
	if err != nil {
		t.Fatal(err)
	}
	return clus
}
