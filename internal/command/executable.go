package command

import (
	"fmt"
	"os"

	"github.com/enmccarthy/lbann/internal/cluster"
	"github.com/enmccarthy/lbann/internal/utils"
)

// CheckExecutable probes the target executable on the filesystem.
// A missing executable yields a SkipError when skipMissing is set,
// otherwise a fatal ExecutableError.
func CheckExecutable(path string, skipMissing bool) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	missing := &ExecutableError{Path: path}
	if skipMissing {
		utils.PrintDebug("Skip - %v", missing)
		return &SkipError{Reason: missing}
	}
	return missing
}

// compilers are the toolchains CI builds the executable with
var compilers = []string{"clang6", "gcc7", "intel19"}

// SpackExecutables returns the spack-built executable path for each
// compiler toolchain (release and debug) under the source tree.
func SpackExecutables(dirName string, clus cluster.Cluster) map[string]string {
	exes := make(map[string]string, 2*len(compilers))
	builds := map[string]string{
		"clang6":  "clang-6.0.0",
		"gcc7":    "gcc-7.1.0",
		"intel19": "intel-19.0.0",
	}
	for name, version := range builds {
		exes[name] = fmt.Sprintf(
			"%s/bamboo/compiler_tests/builds/%s_%s_rel/build/model_zoo/lbann",
			dirName, clus, version)
		exes[name+"_debug"] = fmt.Sprintf(
			"%s/bamboo/compiler_tests/builds/%s_%s_debug/build/model_zoo/lbann",
			dirName, clus, version)
	}
	return exes
}

// cmakeExecutable is the build-script fallback path when the spack
// build is absent
func cmakeExecutable(dirName string, clus cluster.Cluster, compilerDir, buildType string) string {
	return fmt.Sprintf("%s/build/%s.%s.%s.llnl.gov/install/bin/lbann",
		dirName, compilerDir, buildType, clus)
}

// DefaultExecutables returns the per-compiler executable candidates
// for a cluster, preferring spack builds and falling back to the
// build-script layout when the spack path does not exist on disk.
func DefaultExecutables(dirName string, clus cluster.Cluster) map[string]string {
	exes := SpackExecutables(dirName, clus)

	fallbacks := map[string]string{
		"clang6":  "clang",
		"gcc7":    "gnu",
		"intel19": "intel",
	}
	for name, compilerDir := range fallbacks {
		if _, err := os.Stat(exes[name]); err != nil {
			exes[name] = cmakeExecutable(dirName, clus, compilerDir, "Release")
		}
		debug := name + "_debug"
		if _, err := os.Stat(exes[debug]); err != nil {
			exes[debug] = cmakeExecutable(dirName, clus, compilerDir, "Debug")
		}
	}

	defaults := map[string]string{
		"default": cmakeExecutable(dirName, clus, "gnu", "Release"),
	}
	// Catalyst (x86 cpu), pascal (x86 gpu) and lassen (ppc64le gpu)
	// build with every compiler.
	switch clus {
	case cluster.Catalyst, cluster.Corona, cluster.Lassen, cluster.Pascal:
		for name := range exes {
			defaults[name] = exes[name]
		}
	}
	return defaults
}
