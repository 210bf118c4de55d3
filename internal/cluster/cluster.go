// Package cluster maps LC cluster names to their scheduler family and
// holds the per-cluster quirks (partition aliases, scratch mounts,
// launcher caps) that command construction needs.
package cluster

import (
	"regexp"
	"sort"
	"strings"
)

// Scheduler represents the resource-manager family of a cluster
type Scheduler string

const (
	SchedulerUnknown Scheduler = ""
	SchedulerSlurm   Scheduler = "slurm"
	SchedulerLSF     Scheduler = "lsf"
)

// Cluster is the name of a known compute cluster
type Cluster string

const (
	Catalyst Cluster = "catalyst"
	Corona   Cluster = "corona"
	Pascal   Cluster = "pascal"
	Lassen   Cluster = "lassen"
	Ray      Cluster = "ray"
)

// Attributes holds the cluster-specific behavior consulted while
// building allocation and run commands.
type Attributes struct {
	Scheduler Scheduler

	// PartitionAliases rewrites partitions the cluster does not have
	// (e.g. pascal has no pdebug partition).
	PartitionAliases map[string]string

	// ScratchMount replaces the generic scratch token in data paths.
	// Empty means the native path is already correct and no data
	// location flags are passed at all.
	ScratchMount string

	// RelabelData rewrites "labels" to "original/labels" in data
	// filenames before the scratch substitution result is used.
	RelabelData bool

	// ExclusiveHost requests exclusive execution mode on allocation
	// (bsub -x). Not supported on lassen.
	ExclusiveHost bool

	// NodeCountAllocation selects the -nnodes allocation syntax
	// instead of task counts (lassen's bsub).
	NodeCountAllocation bool

	// MaxLaunchProcs caps the process count passed to the parallel
	// launcher. Zero means no cap.
	MaxLaunchProcs int

	// MaxAllocMinutes caps the allocation run limit, independent of
	// the global wall-time clamp. Zero means no extra cap.
	MaxAllocMinutes int
}

var attributes = map[Cluster]Attributes{
	Catalyst: {
		Scheduler: SchedulerSlurm,
	},
	Corona: {
		Scheduler: SchedulerSlurm,
	},
	Pascal: {
		Scheduler:        SchedulerSlurm,
		PartitionAliases: map[string]string{"pdebug": "pbatch"},
	},
	Lassen: {
		Scheduler:           SchedulerLSF,
		ScratchMount:        "gpfs1",
		RelabelData:         true,
		NodeCountAllocation: true,
		MaxLaunchProcs:      16,
	},
	Ray: {
		Scheduler:       SchedulerLSF,
		ScratchMount:    "gscratchr",
		ExclusiveHost:   true,
		MaxAllocMinutes: 480,
	},
}

// scratchRe matches the generic scratch-mount token in LC data paths
// (e.g. "lscratchh"). Rewritten per cluster via ScratchMount.
var scratchRe = regexp.MustCompile(`[a-z]scratch[a-z]`)

// Resolve maps a cluster name to a known Cluster.
// Returns an UnsupportedClusterError for any unknown name.
func Resolve(name string) (Cluster, error) {
	c := Cluster(name)
	if _, ok := attributes[c]; !ok {
		return "", &UnsupportedClusterError{Name: name}
	}
	return c, nil
}

// Known returns all known cluster names in sorted order
func Known() []Cluster {
	clusters := make([]Cluster, 0, len(attributes))
	for c := range attributes {
		clusters = append(clusters, c)
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i] < clusters[j] })
	return clusters
}

// Attrs returns the cluster's attribute set
func (c Cluster) Attrs() Attributes {
	return attributes[c]
}

// Scheduler returns the cluster's scheduler family
func (c Cluster) Scheduler() Scheduler {
	return attributes[c].Scheduler
}

// AliasPartition substitutes partitions the cluster does not provide
func (c Cluster) AliasPartition(partition string) string {
	if alias, ok := attributes[c].PartitionAliases[partition]; ok {
		return alias
	}
	return partition
}

// RewriteDataDir rewrites the scratch-mount token of a data directory
// for this cluster. Paths without the token are returned unchanged.
func (c Cluster) RewriteDataDir(path string) string {
	mount := attributes[c].ScratchMount
	if mount == "" {
		return path
	}
	return scratchRe.ReplaceAllString(path, mount)
}

// RewriteDataFilename rewrites a data filename for this cluster,
// relocating label files on clusters that keep them under original/.
func (c Cluster) RewriteDataFilename(path string) string {
	path = c.RewriteDataDir(path)
	if attributes[c].RelabelData {
		path = strings.ReplaceAll(path, "labels", "original/labels")
	}
	return path
}
