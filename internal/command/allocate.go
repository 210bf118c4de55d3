package command

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/enmccarthy/lbann/internal/cluster"
	"github.com/enmccarthy/lbann/internal/utils"
)

// buildAllocate constructs the resource-allocation segment for the
// cluster's scheduler. If the environment shows an allocation already
// exists, the segment is empty. The returned time limit is the
// effective limit for the run command, which on some clusters is
// clamped below the requested value during allocation.
func buildAllocate(clus cluster.Cluster, req *Request, timeLimit int) (string, int, error) {
	switch clus.Scheduler() {
	case cluster.SchedulerSlurm:
		return buildSlurmAllocate(clus, req, timeLimit), timeLimit, nil
	case cluster.SchedulerLSF:
		segment, timeLimit := buildLsfAllocate(clus, req, timeLimit)
		return segment, timeLimit, nil
	default:
		return "", 0, fmt.Errorf("%w: %s", cluster.ErrUnsupportedScheduler, clus.Scheduler())
	}
}

// buildSlurmAllocate emits a salloc invocation, or nothing when the
// SLURM environment shows nodes are already allocated.
func buildSlurmAllocate(clus cluster.Cluster, req *Request, timeLimit int) string {
	if _, allocated := os.LookupEnv("SLURM_JOB_NUM_NODES"); allocated {
		utils.PrintDebug("slurm nodes already allocated.")
		return ""
	}
	utils.PrintDebug("Allocating slurm nodes.")

	var b strings.Builder
	b.WriteString("salloc")
	if req.NumNodes != 0 {
		// --nodes => minimum node count allocated to this job
		fmt.Fprintf(&b, " --nodes=%d", req.NumNodes)
	}
	if req.Partition != "" {
		// --partition => request a specific partition; clusters
		// without a debug partition alias it away
		fmt.Fprintf(&b, " --partition=%s", clus.AliasPartition(req.Partition))
	}
	// --time => limit on the total run time of the allocation, in minutes
	fmt.Fprintf(&b, " --time=%d", timeLimit)
	return b.String()
}

// buildLsfAllocate emits a bsub invocation, or nothing when the LSF
// environment shows a job is already running. The returned time limit
// reflects any cluster-specific allocation cap.
func buildLsfAllocate(clus cluster.Cluster, req *Request, timeLimit int) (string, int) {
	_, hosts := os.LookupEnv("LSB_HOSTS")
	_, jobID := os.LookupEnv("LSB_JOBID")
	if hosts || jobID {
		utils.PrintDebug("lsf nodes already allocated.")
		return "", timeLimit
	}
	utils.PrintDebug("Allocating lsf nodes.")

	attrs := clus.Attrs()

	var b strings.Builder
	b.WriteString("bsub")
	if attrs.ExclusiveHost {
		// -x => exclusive execution mode on the allocated hosts
		b.WriteString(" -x")
	}
	// -G => associates the job with the fairshare group
	b.WriteString(" -G guests")
	// -Is => interactive job with a pseudo-terminal in shell mode
	b.WriteString(" -Is")
	if attrs.NodeCountAllocation {
		if req.NumNodes != 0 {
			// -nnodes => node count, on clusters whose bsub does not
			// take task counts
			fmt.Fprintf(&b, " -nnodes %d", req.NumNodes)
		}
	} else if req.NumProcesses != 0 {
		// -n => parallel job with this many tasks
		fmt.Fprintf(&b, " -n %d", req.NumProcesses)
		if req.NumNodes != 0 {
			// -R span[ptile] => tasks per host
			perHost := ceilDiv(req.NumProcesses, req.NumNodes)
			fmt.Fprintf(&b, " -R \"span[ptile=%d]\"", perHost)
		}
	}
	if req.Partition != "" {
		// -q => submit to the named queue
		fmt.Fprintf(&b, " -q %s", req.Partition)
	}
	if attrs.MaxAllocMinutes != 0 && timeLimit > attrs.MaxAllocMinutes {
		utils.PrintDebug("Clamping time limit to %d minutes for %s.", attrs.MaxAllocMinutes, clus)
		timeLimit = attrs.MaxAllocMinutes
	}
	// -W => runtime limit of the job, in minutes
	fmt.Fprintf(&b, " -W %d", timeLimit)
	return b.String(), timeLimit
}

// ceilDiv returns ceil(a/b) for positive integers
func ceilDiv(a, b int) int {
	return int(math.Ceil(float64(a) / float64(b)))
}
