package command

import (
	"fmt"
	"strings"

	"github.com/enmccarthy/lbann/internal/cluster"
	"github.com/enmccarthy/lbann/internal/utils"
)

// buildRun constructs the parallel-launch segment wrapping the
// executable. A single leading space separates it from a preceding
// non-empty allocation segment.
func buildRun(clus cluster.Cluster, req *Request, timeLimit int, allocated bool) (string, error) {
	space := ""
	if allocated {
		space = " "
	}

	switch clus.Scheduler() {
	case cluster.SchedulerSlurm:
		return space + buildSrun(req, timeLimit), nil
	case cluster.SchedulerLSF:
		if clus.Attrs().NodeCountAllocation {
			return space + buildJsrun(clus, req), nil
		}
		return space + buildMpirun(req, timeLimit), nil
	default:
		return "", fmt.Errorf("%w: %s", cluster.ErrUnsupportedScheduler, clus.Scheduler())
	}
}

func buildSrun(req *Request, timeLimit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "srun --mpibind=off --time=%d", timeLimit)
	if req.NumProcesses != 0 {
		// --ntasks => number of tasks to run (MPI ranks)
		fmt.Fprintf(&b, " --ntasks=%d", req.NumProcesses)
	}
	return b.String()
}

// buildJsrun emits the jsrun launcher used on lassen. jsrun takes no
// time limit, and its resource-set layout caps the usable process
// count at 16; larger requests are silently reduced.
func buildJsrun(clus cluster.Cluster, req *Request) string {
	var b strings.Builder
	b.WriteString("jsrun")
	if req.NumProcesses != 0 {
		numProcesses := req.NumProcesses
		if limit := clus.Attrs().MaxLaunchProcs; limit != 0 && numProcesses > limit {
			utils.PrintDebug("Clamping process count from %d to %d for %s.", numProcesses, limit, clus)
			numProcesses = limit
		}
		b.WriteString(" -b \"packed:10\"")
		b.WriteString(" -c 40")
		b.WriteString(" -g 4")
		b.WriteString(" -d packed")
		fmt.Fprintf(&b, " -n %d", numProcesses)
		b.WriteString(" -r 1")
		b.WriteString(" -a 4")
	}
	return b.String()
}

func buildMpirun(req *Request, timeLimit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "mpirun --timeout=%d", timeLimit)
	if req.NumProcesses != 0 {
		// -np => run this many copies of the program
		fmt.Fprintf(&b, " -np %d", req.NumProcesses)
		if req.NumNodes != 0 {
			fmt.Fprintf(&b, " -N %d", ceilDiv(req.NumProcesses, req.NumNodes))
		}
	}
	return b.String()
}
