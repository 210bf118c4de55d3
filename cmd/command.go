package cmd

import (
	"fmt"
	"strings"

	"github.com/enmccarthy/lbann/internal/command"
	"github.com/enmccarthy/lbann/internal/config"
	"github.com/spf13/cobra"
)

var (
	cmdCluster    string
	cmdTuple      bool
	cmdExtraFlags []string

	cmdRequest command.Request
)

var commandCmd = &cobra.Command{
	Use:   "command [executable]",
	Short: "Build the allocation/run command line for a training executable",
	Long: `Build and validate the full command line that allocates cluster
resources (salloc/bsub), launches the executable in parallel
(srun/jsrun/mpirun) and passes its application flags.

The command is printed, never executed. Allocation flags are skipped
when the environment shows an allocation already exists
(SLURM_JOB_NUM_NODES, or LSB_HOSTS/LSB_JOBID).

Extra LBANN flags are passed with --extra and are restricted to an
allow-list; use "name=value" or a bare "name" for valueless flags.`,
	Example: `  lbannctl command ./lbann --cluster pascal --nodes 2 --procs 4
  lbannctl command ./lbann --cluster lassen --reader-name synthetic --model-path m.prototext
  lbannctl command ./lbann --cluster ray --extra num_gpus=2 --extra print_affinity --tuple`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true, // Runtime errors should not show usage
	RunE:         runCommand,
}

func init() {
	rootCmd.AddCommand(commandCmd)

	flags := commandCmd.Flags()
	flags.StringVar(&cmdCluster, "cluster", "", "Target cluster (defaults to the configured cluster)")
	flags.BoolVar(&cmdTuple, "tuple", false, "Print the four command segments on separate lines")

	// Allocation/run parameters
	flags.IntVar(&cmdRequest.NumNodes, "nodes", 0, "Number of nodes to allocate")
	flags.IntVar(&cmdRequest.NumProcesses, "procs", 0, "Number of processes (MPI ranks) to launch")
	flags.StringVar(&cmdRequest.Partition, "partition", "", "Partition/queue to allocate from")
	flags.IntVar(&cmdRequest.TimeLimit, "time-limit", 0, "Wall time in minutes (default 35, weekly 360)")

	// LBANN parameters
	flags.StringVar(&cmdRequest.CkptDir, "ckpt-dir", "", "Checkpoint directory")
	flags.StringVar(&cmdRequest.DirName, "dir-name", "", "Source tree root for templated prototext paths")
	flags.StringVar(&cmdRequest.DataFiledirDefault, "data-filedir", "", "Default data directory")
	flags.StringVar(&cmdRequest.DataFiledirTrainDefault, "data-filedir-train", "", "Training data directory")
	flags.StringVar(&cmdRequest.DataFilenameTrainDefault, "data-filename-train", "", "Training data filename")
	flags.StringVar(&cmdRequest.DataFiledirTestDefault, "data-filedir-test", "", "Test data directory")
	flags.StringVar(&cmdRequest.DataFilenameTestDefault, "data-filename-test", "", "Test data filename")
	flags.StringVar(&cmdRequest.DataReaderName, "reader-name", "", "Data reader name (templated path)")
	flags.StringVar(&cmdRequest.DataReaderPath, "reader-path", "", "Explicit data reader prototext path")
	flags.StringVar(&cmdRequest.DataReaderPercent, "reader-percent", "", "Fraction of data to read (default 0.10, weekly 1.00)")
	flags.BoolVar(&cmdRequest.ExitAfterSetup, "exit-after-setup", false, "Exit the trainer after setup")
	flags.StringVar(&cmdRequest.Metadata, "metadata", "", "Metadata prototext, relative to --dir-name")
	flags.IntVar(&cmdRequest.MiniBatchSize, "mini-batch-size", 0, "Mini-batch size")
	flags.StringVar(&cmdRequest.ModelFolder, "model-folder", "", "Model folder under model_zoo (with --model-name)")
	flags.StringVar(&cmdRequest.ModelName, "model-name", "", "Model name under model_zoo (with --model-folder)")
	flags.StringVar(&cmdRequest.ModelPath, "model-path", "", "Explicit model prototext path")
	flags.IntVar(&cmdRequest.NumEpochs, "num-epochs", 0, "Number of training epochs")
	flags.StringVar(&cmdRequest.OptimizerName, "optimizer-name", "", "Optimizer name (templated path)")
	flags.StringVar(&cmdRequest.OptimizerPath, "optimizer-path", "", "Explicit optimizer prototext path")
	flags.IntVar(&cmdRequest.ProcessesPerModel, "procs-per-model", 0, "Processes per model")
	flags.StringArrayVar(&cmdExtraFlags, "extra", nil, "Extra LBANN flag, \"name=value\" or bare \"name\" (repeatable)")

	// Redirects
	flags.StringVar(&cmdRequest.OutputFileName, "output-file", "", "Redirect stdout to this file")
	flags.StringVar(&cmdRequest.ErrorFileName, "error-file", "", "Redirect stderr to this file")

	// Misc
	flags.BoolVar(&cmdRequest.SkipExecutableCheck, "no-exe-check", false, "Do not probe the executable on disk")
	flags.BoolVar(&cmdRequest.FailMissingExecutable, "require-exe", false, "Fail (instead of skip) when the executable is missing")
	flags.BoolVar(&cmdRequest.Weekly, "weekly", false, "Use weekly-run defaults (wall time, reader percent)")
}

func runCommand(cmd *cobra.Command, args []string) error {
	req := cmdRequest

	req.Cluster = cmdCluster
	if req.Cluster == "" {
		req.Cluster = config.Global.Cluster
	}
	if len(args) == 1 {
		req.Executable = args[0]
	} else {
		req.Executable = config.Global.Executable
	}
	if req.DirName == "" {
		req.DirName = config.Global.DirName
	}
	if req.OutputFileName == "" {
		req.OutputFileName = config.Global.OutputFile
	}
	if req.ErrorFileName == "" {
		req.ErrorFileName = config.Global.ErrorFile
	}
	if !cmd.Flags().Changed("weekly") {
		req.Weekly = config.Global.Weekly
	}
	if len(cmdExtraFlags) > 0 {
		req.ExtraFlags = parseExtraFlags(cmdExtraFlags)
	}

	resolved, err := command.Build(&req)
	if err != nil {
		return err
	}

	if cmdTuple {
		allocate, run, application, redirect := resolved.Tuple()
		fmt.Printf("allocate: %s\n", allocate)
		fmt.Printf("run: %s\n", run)
		fmt.Printf("application: %s\n", application)
		fmt.Printf("redirect: %s\n", redirect)
		return nil
	}
	fmt.Println(resolved.String())
	return nil
}

// parseExtraFlags splits repeated --extra values into the open flag
// mapping; entries without "=" become bare flags.
func parseExtraFlags(entries []string) map[string]interface{} {
	extra := make(map[string]interface{}, len(entries))
	for _, entry := range entries {
		if name, value, found := strings.Cut(entry, "="); found {
			extra[name] = value
		} else {
			extra[entry] = nil
		}
	}
	return extra
}
