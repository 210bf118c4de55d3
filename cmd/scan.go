package cmd

import (
	"fmt"

	"github.com/enmccarthy/lbann/internal/logscan"
	"github.com/enmccarthy/lbann/internal/utils"
	"github.com/spf13/cobra"
)

var (
	scanReturnCode int
	scanExpect     string
)

var scanCmd = &cobra.Command{
	Use:   "scan [log-file]",
	Short: "Scan a job error log and classify the outcome",
	Long: `Scan a job's error log for the first failure marker and print the
diagnostic line.

With --rc, the scan becomes an assertion on the job outcome: a nonzero
return code must be explained by the log. Add --expect to assert the
job failed with a specific error.`,
	Example: `  lbannctl scan run.err                          # Print the diagnostic line
  lbannctl scan run.err --rc 1                   # Assert the job succeeded
  lbannctl scan run.err --rc 1 --expect "Error"  # Assert it failed as expected`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().IntVar(&scanReturnCode, "rc", 0, "Job return code to assert on")
	scanCmd.Flags().StringVar(&scanExpect, "expect", "", "Substring the log must contain when failure is expected")
}

func runScan(cmd *cobra.Command, args []string) error {
	logPath := args[0]

	if !cmd.Flags().Changed("rc") {
		line, err := logscan.ErrorLine(logPath)
		if err != nil {
			return err
		}
		if line == "" {
			utils.PrintMessage("No failure markers found in %s", utils.StylePath(logPath))
			return nil
		}
		fmt.Print(line)
		return nil
	}

	if scanExpect != "" {
		if err := logscan.AssertFailure(scanReturnCode, scanExpect, logPath); err != nil {
			return err
		}
		utils.PrintSuccess("Job failed with the expected error.")
		return nil
	}

	if err := logscan.AssertSuccess(scanReturnCode, logPath); err != nil {
		return err
	}
	utils.PrintSuccess("Job succeeded.")
	return nil
}
