// Package command constructs and validates the shell command line that
// allocates cluster resources and launches the LBANN executable. It
// only builds strings; execution is left entirely to the caller.
package command

import (
	"fmt"
	"strings"
)

// Blacklist holds the substrings that no request value may contain.
// A semicolon would terminate the command and allow a second one to be
// injected; a stray "--" would be picked up as an extra flag.
var Blacklist = []string{";", "--"}

// Request describes a desired cluster job. Every field is optional
// except Cluster and Executable; zero values mean "not set".
type Request struct {
	Cluster    string
	Executable string

	// Allocation/run parameters
	NumNodes     int
	NumProcesses int
	Partition    string
	TimeLimit    int // minutes; 0 resolves to the nightly/weekly default

	// LBANN parameters
	CkptDir                  string
	DirName                  string
	DataFiledirDefault       string
	DataFiledirTrainDefault  string
	DataFilenameTrainDefault string
	DataFiledirTestDefault   string
	DataFilenameTestDefault  string
	DataReaderName           string
	DataReaderPath           string
	DataReaderPercent        string // must parse as a float when set
	ExitAfterSetup           bool
	Metadata                 string
	MiniBatchSize            int
	ModelFolder              string
	ModelName                string
	ModelPath                string
	NumEpochs                int
	OptimizerName            string
	OptimizerPath            string
	ProcessesPerModel        int

	// ExtraFlags is an open mapping of additional LBANN flags. A nil
	// value emits a bare flag; anything else emits --flag=value.
	// Keys must be in AllowedExtraFlags.
	ExtraFlags map[string]interface{}

	// Error/output redirect
	OutputFileName string
	ErrorFileName  string

	// SkipExecutableCheck disables the executable existence probe.
	SkipExecutableCheck bool
	// FailMissingExecutable makes a missing executable fatal instead
	// of a skip.
	FailMissingExecutable bool

	// Weekly selects the long-run defaults (wall time, reader percent)
	Weekly bool
}

// CheckValues scans candidate values for blacklisted substrings and
// returns one violation message per (value, substring) pair found.
// Non-string values are ignored. No side effects.
func CheckValues(blacklist []string, values []interface{}) []string {
	var violations []string
	for _, value := range values {
		s, ok := value.(string)
		if !ok {
			continue
		}
		for _, substring := range blacklist {
			if strings.Contains(s, substring) {
				violations = append(violations, fmt.Sprintf("%s contains %s", s, substring))
			}
		}
	}
	return violations
}

// scalarValues collects every request value the sanitizer must scan,
// including the keys and values of the extra-flags mapping.
func (r *Request) scalarValues() []interface{} {
	values := []interface{}{
		r.Cluster, r.Executable,
		r.Partition,
		r.CkptDir, r.DirName, r.DataFiledirDefault, r.DataFiledirTrainDefault,
		r.DataFilenameTrainDefault, r.DataFiledirTestDefault,
		r.DataFilenameTestDefault, r.DataReaderName, r.DataReaderPath,
		r.DataReaderPercent, r.Metadata,
		r.ModelFolder, r.ModelName, r.ModelPath,
		r.OptimizerName, r.OptimizerPath,
		r.OutputFileName, r.ErrorFileName,
	}
	for flag, value := range r.ExtraFlags {
		values = append(values, flag, value)
	}
	return values
}

// sanitize applies the blacklist gate to every scalar field.
// Returns an UnsafeValueError listing all violations, or nil.
func (r *Request) sanitize() error {
	violations := CheckValues(Blacklist, r.scalarValues())
	if len(violations) > 0 {
		return &UnsafeValueError{Violations: violations}
	}
	return nil
}
