package command

import (
	"fmt"

	"github.com/enmccarthy/lbann/internal/cluster"
)

const (
	// DefaultTimeLimit is the nightly wall-time in minutes
	DefaultTimeLimit = 35
	// MaxTimeLimit is the weekly default and the global wall-time cap
	MaxTimeLimit = 360 // 6 hours
)

// Command holds the four ordered segments of a resolved command line.
// Each segment may be empty; concatenation order is fixed.
type Command struct {
	Allocate    string
	Run         string
	Application string
	Redirect    string
}

// String joins the segments into a single executable command line
func (c *Command) String() string {
	return fmt.Sprintf("%s%s %s%s", c.Allocate, c.Run, c.Application, c.Redirect)
}

// Tuple returns the four segments in their fixed order
func (c *Command) Tuple() (allocate, run, application, redirect string) {
	return c.Allocate, c.Run, c.Application, c.Redirect
}

// Build validates the request and constructs the allocation, run,
// application and redirect segments for the requested cluster.
//
// Failure modes are layered: blacklisted characters, a missing
// executable and an unknown cluster are each immediately fatal, while
// application-flag violations are collected across the whole request
// and reported together in a single UsageError.
func Build(req *Request) (*Command, error) {
	if err := req.sanitize(); err != nil {
		return nil, err
	}

	timeLimit := resolveTimeLimit(req.TimeLimit, req.Weekly)

	if !req.SkipExecutableCheck {
		if err := CheckExecutable(req.Executable, !req.FailMissingExecutable); err != nil {
			return nil, err
		}
	}

	clus, err := cluster.Resolve(req.Cluster)
	if err != nil {
		return nil, err
	}

	allocate, timeLimit, err := buildAllocate(clus, req, timeLimit)
	if err != nil {
		return nil, err
	}

	run, err := buildRun(clus, req, timeLimit, allocate != "")
	if err != nil {
		return nil, err
	}

	application, violations := buildApplication(clus, req)
	if len(violations) > 0 {
		return nil, &UsageError{Violations: violations}
	}

	return &Command{
		Allocate:    allocate,
		Run:         run,
		Application: application,
		Redirect:    buildRedirect(req),
	}, nil
}

// resolveTimeLimit applies the nightly/weekly default and the global cap
func resolveTimeLimit(timeLimit int, weekly bool) int {
	if timeLimit == 0 {
		if weekly {
			timeLimit = MaxTimeLimit
		} else {
			timeLimit = DefaultTimeLimit
		}
	}
	if timeLimit > MaxTimeLimit {
		timeLimit = MaxTimeLimit
	}
	return timeLimit
}

// buildRedirect serializes the output/error redirect segment
func buildRedirect(req *Request) string {
	redirect := ""
	if req.OutputFileName != "" {
		redirect += fmt.Sprintf(" > %s", req.OutputFileName)
	}
	if req.ErrorFileName != "" {
		redirect += fmt.Sprintf(" 2> %s", req.ErrorFileName)
	}
	return redirect
}
