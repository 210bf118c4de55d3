// Package logscan classifies job outcomes from a run's error log.
// It scrapes a best-effort diagnostic line and backs the success and
// failure assertions used after a job finishes.
package logscan

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// failureMarkers flag the line itself as the diagnostic
var failureMarkers = []string{
	"ERROR",
	"LBANN error",
	"Error:",
	"Expired or invalid job",
	"Segmentation fault (core dumped)",
	"Relinquishing job allocation",
}

// traceMarkers flag the start of a trace; the actual error is assumed
// to be the line right before it
var traceMarkers = []string{
	"Stack trace:",
	"Error is not recoverable: exiting now",
}

func containsAny(line string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// ErrorLine scans the log line-by-line and returns the first line
// containing a failure marker, verbatim. A trace marker instead
// returns the previous line. An empty string means no marker was
// found anywhere in the log.
func ErrorLine(logPath string) (string, error) {
	file, err := os.Open(logPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	previous := ""
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if containsAny(line, failureMarkers) {
				return line, nil
			}
			if containsAny(line, traceMarkers) {
				return previous, nil
			}
			previous = line
		}
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", err
		}
	}
}

// AssertSuccess returns a JobFailureError embedding the scraped
// diagnostic line when the return code is nonzero.
func AssertSuccess(returnCode int, logPath string) error {
	if returnCode == 0 {
		return nil
	}
	diagnostic, err := ErrorLine(logPath)
	if err != nil {
		return err
	}
	return &JobFailureError{
		ReturnCode:     returnCode,
		DiagnosticLine: diagnostic,
		LogPath:        logPath,
	}
}

// AssertFailure verifies that the job failed with the expected error.
// A zero return code is an UnexpectedSuccessError regardless of log
// contents; a nonzero code whose log never mentions the expected
// substring is a WrongFailureError carrying the actual diagnostic.
func AssertFailure(returnCode int, expected, logPath string) error {
	if returnCode == 0 {
		return &UnexpectedSuccessError{LogPath: logPath}
	}

	file, err := os.Open(logPath)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), expected) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	diagnostic, err := ErrorLine(logPath)
	if err != nil {
		return err
	}
	return &WrongFailureError{
		ReturnCode:     returnCode,
		ActualLine:     diagnostic,
		ExpectedSubstr: expected,
		LogPath:        logPath,
	}
}
