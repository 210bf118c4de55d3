package logscan

import "fmt"

// JobFailureError reports a nonzero return code with the best-effort
// diagnostic line scraped from the log
type JobFailureError struct {
	ReturnCode     int
	DiagnosticLine string
	LogPath        string
}

func (e *JobFailureError) Error() string {
	return fmt.Sprintf("return_code=%d\n%s\nSee %s",
		e.ReturnCode, e.DiagnosticLine, e.LogPath)
}

// Is allows errors.Is to match any JobFailureError
func (e *JobFailureError) Is(target error) bool {
	_, ok := target.(*JobFailureError)
	return ok
}

// UnexpectedSuccessError reports a job that succeeded when a failure
// was expected
type UnexpectedSuccessError struct {
	LogPath string
}

func (e *UnexpectedSuccessError) Error() string {
	return fmt.Sprintf("return_code=0\nSuccess when expecting failure.\nSee %s", e.LogPath)
}

// Is allows errors.Is to match any UnexpectedSuccessError
func (e *UnexpectedSuccessError) Is(target error) bool {
	_, ok := target.(*UnexpectedSuccessError)
	return ok
}

// WrongFailureError reports a job that failed with an error different
// from the expected one
type WrongFailureError struct {
	ReturnCode     int
	ActualLine     string
	ExpectedSubstr string
	LogPath        string
}

func (e *WrongFailureError) Error() string {
	return fmt.Sprintf(
		"return_code=%d\nFailed with error different than expected.\nactual_error=%s\nexpected_error=%s\nSee %s",
		e.ReturnCode, e.ActualLine, e.ExpectedSubstr, e.LogPath)
}

// Is allows errors.Is to match any WrongFailureError
func (e *WrongFailureError) Is(target error) bool {
	_, ok := target.(*WrongFailureError)
	return ok
}
