package cluster

import (
	"errors"
	"fmt"
)

// ErrUnsupportedScheduler indicates a scheduler family with no
// command-construction rules
var ErrUnsupportedScheduler = errors.New("unsupported scheduler")

// UnsupportedClusterError indicates a cluster name outside the known set
type UnsupportedClusterError struct {
	Name string
}

func (e *UnsupportedClusterError) Error() string {
	return fmt.Sprintf("Unsupported Cluster: %s", e.Name)
}

// Is allows errors.Is to match any UnsupportedClusterError
func (e *UnsupportedClusterError) Is(target error) bool {
	_, ok := target.(*UnsupportedClusterError)
	return ok
}
