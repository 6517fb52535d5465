package upstream

import "fmt"

// StatusError reports a non-success status from an external dependency.
// Handlers relay the upstream status instead of retrying.
type StatusError struct {
	Service    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}
