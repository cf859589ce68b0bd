package ola

import "fmt"

// StatusError is returned by read operations when the server answers with a
// non-2xx status and a body that is not the expected JSON.
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
	Err        error // decode error
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("ola %s returned status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("ola %s returned status %d: %s", e.Path, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}
