package classify

import "fmt"

// ValidationError rejects a submission before any request is sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransportError covers non-2xx responses, network failures, and undecodable bodies.
// Status is zero when no response was received.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "Upload failed"
	}
	return fmt.Sprintf("Upload failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
