package lessonapi

import (
	"encoding/json"
	"fmt"
	"time"
)

// TransportError indicates the request never produced a usable response:
// the connection failed or the server answered with a non-2xx status.
type TransportError struct {
	StatusCode int // 0 when no response was received
	Status     string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("server responded %s", e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return "request failed"
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError indicates a 2xx response whose body is not a recognized
// response shape.
type ProtocolError struct {
	Body json.RawMessage
	Err  error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected response: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// GradingError carries an error message reported by the grading endpoint.
// The message is shown to the learner verbatim.
type GradingError struct {
	Message string
}

func (e *GradingError) Error() string {
	return e.Message
}

// TimeoutError indicates the server did not answer within the request
// timeout.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no response after %s", e.After)
}
