package pipeline_type

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is against the typed errors below.
var (
	ErrRequestFailed       = errors.New("request failed")
	ErrMissingPrerequisite = errors.New("missing prerequisite")
	ErrCallbackFault       = errors.New("callback fault")
)

// RequestFailedError reports a transport failure or a non-2xx response.
// StatusCode is zero when no response was received.
type RequestFailedError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *RequestFailedError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: request failed with status %d", e.Method, e.Path, e.StatusCode)
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}

func RequestFailed(method, path string, statusCode int, body []byte, err error) error {
	return &RequestFailedError{Method: method, Path: path, StatusCode: statusCode, Body: body, Err: err}
}

// MissingPrerequisiteError reports a context key a step needed but did not find.
type MissingPrerequisiteError struct {
	Key    string
	Step   string
	Reason string
}

func (e *MissingPrerequisiteError) Error() string {
	msg := fmt.Sprintf("missing prerequisite %q", e.Key)
	if e.Step != "" {
		msg = fmt.Sprintf("%s: %s", e.Step, msg)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *MissingPrerequisiteError) Is(target error) bool {
	return target == ErrMissingPrerequisite
}

func MissingPrerequisite(key, step, reason string) error {
	return &MissingPrerequisiteError{Key: key, Step: step, Reason: reason}
}

// CallbackFaultError wraps an error returned, or a panic raised, by a
// completion hook. It never fails the request that triggered the hook.
type CallbackFaultError struct {
	Method string
	Path   string
	Err    error
}

func (e *CallbackFaultError) Error() string {
	return fmt.Sprintf("%s %s: callback fault: %v", e.Method, e.Path, e.Err)
}

func (e *CallbackFaultError) Unwrap() error {
	return e.Err
}

func (e *CallbackFaultError) Is(target error) bool {
	return target == ErrCallbackFault
}

func CallbackFault(method, path string, err error) error {
	return &CallbackFaultError{Method: method, Path: path, Err: err}
}
