package worldtides

import (
	"errors"
	"fmt"
)

// ErrEmptyResult is returned when the provider answers without any heights.
var ErrEmptyResult = errors.New("worldtides returned no heights")

// FetchError represents a transport failure or an unexpected HTTP status
type FetchError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("WorldTides fetch error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("WorldTides fetch error: %s (status %d)", e.Message, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new fetch error
func NewFetchError(statusCode int, message string, err error) *FetchError {
	return &FetchError{
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// DecodeError is returned for malformed payloads and for errors reported in the payload itself
type DecodeError struct {
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("WorldTides decode error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("WorldTides decode error: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func NewDecodeError(message string, err error) *DecodeError {
	return &DecodeError{
		Message: message,
		Err:     err,
	}
}
