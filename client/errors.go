// Copyright (c) 2023 BVK Chaitanya

package client

import (
	"errors"
	"fmt"
)

var (
	// ErrStatus matches every *HTTPError.
	ErrStatus = errors.New("unexpected http status")

	// ErrMalformed matches every *DecodeError.
	ErrMalformed = errors.New("malformed response")
)

// HTTPError is returned when the backend responds with a non-2xx status.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: http status code %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrStatus
}

// DecodeError is returned when a response body could not be decoded or
// failed validation.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode response from %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrMalformed
}
