package app

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ExitSuccess     = 0
	ExitUserError   = 1
	ExitDrift       = 2
	ExitAuthFailure = 3
	ExitIOFailure   = 4
)

// Fatal provider construction failures. The message text is contract:
// callers and tests match on it, so it keeps the upstream capitalization.
var (
	ErrWorkspacePermission = errors.New("The workspace client does not have permission to access the Databricks workspace")
	ErrInvalidTokenFormat  = errors.New("Invalid authentication token format. Expected Bearer token.")
)

// APIError is a non-2xx response from the workspace REST API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("workspace request failed (%d): %s", e.StatusCode, msg)
}

func IsPermissionDenied(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func WrapExit(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUserError
}
