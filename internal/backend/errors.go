// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. An *APIError matches these through errors.Is by status.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrUnavailable     = errors.New("backend unavailable")
)

// APIError is a request the backend answered but rejected: a non-2xx status
// or a body with success=false.
type APIError struct {
	Status   int
	Message  string
	Endpoint string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %s: %d %s", e.Endpoint, e.Status, e.Message)
}

// Is maps well-known statuses onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnavailable:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// IsClientError reports whether the backend blamed the request (4xx, or a
// 2xx body with success=false). Such errors are not backend failures and do
// not count against the circuit breaker.
func (e *APIError) IsClientError() bool {
	return e.Status < http.StatusInternalServerError
}

// UserMessage returns the message to show an end user for err: the backend's
// own message when it gave one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
