// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lcn

import "errors"

// Domain errors for module actions.
var (
	// ErrHandlerUnavailable is returned when no module handler is attached.
	ErrHandlerUnavailable = errors.New("lcn: handler not set")

	// ErrTransport is returned when a frame could not be written to the link.
	ErrTransport = errors.New("lcn: transport error")

	// ErrNoActions is returned by the package-level aliases when called
	// without an actions instance.
	ErrNoActions = errors.New("lcn: actions cannot be nil")
)
