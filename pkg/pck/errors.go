// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package pck

import "errors"

// Domain errors for PCK command encoding.
var (
	// ErrInvalidTable is returned when a key table name is not one of A-D.
	ErrInvalidTable = errors.New("pck: unknown key table")

	// ErrInvalidAction is returned when a send-key action name is unknown.
	ErrInvalidAction = errors.New("pck: unknown action")

	// ErrKeyOutOfRange is returned when a key number is outside 1-8.
	ErrKeyOutOfRange = errors.New("pck: key number out of range")

	// ErrEncoding is returned when text cannot be represented in the bus charset.
	ErrEncoding = errors.New("pck: text encoding failed")

	// ErrOutOfRange is returned when a builder receives a value the wire
	// format cannot carry.
	ErrOutOfRange = errors.New("pck: parameter out of range")
)
