// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package pck

import (
	"fmt"
	"strings"
)

// KeyTable identifies one of the four key tables of a module.
// The ordinal is the slot index in a send-keys command.
type KeyTable int

// Key table values
const (
	KeyTableA KeyTable = iota
	KeyTableB
	KeyTableC
	KeyTableD
)

var keyTableNames = [KeyTableCount]string{"A", "B", "C", "D"}

// String returns the table letter
func (t KeyTable) String() string {
	if t < KeyTableA || t > KeyTableD {
		return fmt.Sprintf("KeyTable(%d)", int(t))
	}
	return keyTableNames[t]
}

// ParseKeyTable matches a table name case-insensitively.
func ParseKeyTable(name string) (KeyTable, error) {
	upper := strings.ToUpper(name)
	for i, n := range keyTableNames {
		if n == upper {
			return KeyTable(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTable, name)
}

// SendKeyCommand is the action applied to the keys of one table.
type SendKeyCommand int

// Send-key command values. DontSend leaves a table untouched.
const (
	DontSend SendKeyCommand = iota
	Hit
	Make
	Break
)

var sendKeyCommandNames = []string{"DONTSEND", "HIT", "MAKE", "BREAK"}

// String returns the command name as used in rule definitions
func (c SendKeyCommand) String() string {
	if c < DontSend || c > Break {
		return fmt.Sprintf("SendKeyCommand(%d)", int(c))
	}
	return sendKeyCommandNames[c]
}

// ParseSendKeyCommand matches an action name case-insensitively.
// DONTSEND is accepted, which yields a command with no effect on the bus.
func ParseSendKeyCommand(name string) (SendKeyCommand, error) {
	upper := strings.ToUpper(name)
	for i, n := range sendKeyCommandNames {
		if n == upper {
			return SendKeyCommand(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAction, name)
}

// wireCode returns the per-table character of a send-keys command
func (c SendKeyCommand) wireCode() byte {
	switch c {
	case Hit:
		return 'K'
	case Make:
		return 'L'
	case Break:
		return 'O'
	default:
		return '-'
	}
}
