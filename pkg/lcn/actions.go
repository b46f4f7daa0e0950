// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package lcn exposes rule actions for LCN modules.
//
// Actions validate and encode their input with package pck, then hand every
// resulting frame, in order, to the module Handler. Nothing is sent when
// validation or encoding fails. Failures are logged at warning level and
// returned so callers that treat actions as fire-and-forget can drop them.
package lcn

import (
	"io"
	"log/slog"
	"sync"

	"github.com/Thermoquad/pckctl/pkg/pck"
)

// ModuleActions is the set of actions that can be requested for a module.
type ModuleActions interface {
	HitKey(table string, key int, action string) error
	FlickerOutput(output, depth, ramp, count int) error
	SendDynamicText(row int, text string) error
}

// Actions implements ModuleActions on top of a Handler.
// It is safe for concurrent use; the handler can be swapped at any time.
type Actions struct {
	mu      sync.RWMutex
	handler Handler
	encoder *pck.Encoder
	logger  *slog.Logger
}

var _ ModuleActions = (*Actions)(nil)

// NewActions creates actions bound to handler (which may be nil until a
// module is attached with SetHandler)
func NewActions(handler Handler, logger *slog.Logger) *Actions {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Actions{
		handler: handler,
		encoder: pck.NewEncoder(logger),
		logger:  logger,
	}
}

// SetHandler attaches or detaches (nil) the module handler
func (a *Actions) SetHandler(h Handler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = h
}

// Handler returns the attached module handler
func (a *Actions) Handler() (Handler, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.handler == nil {
		return nil, ErrHandlerUnavailable
	}
	return a.handler, nil
}

// HitKey sends a "hit key" command for one key of a key table.
// table is A-D, key is 1-8, action is HIT, MAKE or BREAK (any case).
func (a *Actions) HitKey(table string, key int, action string) error {
	frame, err := a.encoder.EncodeHitKey(table, key, action)
	if err != nil {
		return a.fail("hit key", err)
	}
	return a.fail("hit key", a.send(frame))
}

// FlickerOutput lets a dimmer output (1-4) flicker.
// depth: 0=25% 1=50% 2=100%, ramp: 0=2s 1=1s 2=0.5s, count: 1-15 flashes.
func (a *Actions) FlickerOutput(output, depth, ramp, count int) error {
	frame, err := a.encoder.EncodeFlickerOutput(output, depth, ramp, count)
	if err != nil {
		return a.fail("flicker output", err)
	}
	return a.fail("flicker output", a.send(frame))
}

// SendDynamicText shows text in a row (1-4) of an LCN-GTxD display.
// At most 60 bytes of encoded text are sent; an empty text sends nothing.
func (a *Actions) SendDynamicText(row int, text string) error {
	frames, err := a.encoder.EncodeDynamicText(row, text)
	if err != nil {
		return a.fail("dynamic text", err)
	}
	return a.fail("dynamic text", a.send(frames...))
}

// send resolves the handler and sends frames in order, stopping at the first failure
func (a *Actions) send(frames ...pck.Frame) error {
	if len(frames) == 0 {
		return nil
	}

	h, err := a.Handler()
	if err != nil {
		return err
	}

	for _, f := range frames {
		if err := h.SendPCK(f); err != nil {
			return err
		}
	}
	return nil
}

// fail logs a failed action and passes the error through (nil is a no-op)
func (a *Actions) fail(action string, err error) error {
	if err != nil {
		a.logger.Warn("could not execute action", "action", action, "error", err)
	}
	return err
}

// Package-level aliases for callers holding only the interface, such as
// script engines that bind plain functions.

// HitKey calls actions.HitKey
func HitKey(actions ModuleActions, table string, key int, action string) error {
	if actions == nil {
		return ErrNoActions
	}
	return actions.HitKey(table, key, action)
}

// FlickerOutput calls actions.FlickerOutput
func FlickerOutput(actions ModuleActions, output, depth, ramp, count int) error {
	if actions == nil {
		return ErrNoActions
	}
	return actions.FlickerOutput(output, depth, ramp, count)
}

// SendDynamicText calls actions.SendDynamicText
func SendDynamicText(actions ModuleActions, row int, text string) error {
	if actions == nil {
		return ErrNoActions
	}
	return actions.SendDynamicText(row, text)
}
