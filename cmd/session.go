// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Thermoquad/pckctl/pkg/capture"
	"github.com/Thermoquad/pckctl/pkg/lcn"
	"github.com/Thermoquad/pckctl/pkg/pck"
)

// printHandler writes frames in human-readable form instead of sending them
type printHandler struct {
	out    io.Writer
	target string
}

func (p *printHandler) SendPCK(frame pck.Frame) error {
	_, err := fmt.Fprintf(p.out, "%s %s\n", p.target, pck.FormatFrame(frame))
	return err
}

// session bundles the actions for the configured target with everything
// that must be closed afterwards
type session struct {
	actions  *lcn.Actions
	handler  lcn.Handler
	conn     Connection
	connInfo string
	closers  []io.Closer
}

// currentTarget is the module or group selected by settings
func currentTarget() pck.Address {
	return pck.Address{
		Segment: cfg.Module.Segment,
		ID:      cfg.Module.ID,
		Group:   cfg.Module.Group,
	}
}

// openSession connects (unless dry-running) and builds the handler chain:
// module addressing, then optional capture recording.
func openSession(ctx context.Context, out io.Writer) (*session, error) {
	addr := currentTarget()
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	target := pck.AddressHeader(addr, cfg.Module.RequestAck)

	s := &session{}
	var handler lcn.Handler

	if dryRun || !hasConnection(cfg.Connection) {
		handler = &printHandler{out: out, target: target}
		s.connInfo = "dry run"
	} else {
		conn, info, err := OpenConnection(ctx, cfg.Connection)
		if err != nil {
			return nil, err
		}
		s.conn = conn
		s.connInfo = info
		s.closers = append(s.closers, conn)

		module, err := lcn.NewModule(addr, cfg.Module.RequestAck, conn)
		if err != nil {
			s.Close()
			return nil, err
		}
		handler = module
		logger.Info("connected", "link", info, "target", addr.String())
	}

	if recordPath != "" {
		f, err := os.OpenFile(recordPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to open capture file: %w", err)
		}
		s.closers = append(s.closers, f)
		handler = capture.NewRecorder(handler, target, capture.NewWriter(f))
		logger.Debug("recording frames", "path", recordPath)
	}

	s.handler = handler
	s.actions = lcn.NewActions(handler, logger.Logger)
	return s, nil
}

// Close releases the connection and capture file
func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
