// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lcn

import (
	"fmt"
	"io"
	"sync"

	"github.com/Thermoquad/pckctl/pkg/pck"
)

// Handler sends complete frames to one module.
type Handler interface {
	SendPCK(frame pck.Frame) error
}

// Module is the handler for one addressed LCN module or group.
// Each frame is wrapped in the address header and the PCK termination and
// written with a single Write call. Writes are serialized so frames keep the
// order in which they were sent.
type Module struct {
	addr     pck.Address
	wantsAck bool
	w        io.Writer
	mu       sync.Mutex
}

// NewModule creates a handler writing frames for addr to w
func NewModule(addr pck.Address, wantsAck bool, w io.Writer) (*Module, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return &Module{addr: addr, wantsAck: wantsAck, w: w}, nil
}

// Address returns the module's bus address
func (m *Module) Address() pck.Address {
	return m.addr
}

// Wrap returns the bytes that go on the wire for a frame
func (m *Module) Wrap(frame pck.Frame) []byte {
	header := pck.AddressHeader(m.addr, m.wantsAck)

	buf := make([]byte, 0, len(header)+len(frame)+len(pck.Termination))
	buf = append(buf, header...)
	buf = append(buf, frame...)
	buf = append(buf, pck.Termination...)
	return buf
}

// SendPCK writes one frame to the connection
func (m *Module) SendPCK(frame pck.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.w.Write(m.Wrap(frame)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTransport, m.addr, err)
	}
	return nil
}
