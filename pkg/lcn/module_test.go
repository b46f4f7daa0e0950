// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lcn

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/Thermoquad/pckctl/pkg/pck"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, io.ErrClosedPipe
}

// countingWriter records each Write call separately
type countingWriter struct {
	mu     sync.Mutex
	writes [][]byte
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = append(w.writes, append([]byte(nil), p...))
	return len(p), nil
}

func TestModule_SendPCK(t *testing.T) {
	var buf bytes.Buffer
	m, err := NewModule(pck.Address{Segment: 0, ID: 22}, false, &buf)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if err := m.SendPCK(pck.Frame("TSK--10000000")); err != nil {
		t.Fatalf("SendPCK() error = %v", err)
	}

	want := ">M000022.TSK--10000000\n"
	if buf.String() != want {
		t.Errorf("wire = %q, want %q", buf.String(), want)
	}
}

func TestModule_SendPCK_DynTextKeepsZeroFill(t *testing.T) {
	w := &countingWriter{}
	m, err := NewModule(pck.Address{Segment: 3, ID: 7, Group: true}, true, w)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	frame, err := pck.TextChunk{Row: 0, Index: 0, Data: []byte("Hi")}.Frame()
	if err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	if err := m.SendPCK(frame); err != nil {
		t.Fatalf("SendPCK() error = %v", err)
	}

	if len(w.writes) != 1 {
		t.Fatalf("got %d writes, want 1", len(w.writes))
	}
	want := append([]byte(">G003007!GTDT11Hi"), make([]byte, 10)...)
	want = append(want, '\n')
	if !bytes.Equal(w.writes[0], want) {
		t.Errorf("wire = %q, want %q", w.writes[0], want)
	}
}

func TestModule_SendPCK_WriteError(t *testing.T) {
	m, err := NewModule(pck.Address{ID: 5}, false, failingWriter{})
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	err = m.SendPCK(pck.Frame("A1FIGL05"))
	if !errors.Is(err, ErrTransport) {
		t.Errorf("SendPCK() error = %v, want ErrTransport", err)
	}
}

func TestNewModule_InvalidAddress(t *testing.T) {
	if _, err := NewModule(pck.Address{Segment: 200, ID: 5}, false, io.Discard); !errors.Is(err, pck.ErrOutOfRange) {
		t.Errorf("NewModule() error = %v, want ErrOutOfRange", err)
	}
}

func TestModule_WithActions(t *testing.T) {
	w := &countingWriter{}
	m, err := NewModule(pck.Address{ID: 10}, false, w)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	a := NewActions(m, nil)
	if err := a.SendDynamicText(2, "Temperature 21.5"); err != nil {
		t.Fatalf("SendDynamicText() error = %v", err)
	}

	if len(w.writes) != 2 {
		t.Fatalf("got %d writes, want 2", len(w.writes))
	}
	prefixes := []string{">M000010.GTDT21", ">M000010.GTDT22"}
	for i, p := range prefixes {
		if !bytes.HasPrefix(w.writes[i], []byte(p)) {
			t.Errorf("write %d = %q, want prefix %q", i, w.writes[i], p)
		}
		if n := len(w.writes[i]); n != len(">M000010.")+pck.DynTextFrameLength+1 {
			t.Errorf("write %d length = %d", i, n)
		}
	}
}
