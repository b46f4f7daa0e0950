// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package capture records sent PCK frames to a file and reads them back.
//
// A capture is a sequence of CBOR maps, one per frame:
//
//	{0: time (unix microseconds), 1: address header, 2: frame bytes}
//
// Frames are stored without termination so a replay can re-send them to the
// same or a different connection.
package capture

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Thermoquad/pckctl/pkg/pck"
	"github.com/fxamacker/cbor/v2"
)

// Record is one captured frame
type Record struct {
	Micros int64  `cbor:"0,keyasint"`
	Target string `cbor:"1,keyasint"`
	Frame  []byte `cbor:"2,keyasint"`
}

// Time returns when the frame was sent
func (r Record) Time() time.Time {
	return time.UnixMicro(r.Micros)
}

// Wire returns the bytes to write when replaying the record
func (r Record) Wire() []byte {
	buf := make([]byte, 0, len(r.Target)+len(r.Frame)+len(pck.Termination))
	buf = append(buf, r.Target...)
	buf = append(buf, r.Frame...)
	buf = append(buf, pck.Termination...)
	return buf
}

// Writer appends records to a capture stream
type Writer struct {
	mu  sync.Mutex
	enc *cbor.Encoder
}

// NewWriter creates a capture writer on w
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: cbor.NewEncoder(w)}
}

// Write appends one record
func (w *Writer) Write(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode capture record: %w", err)
	}
	return nil
}

// Reader iterates over the records of a capture stream
type Reader struct {
	dec *cbor.Decoder
}

// NewReader creates a capture reader on r
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: cbor.NewDecoder(r)}
}

// Next returns the next record, or io.EOF at the end of the stream
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("failed to decode capture record: %w", err)
	}
	return rec, nil
}

// ReadAll returns every record in the stream
func ReadAll(r io.Reader) ([]Record, error) {
	reader := NewReader(r)
	var records []Record
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// Sender is anything that sends frames to a module
type Sender interface {
	SendPCK(frame pck.Frame) error
}

// Recorder sends frames through an optional Sender and records each frame
// that was sent successfully.
type Recorder struct {
	next   Sender
	target string
	w      *Writer
	now    func() time.Time
}

// NewRecorder creates a recorder.
// target is the address header stored with each frame; next may be nil to
// record without sending.
func NewRecorder(next Sender, target string, w *Writer) *Recorder {
	return &Recorder{next: next, target: target, w: w, now: time.Now}
}

// SendPCK sends and records one frame
func (r *Recorder) SendPCK(frame pck.Frame) error {
	if r.next != nil {
		if err := r.next.SendPCK(frame); err != nil {
			return err
		}
	}
	return r.w.Write(Record{
		Micros: r.now().UnixMicro(),
		Target: r.target,
		Frame:  append([]byte(nil), frame...),
	})
}
