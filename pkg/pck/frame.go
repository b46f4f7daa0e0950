// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package pck

import "bytes"

// Frame is one complete outbound PCK command, without address header and
// termination. The transport sends it unmodified.
type Frame []byte

// IsDynText returns true if the frame is a dynamic text chunk
func (f Frame) IsDynText() bool {
	return len(f) == DynTextFrameLength && bytes.HasPrefix(f, []byte(prefixDynText))
}

// Header returns the dynamic text header bytes (nil for other frames)
func (f Frame) Header() []byte {
	if !f.IsDynText() {
		return nil
	}
	return f[:DynTextHeaderLength]
}

// Chunk returns the fixed-size chunk buffer of a dynamic text frame,
// including zero fill (nil for other frames)
func (f Frame) Chunk() []byte {
	if !f.IsDynText() {
		return nil
	}
	return f[DynTextHeaderLength:]
}

// TextChunk is one slice of an encoded dynamic text, addressed to a display
// row. Row and Index are 0-based.
type TextChunk struct {
	Row   int
	Index int
	Data  []byte // At most DynTextChunkLength bytes
}

// Frame builds the wire frame for the chunk: header followed by the chunk
// buffer. Bytes after Data stay zero.
func (c TextChunk) Frame() (Frame, error) {
	header, err := DynTextHeader(c.Row, c.Index)
	if err != nil {
		return nil, err
	}
	if len(c.Data) > DynTextChunkLength {
		return nil, ErrOutOfRange
	}

	frame := make(Frame, DynTextFrameLength)
	copy(frame, header)
	copy(frame[DynTextHeaderLength:], c.Data)
	return frame, nil
}
