// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package pck

import (
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/text/encoding/charmap"
)

// Charset is the character encoding of text on the bus. Every character is
// one byte, so cutting at any byte offset never splits a character.
var Charset = charmap.ISO8859_1

// Encoder turns validated user input into PCK frames.
// It holds no state between calls and is safe for concurrent use.
type Encoder struct {
	logger *slog.Logger
}

// NewEncoder creates a new PCK encoder.
// Diagnostics (such as truncated text) go to logger; nil discards them.
func NewEncoder(logger *slog.Logger) *Encoder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Encoder{logger: logger}
}

// EncodeHitKey builds a send-keys frame for a single key.
// table (A-D) and action (HIT, MAKE, BREAK, DONTSEND) match case-insensitively;
// key is 1-based (1-8). Validation happens in that order and nothing is built
// when any check fails.
func (e *Encoder) EncodeHitKey(table string, key int, action string) (Frame, error) {
	keyTable, err := ParseKeyTable(table)
	if err != nil {
		return nil, err
	}

	command, err := ParseSendKeyCommand(action)
	if err != nil {
		return nil, err
	}

	if !GroupKeyLockTableA.IsValidID(key - 1) {
		return nil, fmt.Errorf("%w: %d", ErrKeyOutOfRange, key)
	}

	var cmds [KeyTableCount]SendKeyCommand // all DontSend
	cmds[keyTable] = command

	var keys [KeysPerTable]bool
	keys[key-1] = true

	line, err := SendKeys(cmds, keys)
	if err != nil {
		return nil, err
	}
	return Frame(line), nil
}

// EncodeFlickerOutput builds a flicker frame. output is 1-based (1-4); depth,
// ramp and count are passed to FlickerOutput, which enforces their ranges.
func (e *Encoder) EncodeFlickerOutput(output, depth, ramp, count int) (Frame, error) {
	line, err := FlickerOutput(output-1, depth, ramp, count)
	if err != nil {
		return nil, err
	}
	return Frame(line), nil
}

// SplitDynamicText encodes text for display row (1-4) and splits it into
// chunks of at most DynTextChunkLength bytes.
//
// Text longer than DynTextMaxBytes after encoding is cut at that byte count
// and a warning reporting the full encoded length is logged. An empty text
// yields no chunks.
func (e *Encoder) SplitDynamicText(row int, text string) ([]TextChunk, error) {
	if row < 1 || row > DisplayRowCount {
		return nil, fmt.Errorf("%w: row %d", ErrOutOfRange, row)
	}

	data, err := EncodeText(text)
	if err != nil {
		return nil, err
	}

	if len(data) > DynTextMaxBytes {
		e.logger.Warn("dynamic text truncated", "bytes", len(data), "text", text)
		data = data[:DynTextMaxBytes]
	}

	chunks := make([]TextChunk, 0, (len(data)+DynTextChunkLength-1)/DynTextChunkLength)
	for part := 0; len(data) > 0; part++ {
		n := min(len(data), DynTextChunkLength)
		chunks = append(chunks, TextChunk{
			Row:   row - 1,
			Index: part,
			Data:  data[:n],
		})
		data = data[n:]
	}

	return chunks, nil
}

// EncodeDynamicText builds the frames that show text in display row (1-4)
// of an LCN-GTxD. Frames must be sent in the returned order.
func (e *Encoder) EncodeDynamicText(row int, text string) ([]Frame, error) {
	chunks, err := e.SplitDynamicText(row, text)
	if err != nil {
		return nil, err
	}

	frames := make([]Frame, 0, len(chunks))
	for _, c := range chunks {
		f, err := c.Frame()
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// EncodeText converts text to bus bytes using Charset.
func EncodeText(text string) ([]byte, error) {
	data, err := Charset.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return data, nil
}

// DecodeText converts bus bytes back to a string using Charset.
func DecodeText(data []byte) (string, error) {
	s, err := Charset.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return string(s), nil
}
