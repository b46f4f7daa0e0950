// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package pck encodes commands for LCN bus modules in the PCK line protocol.
//
// PCK is the textual command syntax understood by LCN-PCHK and the LCN bus
// couplers. This package turns symbolic inputs (key tables, key numbers, dimmer
// parameters, display text) into the exact byte sequences a transport writes to
// the bus. Encoding is pure: nothing in this package performs I/O.
package pck

// Key tables and keys
const (
	KeyTableCount   = 4 // Tables A-D
	KeysPerTable    = 8
	OutputCount     = 4
	DisplayRowCount = 4
)

// Dynamic text layout for LCN-GTxD displays.
// A row of text is sent as up to DynTextChunkCount frames, each carrying a
// fixed DynTextHeaderLength header and a zero-filled DynTextChunkLength chunk.
const (
	DynTextChunkCount   = 5
	DynTextHeaderLength = 6
	DynTextChunkLength  = 12
	DynTextFrameLength  = DynTextHeaderLength + DynTextChunkLength
	DynTextMaxBytes     = DynTextChunkCount * DynTextChunkLength
)

// Flicker parameter limits
const (
	FlickerDepthMax = 2 // 0=25% 1=50% 2=100%
	FlickerRampMax  = 2 // 0=2s 1=1s 2=0.5s
	FlickerCountMin = 1
	FlickerCountMax = 15
)

// Addressing limits
const (
	MaxSegmentID = 127
	MaxModuleID  = 255
)

// Termination ends every PCK command on the wire.
const Termination = "\n"

// Command prefixes
const (
	prefixSendKeys = "TS"
	prefixDynText  = "GTDT"
	flickerInfix   = "FI"
)
