// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package pck

import (
	"fmt"
	"strings"
)

// Generator functions build the textual PCK command for one bus operation.
// They enforce the value ranges the wire format can carry; input parsing and
// user-facing numbering belong to the encoder functions in encoder.go.

// Address identifies a module or group on the bus.
// Segment 0 addresses the local segment.
type Address struct {
	Segment int
	ID      int
	Group   bool
}

// Validate checks that the address fits the PCK address header
func (a Address) Validate() error {
	if a.Segment < 0 || a.Segment > MaxSegmentID {
		return fmt.Errorf("%w: segment %d (max %d)", ErrOutOfRange, a.Segment, MaxSegmentID)
	}
	if a.ID < 0 || a.ID > MaxModuleID {
		return fmt.Errorf("%w: module id %d (max %d)", ErrOutOfRange, a.ID, MaxModuleID)
	}
	return nil
}

// String returns the address in "S000M005" style
func (a Address) String() string {
	kind := "M"
	if a.Group {
		kind = "G"
	}
	return fmt.Sprintf("S%03d%s%03d", a.Segment, kind, a.ID)
}

// AddressHeader builds the prefix that routes a command to a module or group.
// Format: ">" + M|G + segment(3) + id(3) + "!" (acknowledge) or "." (no ack).
func AddressHeader(addr Address, wantsAck bool) string {
	kind := "M"
	if addr.Group {
		kind = "G"
	}
	ack := "."
	if wantsAck {
		ack = "!"
	}
	return fmt.Sprintf(">%s%03d%03d%s", kind, addr.Segment, addr.ID, ack)
}

// SendKeys builds a send-keys command ("TS").
// Table D is left out when unused so modules with only three tables accept
// the command. Example: hit key A1 is "TSK--10000000".
func SendKeys(cmds [KeyTableCount]SendKeyCommand, keys [KeysPerTable]bool) (string, error) {
	var b strings.Builder
	b.WriteString(prefixSendKeys)

	for i, c := range cmds {
		if c < DontSend || c > Break {
			return "", fmt.Errorf("%w: send-key command %d for table %s", ErrOutOfRange, int(c), KeyTable(i))
		}
		if KeyTable(i) == KeyTableD && c == DontSend {
			continue
		}
		b.WriteByte(c.wireCode())
	}

	for _, k := range keys {
		if k {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}

	return b.String(), nil
}

// FlickerOutput builds a flicker command for a dimmer output.
// outputID is 0-based (0-3). depth: 0=25% 1=50% 2=100%. ramp: 0=2s 1=1s
// 2=0.5s. count is the number of flashes (1-15). Example: "A1FIGL05".
func FlickerOutput(outputID, depth, ramp, count int) (string, error) {
	if outputID < 0 || outputID >= OutputCount {
		return "", fmt.Errorf("%w: output %d", ErrOutOfRange, outputID+1)
	}
	if depth < 0 || depth > FlickerDepthMax {
		return "", fmt.Errorf("%w: flicker depth %d", ErrOutOfRange, depth)
	}
	if ramp < 0 || ramp > FlickerRampMax {
		return "", fmt.Errorf("%w: flicker ramp %d", ErrOutOfRange, ramp)
	}
	if count < FlickerCountMin || count > FlickerCountMax {
		return "", fmt.Errorf("%w: flicker count %d", ErrOutOfRange, count)
	}

	depthCodes := [...]byte{'G', 'M', 'S'}
	rampCodes := [...]byte{'L', 'M', 'S'}

	return fmt.Sprintf("A%d%s%c%c%02d", outputID+1, flickerInfix, depthCodes[depth], rampCodes[ramp], count), nil
}

// DynTextHeader builds the header of one dynamic text chunk.
// row (0-3) and part (0-4) are 0-based; the header carries them 1-based,
// e.g. row 0 part 0 is "GTDT11".
func DynTextHeader(row, part int) (string, error) {
	if row < 0 || row >= DisplayRowCount {
		return "", fmt.Errorf("%w: row %d", ErrOutOfRange, row+1)
	}
	if part < 0 || part >= DynTextChunkCount {
		return "", fmt.Errorf("%w: text part %d", ErrOutOfRange, part+1)
	}
	return fmt.Sprintf("%s%d%d", prefixDynText, row+1, part+1), nil
}
