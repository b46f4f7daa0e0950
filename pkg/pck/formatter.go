// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package pck

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

var flickerPattern = regexp.MustCompile(`^A([1-4])FI([GMS])([LMS])(\d{2})$`)

// FormatFrame formats a frame into a human-readable string
func FormatFrame(f Frame) string {
	return fmt.Sprintf("%s %s", FormatCommandType(f), EscapeBytes(f))
}

// FormatCommandType returns a short description of the command in a frame
func FormatCommandType(f Frame) string {
	if row, part, ok := ParseDynTextHeader(f); ok {
		return fmt.Sprintf("DYN_TEXT(row=%d, part=%d)", row+1, part+1)
	}

	if m := flickerPattern.FindSubmatch(f); m != nil {
		return fmt.Sprintf("FLICKER_OUTPUT(output=%s, depth=%s, ramp=%s, count=%s)", m[1], m[2], m[3], m[4])
	}

	if bytes.HasPrefix(f, []byte(prefixSendKeys)) {
		return formatSendKeys(f[len(prefixSendKeys):])
	}

	return "UNKNOWN"
}

// formatSendKeys describes the table actions and key mask of a "TS" command
func formatSendKeys(body []byte) string {
	if len(body) < KeysPerTable {
		return "SEND_KEYS(malformed)"
	}
	codes := body[:len(body)-KeysPerTable]
	mask := body[len(body)-KeysPerTable:]

	var tables []string
	for i, c := range codes {
		var cmd SendKeyCommand
		switch c {
		case 'K':
			cmd = Hit
		case 'L':
			cmd = Make
		case 'O':
			cmd = Break
		default:
			continue
		}
		tables = append(tables, fmt.Sprintf("%s=%s", KeyTable(i), cmd))
	}

	var keys []string
	for i, k := range mask {
		if k == '1' {
			keys = append(keys, fmt.Sprintf("%d", i+1))
		}
	}

	return fmt.Sprintf("SEND_KEYS(%s keys=%s)", strings.Join(tables, ","), strings.Join(keys, ","))
}

// ParseDynTextHeader reads the 0-based row and chunk index of a dynamic text
// frame. ok is false for other frames.
func ParseDynTextHeader(f Frame) (row, part int, ok bool) {
	if !f.IsDynText() {
		return 0, 0, false
	}
	r := int(f[4]) - '1'
	p := int(f[5]) - '1'
	if r < 0 || r >= DisplayRowCount || p < 0 || p >= DynTextChunkCount {
		return 0, 0, false
	}
	return r, p, true
}

// EscapeBytes renders frame bytes as text, escaping non-printable bytes as \xNN
func EscapeBytes(data []byte) string {
	var b strings.Builder
	for _, c := range data {
		if c >= 0x20 && c < 0x7F && c != '\\' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "\\x%02X", c)
		}
	}
	return b.String()
}
