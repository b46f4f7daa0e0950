// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package pck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// newTestEncoder returns an encoder whose diagnostics are captured in buf as JSON lines
func newTestEncoder(buf *bytes.Buffer) *Encoder {
	return NewEncoder(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestEncodeHitKey(t *testing.T) {
	tests := []struct {
		name   string
		table  string
		key    int
		action string
		want   string
	}{
		{"hit A1", "A", 1, "HIT", "TSK--10000000"},
		{"lowercase table and action", "a", 1, "hit", "TSK--10000000"},
		{"mixed case make B8", "b", 8, "Make", "TS-L-00000001"},
		{"break C4", "C", 4, "break", "TS--O00010000"},
		{"hit D2", "d", 2, "HIT", "TS---K01000000"},
		{"dontsend sets only the key mask", "A", 3, "dontsend", "TS---00100000"},
	}

	e := NewEncoder(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.EncodeHitKey(tt.table, tt.key, tt.action)
			if err != nil {
				t.Fatalf("EncodeHitKey() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("EncodeHitKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeHitKey_SingleSlotAndBit(t *testing.T) {
	e := NewEncoder(nil)
	actions := map[string]byte{"HIT": 'K', "MAKE": 'L', "BREAK": 'O'}

	for ti, table := range []string{"A", "B", "C", "D"} {
		for action, code := range actions {
			for key := 1; key <= KeysPerTable; key++ {
				f, err := e.EncodeHitKey(strings.ToLower(table), key, action)
				if err != nil {
					t.Fatalf("EncodeHitKey(%s, %d, %s) error = %v", table, key, action, err)
				}

				body := f[len(prefixSendKeys):]
				codes := body[:len(body)-KeysPerTable]
				mask := body[len(body)-KeysPerTable:]

				used := 0
				for i, c := range codes {
					if c != '-' {
						used++
						if i != ti || c != code {
							t.Errorf("EncodeHitKey(%s, %d, %s) slot %d = %c", table, key, action, i, c)
						}
					}
				}
				if used != 1 {
					t.Errorf("EncodeHitKey(%s, %d, %s) used %d slots, want 1", table, key, action, used)
				}

				if bytes.Count(mask, []byte{'1'}) != 1 || mask[key-1] != '1' {
					t.Errorf("EncodeHitKey(%s, %d, %s) key mask = %s", table, key, action, mask)
				}
			}
		}
	}
}

func TestEncodeHitKey_Errors(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		key     int
		action  string
		wantErr error
	}{
		{"unknown table", "X", 1, "HIT", ErrInvalidTable},
		{"empty table", "", 1, "HIT", ErrInvalidTable},
		{"unknown action", "A", 1, "PUSH", ErrInvalidAction},
		{"key zero", "A", 0, "HIT", ErrKeyOutOfRange},
		{"key nine", "A", 9, "HIT", ErrKeyOutOfRange},
		{"negative key", "B", -3, "MAKE", ErrKeyOutOfRange},
		{"table checked before action", "X", 1, "PUSH", ErrInvalidTable},
		{"action checked before key", "A", 0, "PUSH", ErrInvalidAction},
	}

	e := NewEncoder(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := e.EncodeHitKey(tt.table, tt.key, tt.action)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("EncodeHitKey() error = %v, want %v", err, tt.wantErr)
			}
			if f != nil {
				t.Errorf("EncodeHitKey() frame = %q, want nil", f)
			}
		})
	}
}

func TestEncodeFlickerOutput(t *testing.T) {
	e := NewEncoder(nil)

	f, err := e.EncodeFlickerOutput(1, 0, 0, 5)
	if err != nil {
		t.Fatalf("EncodeFlickerOutput() error = %v", err)
	}
	if string(f) != "A1FIGL05" {
		t.Errorf("EncodeFlickerOutput() = %q, want %q", f, "A1FIGL05")
	}

	f, err = e.EncodeFlickerOutput(4, 2, 1, 12)
	if err != nil {
		t.Fatalf("EncodeFlickerOutput() error = %v", err)
	}
	if string(f) != "A4FISM12" {
		t.Errorf("EncodeFlickerOutput() = %q, want %q", f, "A4FISM12")
	}

	for _, output := range []int{0, 5} {
		if _, err := e.EncodeFlickerOutput(output, 0, 0, 1); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("EncodeFlickerOutput(%d) error = %v, want ErrOutOfRange", output, err)
		}
	}
}

func TestEncodeDynamicText_Empty(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEncoder(&buf)

	frames, err := e.EncodeDynamicText(1, "")
	if err != nil {
		t.Fatalf("EncodeDynamicText() error = %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("EncodeDynamicText() produced %d frames, want 0", len(frames))
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected diagnostics: %s", buf.String())
	}
}

func TestEncodeDynamicText_Chunking(t *testing.T) {
	tests := []struct {
		name       string
		row        int
		text       string
		wantFrames int
		lastChunk  int
	}{
		{"single byte", 1, "A", 1, 1},
		{"exactly one chunk", 1, strings.Repeat("A", 12), 1, 12},
		{"one byte into second chunk", 1, strings.Repeat("A", 13), 2, 1},
		{"three chunks", 3, strings.Repeat("x", 30), 3, 6},
		{"exactly at capacity", 4, strings.Repeat("B", 60), 5, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := newTestEncoder(&buf)

			frames, err := e.EncodeDynamicText(tt.row, tt.text)
			if err != nil {
				t.Fatalf("EncodeDynamicText() error = %v", err)
			}
			if len(frames) != tt.wantFrames {
				t.Fatalf("EncodeDynamicText() produced %d frames, want %d", len(frames), tt.wantFrames)
			}

			for i, f := range frames {
				if len(f) != DynTextFrameLength {
					t.Errorf("frame %d length = %d, want %d", i, len(f), DynTextFrameLength)
				}
				wantHeader := fmt.Sprintf("GTDT%d%d", tt.row, i+1)
				if string(f.Header()) != wantHeader {
					t.Errorf("frame %d header = %q, want %q", i, f.Header(), wantHeader)
				}
			}

			last := frames[len(frames)-1].Chunk()
			for i, b := range last {
				if i < tt.lastChunk && b == 0 {
					t.Errorf("last chunk byte %d is zero fill, want payload", i)
				}
				if i >= tt.lastChunk && b != 0 {
					t.Errorf("last chunk byte %d = 0x%02X, want zero fill", i, b)
				}
			}

			if buf.Len() != 0 {
				t.Errorf("unexpected diagnostics: %s", buf.String())
			}
		})
	}
}

func TestEncodeDynamicText_Truncated(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEncoder(&buf)

	text := strings.Repeat("A", 72)
	frames, err := e.EncodeDynamicText(2, text)
	if err != nil {
		t.Fatalf("EncodeDynamicText() error = %v", err)
	}
	if len(frames) != DynTextChunkCount {
		t.Fatalf("EncodeDynamicText() produced %d frames, want %d", len(frames), DynTextChunkCount)
	}

	for i, f := range frames {
		row, part, ok := ParseDynTextHeader(f)
		if !ok {
			t.Fatalf("frame %d has no dynamic text header: %q", i, f)
		}
		if row != 1 {
			t.Errorf("frame %d row = %d, want 1", i, row)
		}
		if part != i {
			t.Errorf("frame %d part = %d, want %d", i, part, i)
		}
		if !bytes.Equal(f.Chunk(), bytes.Repeat([]byte("A"), DynTextChunkLength)) {
			t.Errorf("frame %d chunk = %q, want 12 x 'A'", i, f.Chunk())
		}
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse diagnostic: %v (%q)", err, buf.String())
	}
	if entry["level"] != "WARN" {
		t.Errorf("diagnostic level = %v, want WARN", entry["level"])
	}
	if entry["msg"] != "dynamic text truncated" {
		t.Errorf("diagnostic msg = %v, want %q", entry["msg"], "dynamic text truncated")
	}
	if entry["bytes"] != float64(72) {
		t.Errorf("diagnostic bytes = %v, want 72 (uncapped length)", entry["bytes"])
	}
	if entry["text"] != text {
		t.Errorf("diagnostic text = %v, want original text", entry["text"])
	}
}

func TestEncodeDynamicText_RoundTrip(t *testing.T) {
	texts := []string{
		"Hello",
		"Wohnzimmer 21°C",
		"Grüße aus Köln, Straße 12",
		strings.Repeat("0123456789", 5),
	}

	e := NewEncoder(nil)
	for _, text := range texts {
		chunks, err := e.SplitDynamicText(1, text)
		if err != nil {
			t.Fatalf("SplitDynamicText(%q) error = %v", text, err)
		}

		var payload []byte
		for i, c := range chunks {
			if c.Index != i {
				t.Errorf("chunk %d index = %d", i, c.Index)
			}
			if c.Row != 0 {
				t.Errorf("chunk %d row = %d, want 0", i, c.Row)
			}
			payload = append(payload, c.Data...)
		}

		want, err := EncodeText(text)
		if err != nil {
			t.Fatalf("EncodeText(%q) error = %v", text, err)
		}
		if !bytes.Equal(payload, want) {
			t.Errorf("reassembled payload = %X, want %X", payload, want)
		}

		decoded, err := DecodeText(payload)
		if err != nil {
			t.Fatalf("DecodeText() error = %v", err)
		}
		if decoded != text {
			t.Errorf("DecodeText() = %q, want %q", decoded, text)
		}
	}
}

func TestEncodeDynamicText_ChunksDecodeOnTheirOwn(t *testing.T) {
	// Non-ASCII characters on every chunk boundary (offsets 11/12, 23/24, ...)
	text := strings.Repeat("Küchenlichtü", 5)

	chunks, err := NewEncoder(nil).SplitDynamicText(2, text)
	if err != nil {
		t.Fatalf("SplitDynamicText() error = %v", err)
	}
	if len(chunks) != DynTextChunkCount {
		t.Fatalf("SplitDynamicText() produced %d chunks, want %d", len(chunks), DynTextChunkCount)
	}

	var joined strings.Builder
	for i, c := range chunks {
		if c.Data[len(c.Data)-1] != 0xFC {
			t.Errorf("chunk %d ends with %X, want FC", i, c.Data[len(c.Data)-1])
		}
		part, err := DecodeText(c.Data)
		if err != nil {
			t.Fatalf("DecodeText(chunk %d) error = %v", i, err)
		}
		if want := "Küchenlichtü"; part != want {
			t.Errorf("chunk %d = %q, want %q", i, part, want)
		}
		joined.WriteString(part)
	}
	if joined.String() != text {
		t.Errorf("joined chunks = %q, want %q", joined.String(), text)
	}
}

func TestEncodeDynamicText_LatinOneBytes(t *testing.T) {
	frames, err := NewEncoder(nil).EncodeDynamicText(1, "Grüße")
	if err != nil {
		t.Fatalf("EncodeDynamicText() error = %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("EncodeDynamicText() produced %d frames, want 1", len(frames))
	}

	want := []byte{'G', 'r', 0xFC, 0xDF, 'e'}
	if got := frames[0].Chunk()[:len(want)]; !bytes.Equal(got, want) {
		t.Errorf("chunk = %X, want %X", got, want)
	}
}

func TestEncodeDynamicText_Errors(t *testing.T) {
	tests := []struct {
		name    string
		row     int
		text    string
		wantErr error
	}{
		{"row zero", 0, "text", ErrOutOfRange},
		{"row five", 5, "text", ErrOutOfRange},
		{"row checked for empty text", 9, "", ErrOutOfRange},
		{"euro sign", 1, "Price 5€", ErrEncoding},
		{"cjk", 2, "日本", ErrEncoding},
		{"unrepresentable after cap", 1, strings.Repeat("A", 70) + "€", ErrEncoding},
		{"invalid utf-8", 1, "ok\xff", ErrEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames, err := NewEncoder(nil).EncodeDynamicText(tt.row, tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("EncodeDynamicText() error = %v, want %v", err, tt.wantErr)
			}
			if frames != nil {
				t.Errorf("EncodeDynamicText() returned %d frames on error", len(frames))
			}
		})
	}
}

func TestEncoder_ConcurrentUse(t *testing.T) {
	e := NewEncoder(nil)
	var wg sync.WaitGroup

	for row := 1; row <= DisplayRowCount; row++ {
		wg.Add(1)
		go func(row int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				frames, err := e.EncodeDynamicText(row, strings.Repeat("z", 25))
				if err != nil {
					t.Errorf("EncodeDynamicText() error = %v", err)
					return
				}
				for _, f := range frames {
					if r, _, _ := ParseDynTextHeader(f); r != row-1 {
						t.Errorf("frame row = %d, want %d", r, row-1)
						return
					}
				}
			}
		}(row)
	}
	wg.Wait()
}
