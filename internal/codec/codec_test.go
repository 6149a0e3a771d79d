// Copyright (c) 2010, Andrei Vieru. All rights reserved.
// Copyright (c) 2021, Pedro F. Albanese. All rights reserved.
// Copyright (c) 2025: Pindorama
//	Luiz Antônio Rangel (takusuman)
// All rights reserved.
// Use of this source code is governed by a ISC license that
// can be found in the LICENSE file.

package codec

import (
	"bytes"
	"strings"
	"testing"
)

// patternPayload builds a compressible byte pattern of length n.
func patternPayload(n int) []byte {
	payload := make([]byte, n)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	return payload
}

func TestFastRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "empty", payload: []byte{}},
		{name: "short text", payload: []byte("hello, gzip")},
		{name: "repetitive", payload: []byte(strings.Repeat("the quick brown fox ", 50))},
		{name: "pattern", payload: patternPayload(30000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream, err := Fast{Level: 9}.Encode(tt.payload)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := Decode(stream)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Fatalf("round trip changed payload: got %d bytes, want %d", len(got), len(tt.payload))
			}
		})
	}
}

func TestFastLevels(t *testing.T) {
	payload := patternPayload(4096)
	for level := 0; level <= 9; level++ {
		stream, err := Fast{Level: level}.Encode(payload)
		if err != nil {
			t.Fatalf("level %d: encode: %v", level, err)
		}
		got, err := Decode(stream)
		if err != nil {
			t.Fatalf("level %d: decode: %v", level, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("level %d: round trip changed payload", level)
		}
	}
}

func TestFastInvalidLevel(t *testing.T) {
	if _, err := (Fast{Level: 42}).Encode([]byte("x")); err == nil {
		t.Fatal("expected error for out-of-range level")
	}
}

func TestZopfliRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "short text", payload: []byte("hello, zopfli")},
		{name: "repetitive", payload: []byte(strings.Repeat("the quick brown fox ", 50))},
		{name: "pattern", payload: patternPayload(25000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream, err := Zopfli{Iterations: 3}.Encode(tt.payload)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := Decode(stream)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Fatalf("round trip changed payload: got %d bytes, want %d", len(got), len(tt.payload))
			}
		})
	}
}

func TestZopfliSmallerThanStore(t *testing.T) {
	payload := []byte(strings.Repeat("abcdefgh", 512))

	stored, err := Fast{Level: 0}.Encode(payload)
	if err != nil {
		t.Fatalf("store encode: %v", err)
	}
	packed, err := Zopfli{Iterations: 1}.Encode(payload)
	if err != nil {
		t.Fatalf("zopfli encode: %v", err)
	}
	if len(packed) >= len(stored) {
		t.Fatalf("zopfli stream %d bytes, want smaller than stored %d", len(packed), len(stored))
	}
}

func TestDecodeMultistream(t *testing.T) {
	first, err := Fast{Level: 9}.Encode([]byte("first member, "))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, err := Fast{Level: 9}.Encode([]byte("second member"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := Decode(append(first, second...))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if want := "first member, second member"; string(got) != want {
		t.Fatalf("payload=%q, want %q", got, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	valid, err := Fast{Level: 9}.Encode([]byte(strings.Repeat("save data ", 100)))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	corrupted := bytes.Clone(valid)
	corrupted[len(corrupted)-8] ^= 0xff // CRC field

	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "empty", raw: []byte{}},
		{name: "not gzip", raw: []byte("level.dat is not compressed")},
		{name: "magic only", raw: []byte{0x1f, 0x8b}},
		{name: "truncated", raw: valid[:len(valid)-5]},
		{name: "bad checksum", raw: corrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.raw); err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
}

// TestDecodeRepeated exercises the pooled reader across payloads of
// different sizes.
func TestDecodeRepeated(t *testing.T) {
	for i := 0; i < 20; i++ {
		payload := patternPayload(100 * (i + 1))
		stream, err := Fast{Level: 6}.Encode(payload)
		if err != nil {
			t.Fatalf("round %d: encode: %v", i, err)
		}
		got, err := Decode(stream)
		if err != nil {
			t.Fatalf("round %d: decode: %v", i, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("round %d: payload mismatch", i)
		}
	}
}

func TestEncoderStrings(t *testing.T) {
	if got, want := (Fast{Level: 9}).String(), "gzip level 9"; got != want {
		t.Errorf("Fast.String()=%q, want %q", got, want)
	}
	if got, want := (Zopfli{Iterations: 100}).String(), "zopfli 100 iterations"; got != want {
		t.Errorf("Zopfli.String()=%q, want %q", got, want)
	}
}

func BenchmarkFastEncode(b *testing.B) {
	payload := patternPayload(20000)
	b.SetBytes(int64(len(payload)))
	for i := 0; i < b.N; i++ {
		if _, err := (Fast{Level: 9}).Encode(payload); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkZopfliEncode(b *testing.B) {
	payload := patternPayload(20000)
	b.SetBytes(int64(len(payload)))
	for i := 0; i < b.N; i++ {
		if _, err := (Zopfli{Iterations: 1}).Encode(payload); err != nil {
			b.Fatal(err)
		}
	}
}
