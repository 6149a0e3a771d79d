// Copyright (c) 2010, Andrei Vieru. All rights reserved.
// Copyright (c) 2021, Pedro F. Albanese. All rights reserved.
// Copyright (c) 2025: Pindorama
//	Luiz Antônio Rangel (takusuman)
// All rights reserved.
// Use of this source code is governed by a ISC license that
// can be found in the LICENSE file.

// Package optimize implements the per-file recompression pipeline:
// gzip decode, re-encode at higher effort, keep the result only when
// it is strictly smaller than the original stream.
package optimize

import (
	"fmt"
	"os"
	"time"

	"github.com/rhysdh540/nbt-compress/internal/codec"
	"github.com/rhysdh540/nbt-compress/internal/fsutil"
)

// Effort policy when no override is given. Large payloads get fewer
// zopfli passes, small ones can afford more.
const (
	largePayload    = 20000
	largeIterations = 100
	smallIterations = 500
)

// Options selects the encoder for a run. The zero value means the
// fast encoder at level 0; the command defaults Level to 9.
type Options struct {
	// Iterations forces the zopfli effort. nil derives it from the
	// payload size.
	Iterations *int

	// Zopfli selects the iterative encoder instead of the fast one.
	Zopfli bool

	// Level is the fast encoder quality, 0 through 9.
	Level int

	// Encoder, when non-nil, bypasses the selection above. Tests use
	// this to inject failing or deterministic encoders.
	Encoder codec.Encoder
}

// Result records what happened to one file.
type Result struct {
	Path          string
	OriginalSize  int
	PayloadSize   int
	OptimizedSize int
	Saved         int
	Written       bool
	Elapsed       time.Duration
	Encoder       string
}

// IterationsFor resolves the zopfli effort for a payload of the given
// size. An explicit override wins regardless of size.
func IterationsFor(payloadSize int, override *int) int {
	if override != nil {
		return *override
	}
	if payloadSize > largePayload {
		return largeIterations
	}
	return smallIterations
}

func (o Options) encoderFor(payloadSize int) codec.Encoder {
	if o.Encoder != nil {
		return o.Encoder
	}
	if o.Zopfli {
		return codec.Zopfli{Iterations: IterationsFor(payloadSize, o.Iterations)}
	}
	return codec.Fast{Level: o.Level}
}

// Bytes runs the pipeline on an in-memory gzip stream and returns the
// bytes that belong on disk: the re-encoded stream when strictly
// smaller, otherwise raw itself. An encoder fault falls back to raw;
// only a decode failure is an error. Elapsed covers decode through
// the size decision.
func Bytes(raw []byte, opts Options) ([]byte, Result, error) {
	res := Result{OriginalSize: len(raw)}

	start := time.Now()
	payload, err := codec.Decode(raw)
	if err != nil {
		res.Elapsed = time.Since(start)
		return nil, res, err
	}
	res.PayloadSize = len(payload)

	enc := opts.encoderFor(len(payload))
	res.Encoder = fmt.Sprint(enc)

	out, err := enc.Encode(payload)
	if err != nil {
		out = raw // an encoder fault never degrades the file
	}
	res.OptimizedSize = len(out)
	if len(out) < len(raw) {
		res.Saved = len(raw) - len(out)
	} else {
		out = raw
	}
	res.Elapsed = time.Since(start)
	return out, res, nil
}

// File recompresses the file at path in place. The file is replaced,
// atomically, only when the new stream is strictly smaller. Any
// failure is returned as a *FileError and leaves the original file
// intact.
func File(path string, opts Options) (Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path}, &FileError{Op: OpRead, Path: path, Err: err}
	}

	out, res, err := Bytes(raw, opts)
	res.Path = path
	if err != nil {
		return res, &FileError{Op: OpDecode, Path: path, Err: err}
	}
	if res.Saved == 0 {
		return res, nil
	}
	if err := fsutil.WriteFileAtomic(path, out); err != nil {
		return res, &FileError{Op: OpWrite, Path: path, Err: err}
	}
	res.Written = true
	return res, nil
}

// Verify decodes the file and discards the payload. Nothing is
// written; a nil return means the stream is intact.
func Verify(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &FileError{Op: OpRead, Path: path, Err: err}
	}
	if _, err := codec.Decode(raw); err != nil {
		return &FileError{Op: OpDecode, Path: path, Err: err}
	}
	return nil
}
