// Copyright (c) 2010, Andrei Vieru. All rights reserved.
// Copyright (c) 2021, Pedro F. Albanese. All rights reserved.
// Copyright (c) 2025: Pindorama
//	Luiz Antônio Rangel (takusuman)
// All rights reserved.
// Use of this source code is governed by a ISC license that
// can be found in the LICENSE file.

// Package report formats per-file outcomes on standard output, failures
// on standard error, and the end-of-run totals.
package report

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rhysdh540/nbt-compress/internal/optimize"
)

// Reporter prints outcomes as files complete and accumulates the
// totals. Methods are safe for concurrent use; the worker pool calls
// them from several goroutines.
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	errw    io.Writer
	verbose bool

	totalSaved int
	totalTime  time.Duration
	failures   int
}

func New(out, errw io.Writer, verbose bool) *Reporter {
	return &Reporter{out: out, errw: errw, verbose: verbose}
}

// File reports one finished file and folds it into the totals.
func (r *Reporter) File(res optimize.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.totalSaved += res.Saved
	r.totalTime += res.Elapsed

	if res.Saved > 0 {
		fmt.Fprintf(r.out, "File %s compressed. Saved space: %d bytes. \nCompression time: %v\n",
			res.Path, res.Saved, res.Elapsed)
	} else {
		fmt.Fprintf(r.out, "File %s not compressed. No space saved. \nCompression time: %v\n",
			res.Path, res.Elapsed)
	}

	if r.verbose {
		var ratio float64
		if res.OptimizedSize > 0 {
			ratio = float64(res.PayloadSize) / float64(res.OptimizedSize)
		}
		fmt.Fprintf(r.errw, "%s: %6.3f:1, %6.3f bits/byte, %5.2f%% saved, %d in, %d out, %s.\n",
			res.Path,
			ratio,
			(8 / ratio),
			(100 * (1 - (1 / ratio))),
			res.PayloadSize,
			res.OptimizedSize,
			res.Encoder)
	}
}

// Failure reports a per-file error on standard error. The wording
// follows the pipeline step that failed; failed files contribute
// nothing to the totals.
func (r *Reporter) Failure(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failures++
	var ferr *optimize.FileError
	if !errors.As(err, &ferr) {
		fmt.Fprintln(r.errw, err)
		return
	}
	switch ferr.Op {
	case optimize.OpRead:
		fmt.Fprintf(r.errw, "Error reading from %s: %v\n", ferr.Path, ferr.Err)
	case optimize.OpDecode:
		fmt.Fprintf(r.errw, "Error compressing %s: %v\n", ferr.Path, ferr.Err)
	case optimize.OpWrite:
		fmt.Fprintf(r.errw, "Error writing to %s: %v\n", ferr.Path, ferr.Err)
	default:
		fmt.Fprintln(r.errw, ferr)
	}
}

// OK reports a file that passed the integrity test.
func (r *Reporter) OK(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s: OK\n", path)
}

// Summary prints the accumulated totals. The caller decides whether a
// run warrants one.
func (r *Reporter) Summary() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "Total saved space: %d bytes.\nTotal compression time: %v\n",
		r.totalSaved, r.totalTime)
}

// Failures returns how many per-file errors were reported.
func (r *Reporter) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}
