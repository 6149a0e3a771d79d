// Copyright (c) 2010, Andrei Vieru. All rights reserved.
// Copyright (c) 2021, Pedro F. Albanese. All rights reserved.
// Copyright (c) 2025: Pindorama
//	Luiz Antônio Rangel (takusuman)
// All rights reserved.
// Use of this source code is governed by a ISC license that
// can be found in the LICENSE file.

package optimize

import "fmt"

// Op classifies the pipeline step a per-file failure happened in. The
// reporter keys its messages off this.
type Op int

const (
	OpRead Op = iota + 1
	OpDecode
	OpWrite
)

func (op Op) String() string {
	switch op {
	case OpRead:
		return "read"
	case OpDecode:
		return "decode"
	case OpWrite:
		return "write"
	default:
		return "unknown"
	}
}

// FileError is a failure confined to a single file. It never aborts
// the batch; the reporter prints it and the run moves on.
type FileError struct {
	Op   Op
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }
