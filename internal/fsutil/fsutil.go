// Copyright (c) 2010, Andrei Vieru. All rights reserved.
// Copyright (c) 2021, Pedro F. Albanese. All rights reserved.
// Copyright (c) 2025: Pindorama
//	Luiz Antônio Rangel (takusuman)
// All rights reserved.
// Use of this source code is governed by a ISC license that
// can be found in the LICENSE file.

// Package fsutil holds the filesystem helpers: crash-safe in-place
// replacement and gzip signature sniffing.
package fsutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// gzipMagic is the two-byte signature that opens every gzip member.
var gzipMagic = []byte{0x1f, 0x8b}

// LooksLikeGzip reports whether the file at path starts with the gzip
// magic bytes. Save files are gzip-wrapped without a .gz suffix, so
// candidates are selected by signature rather than by name.
func LooksLikeGzip(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	var magic [2]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return false
	}
	return bytes.Equal(magic[:], gzipMagic)
}

// WriteFileAtomic replaces the file at path with data. The data is
// written to a temporary file in the same directory and renamed over
// the original only after a successful sync, so a crash mid-write
// leaves the original intact. The replacement keeps the original
// file's permission bits.
func WriteFileAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat original: %w", err)
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "." // keep the temp file on the same filesystem
	}
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename has happened

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename over original: %w", err)
	}
	return nil
}
