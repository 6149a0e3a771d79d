// Copyright (c) 2010, Andrei Vieru. All rights reserved.
// Copyright (c) 2021, Pedro F. Albanese. All rights reserved.
// Copyright (c) 2025: Pindorama
//	Luiz Antônio Rangel (takusuman)
// All rights reserved.
// Use of this source code is governed by a ISC license that
// can be found in the LICENSE file.

// Package codec wraps the gzip codecs the tool composes: the decoder,
// the fast single-pass encoder and the iterative zopfli encoder. Files
// are read whole into memory, so everything here is []byte in, []byte
// out.
package codec

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/foobaz/go-zopfli/zopfli"
	"github.com/klauspost/compress/gzip"
)

var readers sync.Pool

// Decode scratch space is pooled; a typical batch is many small files.
var buffers = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 64<<10))
	},
}

// maxPooledBuffer keeps the odd huge payload from pinning memory.
const maxPooledBuffer = 8 << 20

func getBuffer() *bytes.Buffer {
	buf := buffers.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	buffers.Put(buf)
}

// Decode inflates a whole gzip stream. The reader runs in multistream
// mode, so concatenated members decode to their concatenated payloads.
// Truncated or corrupt input returns an error and no payload.
func Decode(raw []byte) ([]byte, error) {
	src := bytes.NewReader(raw)
	zr, _ := readers.Get().(*gzip.Reader)
	if zr == nil {
		var err error
		zr, err = gzip.NewReader(src)
		if err != nil {
			return nil, err
		}
	} else if err := zr.Reset(src); err != nil {
		readers.Put(zr)
		return nil, err
	}
	defer readers.Put(zr)

	buf := getBuffer()
	defer putBuffer(buf)
	if _, err := buf.ReadFrom(zr); err != nil {
		zr.Close()
		return nil, err
	}
	if err := zr.Close(); err != nil {
		return nil, err
	}
	payload := make([]byte, buf.Len())
	copy(payload, buf.Bytes())
	return payload, nil
}

// Encoder turns an uncompressed payload into a gzip stream.
type Encoder interface {
	Encode(payload []byte) ([]byte, error)
}

// Fast is the single-pass encoder, quality 0 (store) to 9 (best).
type Fast struct {
	Level int
}

func (e Fast) Encode(payload []byte) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(payload)))
	zw, err := gzip.NewWriterLevel(buf, e.Level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(payload); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e Fast) String() string {
	return fmt.Sprintf("gzip level %d", e.Level)
}

// Zopfli is the iterative encoder. More iterations buy a smaller
// stream at CPU cost; the output is still plain gzip, readable by any
// decoder.
type Zopfli struct {
	Iterations int
}

func (e Zopfli) Encode(payload []byte) ([]byte, error) {
	opts := zopfli.DefaultOptions()
	opts.NumIterations = e.Iterations
	buf := bytes.NewBuffer(make([]byte, 0, len(payload)))
	if err := zopfli.GzipCompress(&opts, payload, buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e Zopfli) String() string {
	return fmt.Sprintf("zopfli %d iterations", e.Iterations)
}
