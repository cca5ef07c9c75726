// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package sendwire

import (
	"io"
)

// BlobView is a length-bounded view over a Reader's underlying stream,
// created when a data field is read. It does not own the stream;
// closing it is not required, but the Reader that created it rejects
// any further field read until the view is fully consumed (by reading
// it to the end or calling Skip).
type BlobView struct {
	source io.Reader
	length uint32
	pos    uint32
}

func newBlobView(source io.Reader, length uint32) *BlobView {
	return &BlobView{source: source, length: length}
}

// BytesRemaining returns length - pos.
func (b *BlobView) BytesRemaining() uint32 {
	return b.length - b.pos
}

// Read reads at most len(p) bytes, bounded by BytesRemaining. It
// returns io.EOF once the blob boundary is reached, satisfying
// io.Reader.
func (b *BlobView) Read(p []byte) (int, error) {
	remaining := b.BytesRemaining()
	if remaining == 0 {
		return 0, io.EOF
	}
	if uint32(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := b.source.Read(p)
	b.pos += uint32(n)
	return n, err
}

// ReadAll reads every remaining byte of the blob.
func (b *BlobView) ReadAll() ([]byte, error) {
	remaining := b.BytesRemaining()
	if remaining == 0 {
		return nil, nil
	}
	out := make([]byte, remaining)
	if _, err := io.ReadFull(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadLine reads up to the next '\n' (inclusive), bounded by size (if
// size > 0) and by BytesRemaining. Past the end of the blob it returns
// an empty slice and no error, mirroring spec.md §4.4.
func (b *BlobView) ReadLine(size int) ([]byte, error) {
	remaining := b.BytesRemaining()
	if remaining == 0 {
		return nil, nil
	}
	limit := remaining
	if size > 0 && uint32(size) < limit {
		limit = uint32(size)
	}

	var line []byte
	var one [1]byte
	for uint32(len(line)) < limit {
		n, err := b.Read(one[:])
		if n == 1 {
			line = append(line, one[0])
			if one[0] == '\n' {
				break
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return line, err
		}
	}
	return line, nil
}

// Skip advances pos to length by consuming (or seeking past) the
// remaining bytes in the upstream stream. After Skip, BytesRemaining
// is 0.
func (b *BlobView) Skip() error {
	remaining := b.BytesRemaining()
	if remaining == 0 {
		return nil
	}
	if seeker, ok := b.source.(io.Seeker); ok {
		if _, err := seeker.Seek(int64(remaining), io.SeekCurrent); err != nil {
			return err
		}
	} else if _, err := io.CopyN(io.Discard, b.source, int64(remaining)); err != nil {
		return err
	}
	b.pos = b.length
	return nil
}
