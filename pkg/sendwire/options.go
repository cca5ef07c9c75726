// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package sendwire

// Options holds the small set of tunables a Writer accepts beyond the
// message and stream it is bound to. The zero value is the default
// configuration used by Message.Writer.
type Options struct {
	// ChunkSize is the buffer size used to stream a data field's
	// payload without holding the whole blob in memory. Defaults to
	// 256 KiB (chunkSize) when zero or negative.
	ChunkSize int
}

// Option configures a Writer constructed via Message.WriterWithOptions.
type Option func(*Options)

// WithChunkSize overrides the default 256 KiB chunk size used when
// streaming data fields.
func WithChunkSize(n int) Option {
	return func(o *Options) { o.ChunkSize = n }
}

func (o Options) chunkSize() int {
	if o.ChunkSize <= 0 {
		return chunkSize
	}
	return o.ChunkSize
}
