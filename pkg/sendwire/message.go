// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package sendwire

import (
	"hash/fnv"
	"io"
	"strconv"
)

// Message is a named, versioned, ordered sequence of Fields. Its
// equality is by (registry identity, name, version); two Messages from
// different registries with the same name/version are never equal.
type Message struct {
	registry *Registry
	name     string
	version  uint32
	fields   []Field
}

// Name returns the message's name.
func (m *Message) Name() string { return m.name }

// Version returns the message's version.
func (m *Message) Version() uint32 { return m.version }

// Fields returns the message's ordered, immutable field list.
func (m *Message) Fields() []Field { return m.fields }

// Registry returns the (non-owning) registry this message belongs to.
func (m *Message) Registry() *Registry { return m.registry }

// Equal reports whether m and other are the same message: same
// registry, name, and version.
func (m *Message) Equal(other *Message) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.registry == other.registry && m.name == other.name && m.version == other.version
}

// Reader returns a Reader bound to this message and stream.
func (m *Message) Reader(stream io.Reader) *Reader {
	return &Reader{message: m, stream: stream, pos: -1}
}

// Writer returns a Writer bound to this message and stream, using the
// default Options (256 KiB data-field chunking).
func (m *Message) Writer(stream io.Writer) *Writer {
	return m.WriterWithOptions(stream)
}

// Hash is a content hash over the message's canonical field listing.
// It exists only to support change detection in pkg/schemacatalog; it
// has no bearing on wire compatibility and is not part of the core
// data model in spec.md.
func (m *Message) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(m.name))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatUint(uint64(m.version), 10)))
	for _, f := range m.fields {
		h.Write([]byte{0})
		h.Write([]byte(f.Name))
		h.Write([]byte{0})
		h.Write([]byte(f.Spec))
	}
	return h.Sum64()
}
