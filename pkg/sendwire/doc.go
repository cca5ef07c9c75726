// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sendwire is a memory-efficient, schema-driven binary message
// codec. A human-readable schema text is compiled into a Registry of
// Message definitions; each Message exposes a streaming Writer and a
// streaming Reader that serialize/deserialize a sequence of typed
// fields over a byte stream.
//
// The codec is built for payloads that may contain blobs too large to
// buffer in memory (multi-megabyte files and the like), and for
// producers and consumers that agree on field order and types ahead of
// time via the schema.
//
// # Schema text
//
//	(auth, 1):
//	  - username: str
//	  - password: str
//
//	(upload, 1):
//	  - name: str
//	  - owner: msg(auth, 1)
//	  - body: data
//
// Parse compiles schema text (or a readable source of it) into a
// Registry:
//
//	reg, err := sendwire.Parse(schemaText)
//	msg, err := reg.Lookup("auth", 1)
//
// # Writing
//
//	w := msg.Writer(conn)
//	w.Write("username", sendwire.Str("dcrosta"))
//	w.Write("password", sendwire.Str("abc123"))
//
// # Reading
//
//	r := msg.Reader(conn)
//	username, _ := r.Read("username")
//	password, _ := r.Read("password")
//
// Out of scope: random-access reads into messages, schema evolution
// beyond explicit (name, version) pairs, bidirectional seek on the
// consumer stream, compression, in-memory whole-message
// representations, and thread-safe concurrent writing to the same
// stream. Writers and Readers are single-threaded, strictly
// sequential state machines bound to one stream for their lifetime.
package sendwire
