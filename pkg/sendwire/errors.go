// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package sendwire

import "errors"

// Sentinel errors naming the kinds from the error taxonomy. Call sites
// wrap these with fmt.Errorf("%w: ...", ErrX) so callers can test with
// errors.Is while still getting a useful message.
var (
	// ErrParse covers any schema-parse violation: duplicate message,
	// duplicate field, unknown primitive keyword, unresolved msg(...)
	// reference, or a field definition outside of a message.
	ErrParse = errors.New("[sendwire]> schema parse error")

	// ErrNotFound is returned by Registry.Lookup for an unknown
	// (name, version) pair.
	ErrNotFound = errors.New("[sendwire]> message not found in registry")

	// ErrWrongField is returned when the requested field name does not
	// match the expected schema position (reader), or cannot be
	// reached by skipping through nil-capable fields (writer).
	ErrWrongField = errors.New("[sendwire]> wrong field")

	// ErrWrongType is returned when the value (writer) or the on-wire
	// tag (reader) is not among the field's alternatives.
	ErrWrongType = errors.New("[sendwire]> wrong type")

	// ErrWrongMessage is returned when the header (name, version) read
	// off the stream does not match what the Reader expects.
	ErrWrongMessage = errors.New("[sendwire]> wrong message")

	// ErrBadPrefix is returned when a tag byte does not map to any
	// known kind.
	ErrBadPrefix = errors.New("[sendwire]> bad tag prefix")

	// ErrBadHeader is returned when the M/S/I header bytes are not
	// present in their expected positions, and also when any I-tagged
	// length, count or version is missing its 'I' tag.
	ErrBadHeader = errors.New("[sendwire]> bad message header")

	// ErrPastEnd is returned when a Writer is asked to write, or a
	// Reader to read, beyond the schema's field count.
	ErrPastEnd = errors.New("[sendwire]> past end of message")

	// ErrDataTooLarge is returned when a data source's length exceeds
	// the uint32 range the wire format allows.
	ErrDataTooLarge = errors.New("[sendwire]> data length exceeds uint32 range")

	// ErrListTypeMismatch is returned for a heterogeneous list, or a
	// list whose element kind is not among the field's many(...)
	// alternatives.
	ErrListTypeMismatch = errors.New("[sendwire]> list type mismatch")

	// ErrAmbiguousMessage is returned when the writer is given an
	// unspecified message value for a field with more than one
	// message alternative.
	ErrAmbiguousMessage = errors.New("[sendwire]> ambiguous message field")

	// ErrBlobNotConsumed is returned when the reader is asked to
	// advance while a prior data field's blob view still has bytes
	// remaining.
	ErrBlobNotConsumed = errors.New("[sendwire]> prior data field not fully consumed")

	// ErrIntRange names a negative value for an int field; the wire
	// encoding is unsigned. No code path in this package returns it:
	// Int takes a uint32, so a negative value never reaches the Writer.
	ErrIntRange = errors.New("[sendwire]> int value out of range")
)
