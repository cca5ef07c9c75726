// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// This file implements the Reader state machine described in
// spec.md §4.6: one-time header validation, strict field-order
// dispatch with no auto-skip (asymmetric with the Writer), and a
// blob-cursor invariant that rejects reading past an unconsumed data
// field.
package sendwire

import (
	"fmt"
	"io"
)

// Reader is bound to one Message and one input stream for its
// lifetime. Obtain one via Message.Reader, not by constructing a
// Reader directly. A Reader is not restartable: once created against a
// stream it must be driven to the end of the message (or abandoned).
type Reader struct {
	message *Message
	stream  io.Reader
	pos     int // -1 means the header has not been validated yet
	done    bool

	blob      *BlobView // set while a data field's BlobView has not been fully consumed
	blobField string    // name of the field that produced blob, for diagnostics
}

// DecodedKind tags which field of a Decoded is populated.
type DecodedKind int

const (
	DecodedInvalid DecodedKind = iota
	DecodedStr
	DecodedInt
	DecodedFloat
	DecodedBool
	DecodedNil
	DecodedData
	DecodedMessage
	DecodedList
)

// Decoded is the value Reader.Read returns. It is a distinct type from
// Value because a read data field surfaces a *BlobView (a live, bounded
// view over the stream) rather than a value the caller already holds
// in hand the way a write does.
type Decoded struct {
	Kind DecodedKind

	Str   string
	Int   uint32
	Float float64
	Bool  bool
	// Data is set for a standalone data field: a streaming, bounded
	// view the caller reads incrementally. Bytes is set instead for a
	// data element inside a many(...) list, since every list element
	// must be consumed before Read returns control for the next field,
	// leaving no opportunity for the caller to stream it incrementally.
	Data  *BlobView
	Bytes []byte

	MessageName    string
	MessageVersion uint32
	// Nested is set when Kind == DecodedMessage: a Reader for the
	// caller to drive through the nested message's fields. For a
	// standalone message field it is already positioned past the
	// nested header; for an element of a many(msg(...)) list it reads
	// and validates its own header on its first Read.
	Nested *Reader

	List []Decoded
}

// Read reads fieldname, which must be the exact next field in schema
// order: unlike Writer.Write, Reader.Read never auto-skips optional
// fields, since the reader cannot know the writer chose to omit one
// without reading the wire tag that follows.
func (r *Reader) Read(fieldname string) (Decoded, error) {
	if r.done {
		return Decoded{}, fmt.Errorf("%w: reader already at end of message", ErrPastEnd)
	}
	if r.blob != nil && r.blob.BytesRemaining() > 0 {
		return Decoded{}, fmt.Errorf("%w: field %q", ErrBlobNotConsumed, r.blobField)
	}
	r.blob = nil

	if r.pos == -1 {
		if err := r.readHeader(); err != nil {
			return Decoded{}, err
		}
		r.pos = 0
	}

	fields := r.message.Fields()
	if r.pos >= len(fields) {
		return Decoded{}, fmt.Errorf("%w: no field %q left to read", ErrPastEnd, fieldname)
	}
	field := fields[r.pos]
	if field.Name != fieldname {
		return Decoded{}, fmt.Errorf("%w: expected field %q, got %q", ErrWrongField, field.Name, fieldname)
	}

	t, err := readTagByte(r.stream)
	if err != nil {
		return Decoded{}, err
	}

	decoded, err := r.dispatch(field, t)
	if err != nil {
		return Decoded{}, err
	}

	r.pos++
	if r.pos >= len(fields) {
		r.done = true
	}
	return decoded, nil
}

// readHeader performs the one-time message-header validation: a
// literal M tag, then the message's name as an S value, then its
// version as an I value, both checked against this Reader's message.
func (r *Reader) readHeader() error {
	t, err := readTagByte(r.stream)
	if err != nil {
		return err
	}
	if t != tagMessage {
		return fmt.Errorf("%w: expected message tag, got %s", ErrBadHeader, t)
	}

	nameTag, err := readTagByte(r.stream)
	if err != nil {
		return err
	}
	if nameTag != tagStr {
		return fmt.Errorf("%w: expected str tag for message name, got %s", ErrBadHeader, nameTag)
	}
	name, err := readStrBody(r.stream)
	if err != nil {
		return err
	}

	version, err := readTaggedInt(r.stream)
	if err != nil {
		return err
	}

	if name != r.message.Name() || version != r.message.Version() {
		return fmt.Errorf("%w: stream holds (%s, %d), reader expects (%s, %d)", ErrWrongMessage, name, version, r.message.Name(), r.message.Version())
	}
	return nil
}

// dispatch reads the payload for a field whose wire tag has already
// been peeked as t, validating t against field's accepted types.
func (r *Reader) dispatch(field Field, t tag) (Decoded, error) {
	switch t {
	case tagList:
		return r.dispatchList(field)
	case tagMessage:
		return r.dispatchMessage(field)
	default:
		prim, ok := primForTag(t)
		if !ok {
			return Decoded{}, fmt.Errorf("%w: %s", ErrBadPrefix, t)
		}
		if !field.hasPrim(prim) {
			return Decoded{}, fmt.Errorf("%w: field %q (%s) does not accept %s", ErrWrongType, field.Name, field.Spec, prim)
		}
		decoded, err := r.readPrimBody(prim)
		if err == nil && decoded.Kind == DecodedData {
			r.blobField = field.Name
		}
		return decoded, err
	}
}

func (r *Reader) readPrimBody(prim PrimKind) (Decoded, error) {
	switch prim {
	case PrimStr:
		s, err := readStrBody(r.stream)
		if err != nil {
			return Decoded{}, err
		}
		return Decoded{Kind: DecodedStr, Str: s}, nil
	case PrimInt:
		v, err := readUint32(r.stream)
		if err != nil {
			return Decoded{}, err
		}
		return Decoded{Kind: DecodedInt, Int: v}, nil
	case PrimFloat:
		f, err := readFloatBody(r.stream)
		if err != nil {
			return Decoded{}, err
		}
		return Decoded{Kind: DecodedFloat, Float: f}, nil
	case PrimBool:
		b, err := readBoolBody(r.stream)
		if err != nil {
			return Decoded{}, err
		}
		return Decoded{Kind: DecodedBool, Bool: b}, nil
	case PrimNil:
		return Decoded{Kind: DecodedNil}, nil
	case PrimData:
		n, err := readTaggedInt(r.stream)
		if err != nil {
			return Decoded{}, err
		}
		view := newBlobView(r.stream, n)
		r.blob = view
		return Decoded{Kind: DecodedData, Data: view}, nil
	default:
		return Decoded{}, fmt.Errorf("%w: unhandled primitive kind", ErrWrongType)
	}
}

func (r *Reader) dispatchMessage(field Field) (Decoded, error) {
	if len(field.messageAlts()) == 0 {
		return Decoded{}, fmt.Errorf("%w: field %q (%s) does not accept a message", ErrWrongType, field.Name, field.Spec)
	}

	name, version, err := r.readMessageHeaderTail()
	if err != nil {
		return Decoded{}, err
	}
	if !field.acceptsMsgRef(name, version) {
		return Decoded{}, fmt.Errorf("%w: message (%s, %d) not valid for field %q", ErrWrongType, name, version, field.Name)
	}

	sub, err := r.subReaderFor(name, version)
	if err != nil {
		return Decoded{}, err
	}
	return Decoded{Kind: DecodedMessage, MessageName: name, MessageVersion: version, Nested: sub}, nil
}

// readMessageHeaderTail reads the str-name and int-version that follow
// a message tag byte already consumed by the caller.
func (r *Reader) readMessageHeaderTail() (string, uint32, error) {
	nameTag, err := readTagByte(r.stream)
	if err != nil {
		return "", 0, err
	}
	if nameTag != tagStr {
		return "", 0, fmt.Errorf("%w: expected str tag for nested message name, got %s", ErrBadHeader, nameTag)
	}
	name, err := readStrBody(r.stream)
	if err != nil {
		return "", 0, err
	}
	version, err := readTaggedInt(r.stream)
	if err != nil {
		return "", 0, err
	}
	return name, version, nil
}

// subReaderFor looks up (name, version) in this reader's registry and
// returns a Reader for it that is already positioned past the header,
// since that header has just been consumed from the shared stream.
func (r *Reader) subReaderFor(name string, version uint32) (*Reader, error) {
	m, err := r.message.Registry().Lookup(name, version)
	if err != nil {
		return nil, err
	}
	return &Reader{message: m, stream: r.stream, pos: 0}, nil
}

func (r *Reader) dispatchList(field Field) (Decoded, error) {
	many, ok := field.manyAlt()
	if !ok {
		return Decoded{}, fmt.Errorf("%w: field %q (%s) does not accept a list", ErrListTypeMismatch, field.Name, field.Spec)
	}

	count, err := readTaggedInt(r.stream)
	if err != nil {
		return Decoded{}, err
	}

	if many.ManyIsMsg {
		// Element headers are not read here: like the Writer side,
		// which hands back N sub-Writers without writing their
		// headers in advance, each sub-Reader reads and validates its
		// own header lazily on its first Read call. Reading ahead
		// would desynchronize the stream, since element i+1's bytes
		// don't exist yet until the caller finishes driving element i.
		m, err := r.message.Registry().Lookup(many.MsgName, many.MsgVersion)
		if err != nil {
			return Decoded{}, err
		}
		items := make([]Decoded, 0, count)
		for i := uint32(0); i < count; i++ {
			sub := &Reader{message: m, stream: r.stream, pos: -1}
			items = append(items, Decoded{
				Kind:           DecodedMessage,
				MessageName:    many.MsgName,
				MessageVersion: many.MsgVersion,
				Nested:         sub,
			})
		}
		return Decoded{Kind: DecodedList, List: items}, nil
	}

	items := make([]Decoded, 0, count)
	for i := uint32(0); i < count; i++ {
		t, err := readTagByte(r.stream)
		if err != nil {
			return Decoded{}, err
		}
		prim, ok := primForTag(t)
		if !ok || prim != many.Prim {
			return Decoded{}, fmt.Errorf("%w: list element %d for field %q", ErrListTypeMismatch, i, field.Name)
		}
		item, err := r.readPrimBody(prim)
		if err != nil {
			return Decoded{}, err
		}
		if item.Kind == DecodedData {
			// Fully drain the element's blob into memory before moving
			// on: the next element's bytes immediately follow, and
			// there is no point in the loop where the caller could
			// stream this one incrementally before Read returns.
			b, err := item.Data.ReadAll()
			if err != nil {
				return Decoded{}, err
			}
			item.Bytes = b
			item.Data = nil
			r.blob = nil
		}
		items = append(items, item)
	}
	return Decoded{Kind: DecodedList, List: items}, nil
}
