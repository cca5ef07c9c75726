// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// This file implements the on-wire tag+payload encoding shared by the
// Writer and Reader state machines.
//
// Every value on the wire is a one-byte tag followed by a type-specific
// payload:
//
//	M  message   S-string name, I-int version, then field stream
//	S  str       I-int byte length N, then N bytes of UTF-8
//	I  int       4 bytes big-endian unsigned 32-bit
//	F  float     8 bytes IEEE-754 double, big-endian
//	B  bool      one byte: 't' or 'f'
//	N  nil       no payload
//	D  data      I-int byte length N, then exactly N raw bytes
//	L  list      I-int count K, then K back-to-back element encodings
//
// The S and D length prefixes embed a full I-tagged int (tag byte 'I'
// plus 4 bytes), not a bare 4-byte integer.
package sendwire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

type tag byte

const (
	tagMessage tag = 'M'
	tagStr     tag = 'S'
	tagInt     tag = 'I'
	tagFloat   tag = 'F'
	tagBool    tag = 'B'
	tagNil     tag = 'N'
	tagData    tag = 'D'
	tagList    tag = 'L'
)

func (t tag) String() string {
	switch t {
	case tagMessage:
		return "message"
	case tagStr:
		return "str"
	case tagInt:
		return "int"
	case tagFloat:
		return "float"
	case tagBool:
		return "bool"
	case tagNil:
		return "nil"
	case tagData:
		return "data"
	case tagList:
		return "list"
	default:
		return fmt.Sprintf("tag(%q)", byte(t))
	}
}

// tagForPrim maps a PrimKind to its wire tag byte.
func tagForPrim(p PrimKind) tag {
	switch p {
	case PrimStr:
		return tagStr
	case PrimInt:
		return tagInt
	case PrimFloat:
		return tagFloat
	case PrimBool:
		return tagBool
	case PrimData:
		return tagData
	case PrimNil:
		return tagNil
	default:
		return 0
	}
}

// primForTag is the inverse of tagForPrim, used by the reader when
// mapping a peeked wire tag back to a PrimKind.
func primForTag(t tag) (PrimKind, bool) {
	switch t {
	case tagStr:
		return PrimStr, true
	case tagInt:
		return PrimInt, true
	case tagFloat:
		return PrimFloat, true
	case tagBool:
		return PrimBool, true
	case tagData:
		return PrimData, true
	case tagNil:
		return PrimNil, true
	default:
		return 0, false
	}
}

func writeTagByte(w io.Writer, t tag) error {
	_, err := w.Write([]byte{byte(t)})
	return err
}

func readTagByte(r io.Reader) (tag, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return tag(buf[0]), nil
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// writeTaggedInt writes a full I-tagged 32-bit unsigned int: the tag
// byte 'I' followed by 4 big-endian bytes. Used both for standalone int
// fields and for the S/D length prefixes.
func writeTaggedInt(w io.Writer, v uint32) error {
	if err := writeTagByte(w, tagInt); err != nil {
		return err
	}
	return writeUint32(w, v)
}

// readTaggedInt reads a full I-tagged 32-bit unsigned int, failing with
// ErrBadHeader if the tag byte is not 'I'.
func readTaggedInt(r io.Reader) (uint32, error) {
	t, err := readTagByte(r)
	if err != nil {
		return 0, err
	}
	if t != tagInt {
		return 0, fmt.Errorf("%w: expected int tag, got %s", ErrBadHeader, t)
	}
	return readUint32(r)
}

func writeTaggedStr(w io.Writer, s string) error {
	b := []byte(s)
	if err := writeTagByte(w, tagStr); err != nil {
		return err
	}
	if err := writeTaggedInt(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// readStrBody reads the length-prefixed UTF-8 body of a str value,
// assuming the leading 'S' tag byte has already been consumed.
func readStrBody(r io.Reader) (string, error) {
	n, err := readTaggedInt(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeFloatBody(w io.Writer, f float64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(f))
	_, err := w.Write(buf[:])
	return err
}

func readFloatBody(r io.Reader) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf[:])), nil
}

func writeBoolBody(w io.Writer, b bool) error {
	c := byte('f')
	if b {
		c = 't'
	}
	_, err := w.Write([]byte{c})
	return err
}

func readBoolBody(r io.Reader) (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, err
	}
	return buf[0] == 't', nil
}

// chunkSize is the default size used when streaming a data field's
// payload so that neither side buffers the whole blob in memory.
const chunkSize = 256 * 1024

// copyExactly copies n bytes from src to dst in bufSize pieces (falling
// back to chunkSize if bufSize is non-positive), without buffering more
// than one chunk at a time.
func copyExactly(dst io.Writer, src io.Reader, n uint32, bufSize int) error {
	if bufSize <= 0 {
		bufSize = chunkSize
	}
	buf := make([]byte, bufSize)
	remaining := int64(n)
	for remaining > 0 {
		amount := int64(len(buf))
		if remaining < amount {
			amount = remaining
		}
		read, err := io.ReadFull(src, buf[:amount])
		if err != nil {
			return err
		}
		if _, err := dst.Write(buf[:read]); err != nil {
			return err
		}
		remaining -= int64(read)
	}
	return nil
}
