// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package sendwire

import (
	"fmt"
	"io"
)

// PrimKind enumerates the primitive wire kinds a Field alternative may
// name: str, int, float, bool, data, nil.
type PrimKind int

const (
	PrimInvalid PrimKind = iota
	PrimStr
	PrimInt
	PrimFloat
	PrimBool
	PrimData
	PrimNil
)

func (p PrimKind) String() string {
	switch p {
	case PrimStr:
		return "str"
	case PrimInt:
		return "int"
	case PrimFloat:
		return "float"
	case PrimBool:
		return "bool"
	case PrimData:
		return "data"
	case PrimNil:
		return "nil"
	default:
		return "invalid"
	}
}

func primFromKeyword(keyword string) (PrimKind, bool) {
	switch keyword {
	case "str":
		return PrimStr, true
	case "int":
		return PrimInt, true
	case "float":
		return PrimFloat, true
	case "bool":
		return PrimBool, true
	case "data":
		return PrimData, true
	case "nil":
		return PrimNil, true
	default:
		return PrimInvalid, false
	}
}

// TypeAltKind tags which shape of alternative a TypeAlt holds.
type TypeAltKind int

const (
	AltPrim TypeAltKind = iota
	AltMany
	AltMsgRef
)

// TypeAlt is one accepted alternative for a Field: a bare primitive,
// many <inner> (a homogeneous list of a primitive or message
// reference), or a reference to another Message in the same Registry.
type TypeAlt struct {
	Kind TypeAltKind

	// Prim is valid when Kind == AltPrim, or when Kind == AltMany and
	// ManyIsMsg is false (many <primitive>).
	Prim PrimKind

	// ManyIsMsg is valid when Kind == AltMany; true means the list
	// element type is MsgName/MsgVersion rather than Prim.
	ManyIsMsg bool

	// MsgName/MsgVersion are valid when Kind == AltMsgRef, or when
	// Kind == AltMany && ManyIsMsg.
	MsgName    string
	MsgVersion uint32
}

func (t TypeAlt) String() string {
	switch t.Kind {
	case AltPrim:
		return t.Prim.String()
	case AltMsgRef:
		return fmt.Sprintf("msg(%s, %d)", t.MsgName, t.MsgVersion)
	case AltMany:
		if t.ManyIsMsg {
			return fmt.Sprintf("many msg(%s, %d)", t.MsgName, t.MsgVersion)
		}
		return "many " + t.Prim.String()
	default:
		return "invalid"
	}
}

// DataSource is the capability a value written to a data field must
// expose: readable and seekable, so the Writer can measure its length
// before streaming it.
type DataSource interface {
	io.Reader
	io.Seeker
}

// valueKind tags the dynamic shape of a Value passed to Writer.Write.
type valueKind int

const (
	vkInvalid valueKind = iota
	vkStr
	vkInt
	vkFloat
	vkBool
	vkNil
	vkData
	vkMessage
	vkList
)

// Value is the tagged variant accepted by Writer.Write. Construct one
// with the Str/Int/Float/Bool/Nil/Data/Msg/MsgUnspecified/List helpers
// below rather than building the struct directly.
type Value struct {
	kind valueKind

	str   string
	i     uint32
	f     float64
	b     bool
	data  DataSource
	msg   *Message
	mName string
	mVer  uint32
	mSet  bool // true if mName/mVer designate a specific message
	list  []Value
}

// Str builds a str Value.
func Str(v string) Value { return Value{kind: vkStr, str: v} }

// Int builds an int Value. The wire encoding is unsigned 32-bit, and
// v is a uint32, so a negative value cannot be expressed.
func Int(v uint32) Value { return Value{kind: vkInt, i: v} }

// Float builds a float Value.
func Float(v float64) Value { return Value{kind: vkFloat, f: v} }

// Bool builds a bool Value.
func Bool(v bool) Value { return Value{kind: vkBool, b: v} }

// Nil builds the nil Value, valid for any field whose types include
// nil.
func Nil() Value { return Value{kind: vkNil} }

// Data builds a data Value backed by src. src's length is measured via
// Seek when the value is written.
func Data(src DataSource) Value { return Value{kind: vkData, data: src} }

// Msg builds a Value that designates a nested message by its live
// instance. The Writer matches its name and version against the
// field's message alternatives.
func Msg(m *Message) Value { return Value{kind: vkMessage, msg: m, mSet: true} }

// MsgRef builds a Value that designates a nested message by
// (name, version), to be resolved against the field's message
// alternatives (not the whole registry) when written.
func MsgRef(name string, version uint32) Value {
	return Value{kind: vkMessage, mName: name, mVer: version, mSet: true}
}

// MsgUnspecified builds the "Nothing" sentinel: write whichever
// message alternative the field accepts. Valid only when the field has
// exactly one message alternative; otherwise Write fails with
// ErrAmbiguousMessage.
func MsgUnspecified() Value { return Value{kind: vkMessage, mSet: false} }

// List builds a Value for a many(...) field. All elements must report
// the same dynamic kind; an empty list is always accepted.
func List(items ...Value) Value { return Value{kind: vkList, list: items} }
