// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// This file implements the Writer state machine described in
// spec.md §4.5: per-message, bound to one output stream, enforcing
// schema field order, auto-skipping optional-nil fields, and handing
// back sub-writers for nested messages and lists of nested messages.
package sendwire

import (
	"fmt"
	"io"
)

// Writer is bound to one Message and one output stream for its
// lifetime. Obtain one via Message.Writer or Message.WriterWithOptions,
// not by constructing a Writer directly.
type Writer struct {
	message *Message
	stream  io.Writer
	pos     int // -1 means the header has not been emitted yet
	done    bool
	opts    Options
}

// WriterWithOptions returns a Writer bound to this message and stream,
// configured by opts.
func (m *Message) WriterWithOptions(stream io.Writer, opts ...Option) *Writer {
	var o Options
	for _, apply := range opts {
		apply(&o)
	}
	return &Writer{message: m, stream: stream, pos: -1, opts: o}
}

// WriteOutcomeKind tags what Writer.Write hands back in a WriteOutcome.
type WriteOutcomeKind int

const (
	// OutcomeNone means the field was a plain value; there is nothing
	// further for the caller to drive.
	OutcomeNone WriteOutcomeKind = iota
	// OutcomeNested means the field was a single nested message; the
	// caller must drive Writer to completion.
	OutcomeNested
	// OutcomeNestedList means the field was a many(msg(...)) list; the
	// caller must drive each Writer, in order, to completion.
	OutcomeNestedList
)

// WriteOutcome is returned by Writer.Write. Writer is populated for
// OutcomeNested and Writers for OutcomeNestedList; neither is for
// OutcomeNone, which is also what an empty many(msg(...)) list yields.
type WriteOutcome struct {
	Kind    WriteOutcomeKind
	Writer  *Writer
	Writers []*Writer
}

// Write writes value to fieldname, after verifying that fieldname is
// the correct next field given the schema and any intervening
// optional-nil fields that must be auto-skipped. See spec.md §4.5 for
// the full field-matching and emission algorithm.
func (w *Writer) Write(fieldname string, value Value) (WriteOutcome, error) {
	if w.done {
		return WriteOutcome{}, fmt.Errorf("%w: writer already at end of message", ErrPastEnd)
	}

	fields := w.message.Fields()
	start := w.pos
	if start < 0 {
		start = 0
	}

	skip := 0
	for {
		idx := start + skip
		if idx >= len(fields) {
			return WriteOutcome{}, fmt.Errorf("%w: no field %q left to write", ErrPastEnd, fieldname)
		}
		field := fields[idx]
		if field.Name == fieldname {
			break
		}
		if !field.acceptsNil() {
			return WriteOutcome{}, fmt.Errorf("%w: expected field %q, got %q", ErrWrongField, field.Name, fieldname)
		}
		skip++
	}
	field := fields[start+skip]

	plan, err := classifyWrite(field, value)
	if err != nil {
		return WriteOutcome{}, err
	}

	if w.pos == -1 {
		if err := w.writeHeader(); err != nil {
			return WriteOutcome{}, err
		}
		w.pos = 0
	}
	for i := 0; i < skip; i++ {
		if err := writeTagByte(w.stream, tagNil); err != nil {
			return WriteOutcome{}, err
		}
		w.pos++
	}

	outcome, err := w.emit(plan, value)
	if err != nil {
		return WriteOutcome{}, err
	}

	w.pos++
	if w.pos >= len(fields) {
		w.done = true
	}
	return outcome, nil
}

func (w *Writer) writeHeader() error {
	if err := writeTagByte(w.stream, tagMessage); err != nil {
		return err
	}
	if err := writeTaggedStr(w.stream, w.message.Name()); err != nil {
		return err
	}
	return writeTaggedInt(w.stream, w.message.Version())
}

// Flush forwards to the underlying stream if it has a Flush() error
// method; it is a no-op otherwise.
func (w *Writer) Flush() error {
	if f, ok := w.stream.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// writePlan is the side-effect-free result of matching a field against
// a Value: which wire kind to emit, and any data needed to emit it
// without re-inspecting value (length of a data source, element kind
// of a list).
type writePlan struct {
	prim       PrimKind // valid for str/int/float/bool/nil/data
	isList     bool
	isMessage  bool
	dataLen    uint32
	msgName    string
	msgVersion uint32
	listElems  []writePlan // one plan per element, for a list of primitives (lengths vary per data element)
	listIsMsg  bool
}

// classifyWrite performs the field/value type check from spec.md §4.5
// step 1, without writing anything to the stream.
func classifyWrite(field Field, value Value) (writePlan, error) {
	switch value.kind {
	case vkList:
		return classifyList(field, value)
	case vkMessage:
		return classifyMessage(field, value)
	case vkBool:
		// Bool is checked ahead of int deliberately (spec.md §9):
		// even though Go's static typing already keeps bool and int
		// distinct, the dispatch order here documents the intent.
		if !field.hasPrim(PrimBool) {
			return writePlan{}, fmt.Errorf("%w: field %q (%s) does not accept bool", ErrWrongType, field.Name, field.Spec)
		}
		return writePlan{prim: PrimBool}, nil
	case vkInt:
		if !field.hasPrim(PrimInt) {
			return writePlan{}, fmt.Errorf("%w: field %q (%s) does not accept int", ErrWrongType, field.Name, field.Spec)
		}
		return writePlan{prim: PrimInt}, nil
	case vkStr:
		if !field.hasPrim(PrimStr) {
			return writePlan{}, fmt.Errorf("%w: field %q (%s) does not accept str", ErrWrongType, field.Name, field.Spec)
		}
		return writePlan{prim: PrimStr}, nil
	case vkFloat:
		if !field.hasPrim(PrimFloat) {
			return writePlan{}, fmt.Errorf("%w: field %q (%s) does not accept float", ErrWrongType, field.Name, field.Spec)
		}
		return writePlan{prim: PrimFloat}, nil
	case vkNil:
		if !field.hasPrim(PrimNil) {
			return writePlan{}, fmt.Errorf("%w: field %q (%s) does not accept nil", ErrWrongType, field.Name, field.Spec)
		}
		return writePlan{prim: PrimNil}, nil
	case vkData:
		if !field.hasPrim(PrimData) {
			return writePlan{}, fmt.Errorf("%w: field %q (%s) does not accept data", ErrWrongType, field.Name, field.Spec)
		}
		n, err := dataLength(value.data)
		if err != nil {
			return writePlan{}, err
		}
		return writePlan{prim: PrimData, dataLen: n}, nil
	default:
		return writePlan{}, fmt.Errorf("%w: field %q (%s): unrecognized value", ErrWrongType, field.Name, field.Spec)
	}
}

// dataLength measures a DataSource's length by seeking to its end and
// back, rejecting lengths that do not fit uint32. This is the one
// documented exception to "validation is side-effect free": measuring
// length requires moving the source's cursor, exactly as spec.md §4.5
// step 3 (and the original sendlib _check_data) does.
func dataLength(src DataSource) (uint32, error) {
	length, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if length < 0 || length > int64(^uint32(0)) {
		return 0, fmt.Errorf("%w: data length %d", ErrDataTooLarge, length)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return uint32(length), nil
}

func classifyList(field Field, value Value) (writePlan, error) {
	many, ok := field.manyAlt()
	if !ok {
		return writePlan{}, fmt.Errorf("%w: field %q (%s) does not accept a list", ErrListTypeMismatch, field.Name, field.Spec)
	}
	if len(value.list) == 0 {
		return writePlan{isList: true}, nil
	}

	first := value.list[0]
	for _, item := range value.list[1:] {
		if item.kind != first.kind {
			return writePlan{}, fmt.Errorf("%w: heterogeneous list for field %q", ErrListTypeMismatch, field.Name)
		}
	}

	if first.kind == vkMessage {
		if !many.ManyIsMsg {
			return writePlan{}, fmt.Errorf("%w: field %q does not accept many(msg)", ErrListTypeMismatch, field.Name)
		}
		// A many(msg(...)) alternative names exactly one target message
		// type, so each element either matches it explicitly or, via
		// the unspecified sentinel, is accepted unambiguously (unlike
		// a standalone message field, which may have several
		// msg(...) alternatives to disambiguate between).
		for _, item := range value.list {
			if item.msg != nil {
				if item.msg.Name() != many.MsgName || item.msg.Version() != many.MsgVersion {
					return writePlan{}, fmt.Errorf("%w: list element msg(%s, %d) not valid for field %q", ErrListTypeMismatch, item.msg.Name(), item.msg.Version(), field.Name)
				}
				continue
			}
			if item.mSet {
				if item.mName != many.MsgName || item.mVer != many.MsgVersion {
					return writePlan{}, fmt.Errorf("%w: list element msg(%s, %d) not valid for field %q", ErrListTypeMismatch, item.mName, item.mVer, field.Name)
				}
			}
		}
		return writePlan{isList: true, listIsMsg: true, msgName: many.MsgName, msgVersion: many.MsgVersion}, nil
	}

	elemField := Field{Name: field.Name, Spec: field.Spec, Types: []TypeAlt{{Kind: AltPrim, Prim: many.Prim}}}
	elemPlans := make([]writePlan, 0, len(value.list))
	for i, item := range value.list {
		p, err := classifyWrite(elemField, item)
		if err != nil {
			return writePlan{}, fmt.Errorf("%w: list element %d for field %q: %v", ErrListTypeMismatch, i, field.Name, err)
		}
		elemPlans = append(elemPlans, p)
	}
	return writePlan{isList: true, listElems: elemPlans}, nil
}

func classifyMessage(field Field, value Value) (writePlan, error) {
	name, version, err := resolveMessageRef(field, value)
	if err != nil {
		return writePlan{}, err
	}
	return writePlan{isMessage: true, msgName: name, msgVersion: version}, nil
}

// resolveMessageRef determines which (name, version) a message Value
// designates for field, applying the "Nothing" sentinel's
// exactly-one-alternative rule (ErrAmbiguousMessage otherwise).
func resolveMessageRef(field Field, value Value) (string, uint32, error) {
	if value.msg != nil {
		name, version := value.msg.Name(), value.msg.Version()
		if !field.acceptsMsgRef(name, version) {
			return "", 0, fmt.Errorf("%w: message (%s, %d) not valid for field %q", ErrWrongType, name, version, field.Name)
		}
		return name, version, nil
	}
	if value.mSet {
		if !field.acceptsMsgRef(value.mName, value.mVer) {
			return "", 0, fmt.Errorf("%w: message (%s, %d) not valid for field %q", ErrWrongType, value.mName, value.mVer, field.Name)
		}
		return value.mName, value.mVer, nil
	}

	alts := field.messageAlts()
	switch len(alts) {
	case 0:
		return "", 0, fmt.Errorf("%w: field %q accepts no message alternative", ErrWrongType, field.Name)
	case 1:
		return alts[0].MsgName, alts[0].MsgVersion, nil
	default:
		return "", 0, fmt.Errorf("%w: field %q has %d message alternatives, value must specify one", ErrAmbiguousMessage, field.Name, len(alts))
	}
}

// emit writes plan's payload to the stream and returns the caller-facing
// outcome (sub-writer(s) for nested messages, none otherwise).
func (w *Writer) emit(plan writePlan, value Value) (WriteOutcome, error) {
	if plan.isList {
		return w.emitList(plan, value)
	}
	if plan.isMessage {
		return w.emitMessage(plan)
	}
	return WriteOutcome{}, w.emitPrim(plan, value)
}

func (w *Writer) emitPrim(plan writePlan, value Value) error {
	switch plan.prim {
	case PrimStr:
		return writeTaggedStr(w.stream, value.str)
	case PrimInt:
		return writeTaggedInt(w.stream, value.i)
	case PrimFloat:
		if err := writeTagByte(w.stream, tagFloat); err != nil {
			return err
		}
		return writeFloatBody(w.stream, value.f)
	case PrimBool:
		if err := writeTagByte(w.stream, tagBool); err != nil {
			return err
		}
		return writeBoolBody(w.stream, value.b)
	case PrimNil:
		return writeTagByte(w.stream, tagNil)
	case PrimData:
		return w.emitData(plan, value.data)
	default:
		return fmt.Errorf("%w: unhandled primitive kind", ErrWrongType)
	}
}

func (w *Writer) emitData(plan writePlan, src DataSource) error {
	if err := writeTagByte(w.stream, tagData); err != nil {
		return err
	}
	if err := writeTaggedInt(w.stream, plan.dataLen); err != nil {
		return err
	}
	return copyExactly(w.stream, src, plan.dataLen, w.opts.chunkSize())
}

func (w *Writer) emitMessage(plan writePlan) (WriteOutcome, error) {
	m, err := w.message.Registry().Lookup(plan.msgName, plan.msgVersion)
	if err != nil {
		return WriteOutcome{}, err
	}
	sub := m.WriterWithOptions(w.stream, WithChunkSize(w.opts.chunkSize()))
	return WriteOutcome{Kind: OutcomeNested, Writer: sub}, nil
}

func (w *Writer) emitList(plan writePlan, value Value) (WriteOutcome, error) {
	if err := writeTagByte(w.stream, tagList); err != nil {
		return WriteOutcome{}, err
	}
	if err := writeTaggedInt(w.stream, uint32(len(value.list))); err != nil {
		return WriteOutcome{}, err
	}
	if len(value.list) == 0 {
		return WriteOutcome{}, nil
	}

	if plan.listIsMsg {
		m, err := w.message.Registry().Lookup(plan.msgName, plan.msgVersion)
		if err != nil {
			return WriteOutcome{}, err
		}
		writers := make([]*Writer, 0, len(value.list))
		for range value.list {
			writers = append(writers, m.WriterWithOptions(w.stream, WithChunkSize(w.opts.chunkSize())))
		}
		return WriteOutcome{Kind: OutcomeNestedList, Writers: writers}, nil
	}

	for i, item := range value.list {
		if err := w.emitPrim(plan.listElems[i], item); err != nil {
			return WriteOutcome{}, err
		}
	}
	return WriteOutcome{}, nil
}
