// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package sendwire

// Field is one named slot within a Message, declaring an ordered set
// of accepted type alternatives.
type Field struct {
	// Name is the field's name as declared in the schema.
	Name string

	// Spec is the raw, post-strip right-hand side of the field
	// definition, preserved for diagnostics (error messages, tooling).
	Spec string

	// Types is the ordered, non-empty set of accepted alternatives.
	Types []TypeAlt
}

// acceptsNil reports whether nil is one of the field's alternatives,
// which is what lets a Writer auto-skip this field.
func (f Field) acceptsNil() bool {
	for _, t := range f.Types {
		if t.Kind == AltPrim && t.Prim == PrimNil {
			return true
		}
	}
	return false
}

// messageAlts returns the field's message-reference alternatives (not
// many(msg) ones), in declared order.
func (f Field) messageAlts() []TypeAlt {
	var out []TypeAlt
	for _, t := range f.Types {
		if t.Kind == AltMsgRef {
			out = append(out, t)
		}
	}
	return out
}

// hasPrim reports whether the field accepts the bare primitive p
// (not as part of a many(...) alternative).
func (f Field) hasPrim(p PrimKind) bool {
	for _, t := range f.Types {
		if t.Kind == AltPrim && t.Prim == p {
			return true
		}
	}
	return false
}

// manyAlt returns the field's many(...) alternative, if any.
func (f Field) manyAlt() (TypeAlt, bool) {
	for _, t := range f.Types {
		if t.Kind == AltMany {
			return t, true
		}
	}
	return TypeAlt{}, false
}

// acceptsMsgRef reports whether (name, version) is one of the field's
// message alternatives.
func (f Field) acceptsMsgRef(name string, version uint32) bool {
	for _, t := range f.messageAlts() {
		if t.MsgName == name && t.MsgVersion == version {
			return true
		}
	}
	return false
}
