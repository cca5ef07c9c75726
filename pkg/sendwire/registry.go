// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package sendwire

import (
	"fmt"
	"sort"
)

type msgKey struct {
	name    string
	version uint32
}

// Registry is the set of Messages produced by parsing one schema text.
// It is the scope within which msg(name, version) references resolve.
// Once returned from Parse, a Registry is immutable from the caller's
// perspective.
type Registry struct {
	messages map[msgKey]*Message
}

func newRegistry() *Registry {
	return &Registry{messages: make(map[msgKey]*Message)}
}

// Lookup retrieves the Message whose name and version match exactly,
// failing with ErrNotFound if no such message exists.
func (r *Registry) Lookup(name string, version uint32) (*Message, error) {
	m, ok := r.messages[msgKey{name, version}]
	if !ok {
		return nil, fmt.Errorf("%w: (%s, %d)", ErrNotFound, name, version)
	}
	return m, nil
}

// Get is a forgiving lookup: it returns (message, true) if found, or
// (nil, false) otherwise. version defaults to 1 when omitted, mirroring
// the library surface's get(name, version=1).
func (r *Registry) Get(name string, version ...uint32) (*Message, bool) {
	v := uint32(1)
	if len(version) > 0 {
		v = version[0]
	}
	m, ok := r.messages[msgKey{name, v}]
	return m, ok
}

// Messages returns every Message in the registry, ordered by
// (name, version) for deterministic iteration (used by pkg/schemacatalog
// when listing known messages).
func (r *Registry) Messages() []*Message {
	out := make([]*Message, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].name != out[j].name {
			return out[i].name < out[j].name
		}
		return out[i].version < out[j].version
	})
	return out
}
