// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// This file implements the schema text parser described in spec.md
// §4.3: a line-oriented, whitespace-insensitive (on the left) grammar
// that is parsed in two passes so that msg(name, version) references
// may point forward in the file.
package sendwire

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	reMessageHeader = regexp.MustCompile(`^\(([^,]+),\s*(\d+)\)\s*:\s*$`)
	reField         = regexp.MustCompile(`^-\s*([^:]+):\s+(.+?)\s*$`)
	reOr            = regexp.MustCompile(`\s*or\s*`)
	reMany          = regexp.MustCompile(`^many\s+(.+?)\s*$`)
	reMsgRef        = regexp.MustCompile(`^msg\s*\(\s*([^,)]+?)\s*,\s*(\d+)\s*\)\s*$`)
)

// Parse compiles schema text into a Registry. schema may be a string
// or an io.Reader, from which the whole text is read first.
func Parse(schema any) (*Registry, error) {
	text, err := schemaText(schema)
	if err != nil {
		return nil, err
	}
	return parseText(text)
}

func schemaText(schema any) (string, error) {
	switch v := schema.(type) {
	case string:
		return v, nil
	case io.Reader:
		b, err := io.ReadAll(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("%w: schema must be a string or io.Reader, got %T", ErrParse, schema)
	}
}

type rawField struct {
	name string
	spec string
}

// messageGroup pairs a parsed-but-not-yet-type-resolved Message with
// the raw field specs collected for it during the first pass.
type messageGroup struct {
	msg *Message
	raw []rawField
}

func parseText(text string) (*Registry, error) {
	reg := newRegistry()

	var groups []*messageGroup
	var cur *messageGroup
	var curNames map[string]struct{}

	for lineno, line := range strings.Split(text, "\n") {
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if fm := reField.FindStringSubmatch(line); fm != nil {
			if cur == nil {
				return nil, fmt.Errorf("%w: field definition outside of message at line %d", ErrParse, lineno+1)
			}
			name := fm[1]
			spec := strings.TrimSpace(fm[2])
			if _, dup := curNames[name]; dup {
				return nil, fmt.Errorf("%w: duplicate field name %q at line %d", ErrParse, name, lineno+1)
			}
			curNames[name] = struct{}{}
			cur.raw = append(cur.raw, rawField{name: name, spec: spec})
			continue
		}

		if hm := reMessageHeader.FindStringSubmatch(line); hm != nil {
			name := strings.TrimSpace(hm[1])
			version, err := parseVersion(hm[2], lineno)
			if err != nil {
				return nil, err
			}
			key := msgKey{name, version}
			if _, exists := reg.messages[key]; exists {
				return nil, fmt.Errorf("%w: duplicate message (%s, %d) at line %d", ErrParse, name, version, lineno+1)
			}
			m := &Message{registry: reg, name: name, version: version}
			reg.messages[key] = m
			g := &messageGroup{msg: m}
			groups = append(groups, g)
			cur = g
			curNames = make(map[string]struct{})
			continue
		}

		// A line that is neither a comment, blank, field, nor message
		// header is ignored rather than rejected.
	}

	// Second pass: resolve msg(...) references now that every message
	// header in the file has been registered, so forward references
	// within the file are valid.
	for _, g := range groups {
		fields := make([]Field, 0, len(g.raw))
		for _, rf := range g.raw {
			types, err := resolveTypespec(reg, rf.spec)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Name: rf.name, Spec: rf.spec, Types: types})
		}
		g.msg.fields = fields
	}

	return reg, nil
}

func parseVersion(s string, lineno int) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad message version %q at line %d", ErrParse, s, lineno+1)
	}
	return uint32(v), nil
}

// resolveTypespec splits a field's raw typespec on "or" and resolves
// each alternative against the (fully registered) registry.
func resolveTypespec(reg *Registry, spec string) ([]TypeAlt, error) {
	parts := reOr.Split(spec, -1)
	alts := make([]TypeAlt, 0, len(parts))
	for _, part := range parts {
		alt, err := resolveAlt(reg, strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
	}
	if len(alts) == 0 {
		return nil, fmt.Errorf("%w: empty type spec %q", ErrParse, spec)
	}
	return alts, nil
}

func resolveAlt(reg *Registry, part string) (TypeAlt, error) {
	isMany := false
	inner := part
	if m := reMany.FindStringSubmatch(part); m != nil {
		isMany = true
		inner = strings.TrimSpace(m[1])
	}

	if m := reMsgRef.FindStringSubmatch(inner); m != nil {
		name := strings.TrimSpace(m[1])
		version, err := strconv.ParseUint(m[2], 10, 32)
		if err != nil {
			return TypeAlt{}, fmt.Errorf("%w: bad message version %q", ErrParse, m[2])
		}
		v := uint32(version)
		if _, err := reg.Lookup(name, v); err != nil {
			return TypeAlt{}, fmt.Errorf("%w: unresolved referenced message msg(%s, %d)", ErrParse, name, v)
		}
		if isMany {
			return TypeAlt{Kind: AltMany, ManyIsMsg: true, MsgName: name, MsgVersion: v}, nil
		}
		return TypeAlt{Kind: AltMsgRef, MsgName: name, MsgVersion: v}, nil
	}

	prim, ok := primFromKeyword(inner)
	if !ok {
		return TypeAlt{}, fmt.Errorf("%w: unknown primitive type keyword %q", ErrParse, inner)
	}
	if isMany {
		return TypeAlt{Kind: AltMany, Prim: prim}, nil
	}
	return TypeAlt{Kind: AltPrim, Prim: prim}, nil
}
