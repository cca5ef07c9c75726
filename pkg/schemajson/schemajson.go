// Copyright (C) sendwire authors.
// All rights reserved. This file is part of sendwire.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package schemajson is an alternate schema source: a JSON descriptor
// (an array of message definitions) validated against an embedded
// meta-schema, then translated into the same textual grammar
// pkg/sendwire.Parse already accepts. It exists for hosts that receive
// schema definitions from a system that produces JSON rather than the
// line-oriented schema text, without pkg/sendwire itself needing to
// know JSON exists.
package schemajson

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sendwire/sendwire/pkg/sendwire"
	"github.com/sendwire/sendwire/pkg/sendwirelog"
)

// ErrDescriptorInvalid reports that a JSON document either does not
// conform to the descriptor meta-schema or is not valid JSON at all.
var ErrDescriptorInvalid = errors.New("[schemajson]> schema descriptor invalid")

//go:embed schemas/*
var schemaFiles embed.FS

func loadEmbedded(s string) (io.ReadCloser, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	// u.Host holds the first path segment ("schemas") for a
	// scheme://host/path URL; embed.FS requires a relative,
	// leading-slash-free path, so host and path are joined back
	// together rather than passing u.Path (which starts with "/")
	// straight to Open.
	return schemaFiles.Open(u.Host + u.Path)
}

func init() {
	jsonschema.Loaders["embedFS"] = loadEmbedded
}

type fieldDescriptor struct {
	Name string `json:"name"`
	Spec string `json:"spec"`
}

type messageDescriptor struct {
	Name    string            `json:"name"`
	Version uint32            `json:"version"`
	Fields  []fieldDescriptor `json:"fields"`
}

// Parse validates data against the embedded descriptor meta-schema,
// then builds a Registry equivalent to parsing the text grammar form
// of the same messages.
func Parse(data []byte) (*sendwire.Registry, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var descriptors []messageDescriptor
	if err := json.Unmarshal(data, &descriptors); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDescriptorInvalid, err)
	}

	var text bytes.Buffer
	for _, m := range descriptors {
		fmt.Fprintf(&text, "(%s, %d):\n", m.Name, m.Version)
		for _, f := range m.Fields {
			fmt.Fprintf(&text, "- %s: %s\n", f.Name, f.Spec)
		}
		text.WriteByte('\n')
	}

	sendwirelog.Debugf("schemajson: translated %d message descriptor(s) to schema text", len(descriptors))
	return sendwire.Parse(text.String())
}

func validate(data []byte) error {
	s, err := jsonschema.Compile("embedFS://schemas/descriptor.schema.json")
	if err != nil {
		return fmt.Errorf("[schemajson]> compile meta-schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrDescriptorInvalid, err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrDescriptorInvalid, err)
	}
	return nil
}
