package schemajson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseValidDescriptor(t *testing.T) {
	doc := []byte(`[
		{
			"name": "foo",
			"version": 1,
			"fields": [
				{"name": "bar", "spec": "str"},
				{"name": "baz", "spec": "str or nil"}
			]
		}
	]`)

	reg, err := Parse(doc)
	require.NoError(t, err)

	m, err := reg.Lookup("foo", 1)
	require.NoError(t, err)
	require.Len(t, m.Fields(), 2)
	require.Equal(t, "bar", m.Fields()[0].Name)
}

func TestParseCrossReferencingMessages(t *testing.T) {
	doc := []byte(`[
		{"name": "baz", "version": 1, "fields": [{"name": "foo", "spec": "msg(foo, 1)"}]},
		{"name": "foo", "version": 1, "fields": [{"name": "bar", "spec": "str"}]}
	]`)

	reg, err := Parse(doc)
	require.NoError(t, err)
	baz, err := reg.Lookup("baz", 1)
	require.NoError(t, err)
	require.Len(t, baz.Fields(), 1)
}

func TestParseRejectsMalformedDescriptor(t *testing.T) {
	_, err := Parse([]byte(`{"name": "not-an-array"}`))
	require.ErrorIs(t, err, ErrDescriptorInvalid)
}

func TestParseRejectsUnknownProperty(t *testing.T) {
	doc := []byte(`[{"name": "foo", "version": 1, "fields": [], "extra": true}]`)
	_, err := Parse(doc)
	require.ErrorIs(t, err, ErrDescriptorInvalid)
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	require.ErrorIs(t, err, ErrDescriptorInvalid)
}
