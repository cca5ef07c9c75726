package sendwire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleMessage(t *testing.T) {
	reg, err := Parse(`
(foo, 1):
- bar: str
- baz: str or nil
- qux: str or nil
`)
	require.NoError(t, err)

	m, err := reg.Lookup("foo", 1)
	require.NoError(t, err)
	assert.Equal(t, "foo", m.Name())
	assert.Equal(t, uint32(1), m.Version())
	require.Len(t, m.Fields(), 3)
	assert.Equal(t, "bar", m.Fields()[0].Name)
	assert.True(t, m.Fields()[1].acceptsNil())
	assert.True(t, m.Fields()[2].acceptsNil())
	assert.False(t, m.Fields()[0].acceptsNil())
}

func TestParseForwardReference(t *testing.T) {
	// (baz, 1) refers to (foo, 1), declared after it in the file. The
	// spec requires this to resolve; the original sendlib.py does not
	// support it, since it resolves msg(...) references eagerly during
	// parsing rather than in a second pass.
	reg, err := Parse(`
(baz, 1):
- foo: msg(foo, 1)

(foo, 1):
- bar: str
- baz: str
`)
	require.NoError(t, err)

	baz, err := reg.Lookup("baz", 1)
	require.NoError(t, err)
	require.Len(t, baz.Fields(), 1)
	alts := baz.Fields()[0].messageAlts()
	require.Len(t, alts, 1)
	assert.Equal(t, "foo", alts[0].MsgName)
	assert.Equal(t, uint32(1), alts[0].MsgVersion)
}

func TestParseUnresolvedReferenceFails(t *testing.T) {
	_, err := Parse(`
(baz, 1):
- foo: msg(missing, 1)
`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseMany(t *testing.T) {
	reg, err := Parse(`
(foo, 1):
- a: many str
- b: str
`)
	require.NoError(t, err)
	m, err := reg.Lookup("foo", 1)
	require.NoError(t, err)
	alt, ok := m.Fields()[0].manyAlt()
	require.True(t, ok)
	assert.Equal(t, PrimStr, alt.Prim)
	assert.False(t, alt.ManyIsMsg)
}

func TestParseManyMsg(t *testing.T) {
	reg, err := Parse(`
(item, 1):
- name: str

(bag, 1):
- items: many msg(item, 1)
`)
	require.NoError(t, err)
	bag, err := reg.Lookup("bag", 1)
	require.NoError(t, err)
	alt, ok := bag.Fields()[0].manyAlt()
	require.True(t, ok)
	assert.True(t, alt.ManyIsMsg)
	assert.Equal(t, "item", alt.MsgName)
}

func TestParseDuplicateFieldFails(t *testing.T) {
	_, err := Parse(`
(foo, 1):
- bar: str
- bar: int
`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseDuplicateMessageFails(t *testing.T) {
	_, err := Parse(`
(foo, 1):
- bar: str

(foo, 1):
- baz: str
`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseFieldOutsideMessageFails(t *testing.T) {
	_, err := Parse(`- bar: str`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseCommentsAndBlankLinesIgnored(t *testing.T) {
	reg, err := Parse(`
# a comment before anything
(foo, 1):  # trailing comment on header
	# indented comment
- bar: str  # trailing comment on field

`)
	require.NoError(t, err)
	m, err := reg.Lookup("foo", 1)
	require.NoError(t, err)
	require.Len(t, m.Fields(), 1)
}

func TestParseFromReader(t *testing.T) {
	reg, err := Parse(strings.NewReader("(foo, 1):\n- bar: str\n"))
	require.NoError(t, err)
	_, err = reg.Lookup("foo", 1)
	require.NoError(t, err)
}

func TestParseInvalidSchemaType(t *testing.T) {
	_, err := Parse(42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestRegistryGetDefaultsToVersion1(t *testing.T) {
	reg, err := Parse("(foo, 1):\n- bar: str\n")
	require.NoError(t, err)
	m, ok := reg.Get("foo")
	require.True(t, ok)
	assert.Equal(t, uint32(1), m.Version())

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestRegistryMessagesSorted(t *testing.T) {
	reg, err := Parse(`
(zeta, 2):
- a: str

(zeta, 1):
- a: str

(alpha, 1):
- a: str
`)
	require.NoError(t, err)
	msgs := reg.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "alpha", msgs[0].Name())
	assert.Equal(t, "zeta", msgs[1].Name())
	assert.Equal(t, uint32(1), msgs[1].Version())
	assert.Equal(t, uint32(2), msgs[2].Version())
}
