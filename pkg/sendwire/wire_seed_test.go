package sendwire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// These cases reproduce the literal byte sequences named as seed
// scenarios for the writer/reader pair: every byte the wire format
// commits to is checked exactly, not just round-tripped.

func TestSeedNilAutoSkip(t *testing.T) {
	reg, err := Parse(`
(foo, 1):
- bar: str
- baz: str or nil
- qux: str or nil
`)
	require.NoError(t, err)
	m, err := reg.Lookup("foo", 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := m.Writer(&buf)
	_, err = w.Write("bar", Str("BAR"))
	require.NoError(t, err)
	_, err = w.Write("baz", Str("BAZ"))
	require.NoError(t, err)
	_, err = w.Write("qux", Str("QUX"))
	require.NoError(t, err)

	want := "MS\x00\x00\x00\x03fooI\x00\x00\x00\x01S\x00\x00\x00\x03BARS\x00\x00\x00\x03BAZS\x00\x00\x00\x03QUX"
	require.Equal(t, []byte(want), buf.Bytes())
}

func TestSeedNilAutoSkipOmittedField(t *testing.T) {
	reg, err := Parse(`
(foo, 1):
- bar: str
- baz: str or nil
- qux: str or nil
`)
	require.NoError(t, err)
	m, err := reg.Lookup("foo", 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := m.Writer(&buf)
	_, err = w.Write("bar", Str("BAR"))
	require.NoError(t, err)
	_, err = w.Write("qux", Str("QUX"))
	require.NoError(t, err)

	want := "MS\x00\x00\x00\x03fooI\x00\x00\x00\x01S\x00\x00\x00\x03BARNS\x00\x00\x00\x03QUX"
	require.Equal(t, []byte(want), buf.Bytes())
}

func TestSeedNestedMessage(t *testing.T) {
	reg, err := Parse(`
(foo, 1):
- bar: str
- baz: str

(baz, 1):
- foo: msg(foo, 1)
`)
	require.NoError(t, err)
	baz, err := reg.Lookup("baz", 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := baz.Writer(&buf)
	outcome, err := w.Write("foo", MsgUnspecified())
	require.NoError(t, err)
	require.Equal(t, OutcomeNested, outcome.Kind)

	sub := outcome.Writer
	_, err = sub.Write("bar", Str("hello"))
	require.NoError(t, err)
	_, err = sub.Write("baz", Str("world"))
	require.NoError(t, err)

	want := "MS\x00\x00\x00\x03bazI\x00\x00\x00\x01MS\x00\x00\x00\x03fooI\x00\x00\x00\x01S\x00\x00\x00\x05helloS\x00\x00\x00\x05world"
	require.Equal(t, []byte(want), buf.Bytes())
}

func TestSeedManyStr(t *testing.T) {
	reg, err := Parse(`
(foo, 1):
- a: many str
- b: str
`)
	require.NoError(t, err)
	m, err := reg.Lookup("foo", 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := m.Writer(&buf)
	_, err = w.Write("a", List(Str("hello"), Str("world")))
	require.NoError(t, err)
	_, err = w.Write("b", Str("goodbye"))
	require.NoError(t, err)

	want := "MS\x00\x00\x00\x03fooI\x00\x00\x00\x01L\x00\x00\x00\x02S\x00\x00\x00\x05helloS\x00\x00\x00\x05worldS\x00\x00\x00\x07goodbye"
	require.Equal(t, []byte(want), buf.Bytes())
}

func TestSeedManyStrEmpty(t *testing.T) {
	reg, err := Parse(`
(foo, 1):
- a: many str
- b: str
`)
	require.NoError(t, err)
	m, err := reg.Lookup("foo", 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := m.Writer(&buf)
	_, err = w.Write("a", List())
	require.NoError(t, err)
	_, err = w.Write("b", Str("goodbye"))
	require.NoError(t, err)

	want := "MS\x00\x00\x00\x03fooI\x00\x00\x00\x01L\x00\x00\x00\x00S\x00\x00\x00\x07goodbye"
	require.Equal(t, []byte(want), buf.Bytes())
}

func TestSeedBool(t *testing.T) {
	schema := "(foo, 1):\n- bar: bool\n"

	regTrue, err := Parse(schema)
	require.NoError(t, err)
	mTrue, err := regTrue.Lookup("foo", 1)
	require.NoError(t, err)
	var bufTrue bytes.Buffer
	_, err = mTrue.Writer(&bufTrue).Write("bar", Bool(true))
	require.NoError(t, err)
	require.Equal(t, []byte("MS\x00\x00\x00\x03fooI\x00\x00\x00\x01Bt"), bufTrue.Bytes())

	regFalse, err := Parse(schema)
	require.NoError(t, err)
	mFalse, err := regFalse.Lookup("foo", 1)
	require.NoError(t, err)
	var bufFalse bytes.Buffer
	_, err = mFalse.Writer(&bufFalse).Write("bar", Bool(false))
	require.NoError(t, err)
	require.Equal(t, []byte("MS\x00\x00\x00\x03fooI\x00\x00\x00\x01Bf"), bufFalse.Bytes())
}

func TestSeedReaderWrongMessage(t *testing.T) {
	reg, err := Parse(`
(foo, 1):
- bar: str

(bar, 1):
- bar: str
`)
	require.NoError(t, err)
	foo, err := reg.Lookup("foo", 1)
	require.NoError(t, err)
	bar, err := reg.Lookup("bar", 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = foo.Writer(&buf).Write("bar", Str("BAR"))
	require.NoError(t, err)

	r := bar.Reader(&buf)
	_, err = r.Read("bar")
	require.ErrorIs(t, err, ErrWrongMessage)
}
