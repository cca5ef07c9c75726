package schemacatalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sendwire/sendwire/pkg/sendwire"
)

func TestCatalogRecordAndList(t *testing.T) {
	cat, err := Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer cat.Close()

	reg, err := sendwire.Parse(`
(foo, 1):
- bar: str
- baz: int

(foo, 2):
- bar: str
`)
	require.NoError(t, err)

	require.NoError(t, cat.Record(reg))

	entries, err := cat.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "foo", entries[0].Name)
	require.Equal(t, uint32(1), entries[0].Version)
	require.Equal(t, 2, entries[0].FieldCount)
	require.Equal(t, uint32(2), entries[1].Version)
	require.Equal(t, 1, entries[1].FieldCount)
}

func TestCatalogRecordUpsertsOnRepeat(t *testing.T) {
	cat, err := Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer cat.Close()

	reg1, err := sendwire.Parse("(foo, 1):\n- bar: str\n")
	require.NoError(t, err)
	require.NoError(t, cat.Record(reg1))

	reg2, err := sendwire.Parse("(foo, 1):\n- bar: str\n- baz: int\n")
	require.NoError(t, err)
	require.NoError(t, cat.Record(reg2))

	entries, err := cat.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 2, entries[0].FieldCount)
}

func TestCatalogClosedRejectsUse(t *testing.T) {
	cat, err := Open("sqlite3", ":memory:")
	require.NoError(t, err)
	require.NoError(t, cat.Close())

	reg, err := sendwire.Parse("(foo, 1):\n- bar: str\n")
	require.NoError(t, err)

	err = cat.Record(reg)
	require.ErrorIs(t, err, ErrCatalogClosed)

	_, err = cat.List()
	require.ErrorIs(t, err, ErrCatalogClosed)
}

func TestCatalogUnsupportedDriver(t *testing.T) {
	_, err := Open("postgres", "whatever")
	require.Error(t, err)
}
