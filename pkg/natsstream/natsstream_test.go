package natsstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDialRejectsEmptyAddress(t *testing.T) {
	_, err := Dial(Config{})
	require.Error(t, err)
}

func TestWriterRejectsUseAfterConnClosed(t *testing.T) {
	conn := &Conn{closed: true}
	w := conn.Writer("subject.out")
	_, err := w.Write([]byte("x"))
	require.ErrorIs(t, err, ErrConnClosed)
}

func TestWriterCloseRejectsUseAfterConnClosed(t *testing.T) {
	conn := &Conn{closed: true}
	w := conn.Writer("subject.out")
	err := w.Close()
	require.ErrorIs(t, err, ErrConnClosed)
}

func TestReaderRejectsUseAfterConnClosed(t *testing.T) {
	conn := &Conn{closed: true}
	r := conn.Reader("subject.in")
	buf := make([]byte, 4)
	_, err := r.Read(buf)
	require.ErrorIs(t, err, ErrConnClosed)
}

func TestWriterCloseIsIdempotent(t *testing.T) {
	w := &subjectWriter{conn: &Conn{closed: true}, closed: true}
	require.NoError(t, w.Close())
}
