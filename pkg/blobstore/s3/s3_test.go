package s3

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptyBucket(t *testing.T) {
	_, err := New(Config{})
	require.ErrorIs(t, err, ErrBlobStoreUnconfigured)
}

func TestNewBuildsClientForConfiguredBucket(t *testing.T) {
	store, err := New(Config{
		Endpoint:     "http://127.0.0.1:9000",
		Bucket:       "sendwire-blobs",
		AccessKey:    "test",
		SecretKey:    "test",
		Region:       "us-east-1",
		UsePathStyle: true,
	})
	require.NoError(t, err)
	require.NotNil(t, store)
	require.Equal(t, "sendwire-blobs", store.bucket)
}

func TestNilStoreSourceAndSinkReportUnconfigured(t *testing.T) {
	var store *Store
	_, err := store.Source(context.Background(), "key")
	require.ErrorIs(t, err, ErrBlobStoreUnconfigured)

	_, err = store.Sink(context.Background(), "key")
	require.ErrorIs(t, err, ErrBlobStoreUnconfigured)
}

func TestObjectSinkRejectsWriteAfterClose(t *testing.T) {
	sink := &objectSink{key: "k"}
	sink.closed = true
	_, err := sink.Write([]byte("x"))
	require.Error(t, err)
}
