package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civictrack/civictrack/internal/shared/config"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func TestLocalStore_Store(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/media/", logger.NewNop())
	require.NoError(t, err)

	ref, err := store.Store(context.Background(), "complaints/c-1/photo-abc.jpg", jpegHeader)
	require.NoError(t, err)

	assert.Equal(t, "/media/complaints/c-1/photo-abc.jpg", ref)
	got, err := os.ReadFile(filepath.Join(root, "complaints", "c-1", "photo-abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, jpegHeader, got)

	_, err = os.Stat(filepath.Join(root, "complaints", "c-1", "photo-abc.jpg.part"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/media", logger.NewNop())
	require.NoError(t, err)

	for _, key := range []string{"../outside.jpg", "complaints/../../x.jpg", "", `complaints\c-1\a.jpg`} {
		_, err := store.Store(context.Background(), key, jpegHeader)
		assert.Error(t, err, key)
	}
}

func TestLocalStore_CancelledContext(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/media", logger.NewNop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Store(ctx, "complaints/c-1/photo.jpg", jpegHeader)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Store(t *testing.T) {
	client := &fakeS3{}
	store := newS3Store(client, "civic-media", "prod/", logger.NewNop())

	ref, err := store.Store(context.Background(), "complaints/c-1/resolution-xyz.jpg", jpegHeader)
	require.NoError(t, err)

	assert.Equal(t, "s3://civic-media/prod/complaints/c-1/resolution-xyz.jpg", ref)
	assert.Equal(t, "civic-media", aws.ToString(client.input.Bucket))
	assert.Equal(t, "prod/complaints/c-1/resolution-xyz.jpg", aws.ToString(client.input.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(client.input.ContentType))
	assert.Equal(t, jpegHeader, client.body)
}

func TestS3Store_PutFailure(t *testing.T) {
	store := newS3Store(&fakeS3{err: errors.New("AccessDenied")}, "civic-media", "", logger.NewNop())

	_, err := store.Store(context.Background(), "complaints/c-1/photo.jpg", jpegHeader)
	assert.ErrorContains(t, err, "AccessDenied")
}

func TestNew_Drivers(t *testing.T) {
	store, err := New(context.Background(), config.MediaConfig{Driver: "local", LocalDir: t.TempDir(), BaseURL: "/media"}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), config.MediaConfig{Driver: "ftp"}, logger.NewNop())
	assert.Error(t, err)

	_, err = New(context.Background(), config.MediaConfig{Driver: "s3"}, logger.NewNop())
	assert.Error(t, err, "bucket is required")
}
