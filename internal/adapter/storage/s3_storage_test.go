package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryS3 keeps objects in a map keyed by bucket/key
type memoryS3 struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

func newMemoryS3() *memoryS3 {
	return &memoryS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func objectID(bucket, key *string) string {
	return aws.ToString(bucket) + "/" + aws.ToString(key)
}

func (m *memoryS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := objectID(in.Bucket, in.Key)
	m.objects[id] = body
	m.contentTypes[id] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (m *memoryS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.objects[objectID(in.Bucket, in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (m *memoryS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectID(in.Bucket, in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (m *memoryS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[objectID(in.Bucket, in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3FileStorage_RoundTrip(t *testing.T) {
	client := newMemoryS3()
	s := NewS3FileStorageWithClient(client, "avatars-bucket", "/prod/")
	ctx := context.Background()

	png := append([]byte("\x89PNG\r\n\x1a\n"), 0, 0, 0, 0)
	require.NoError(t, s.WriteFile(ctx, "avatars/u1/a.png", png))

	id := "avatars-bucket/prod/avatars/u1/a.png"
	assert.Equal(t, png, client.objects[id])
	assert.Equal(t, "image/png", client.contentTypes[id])

	exists, err := s.Exists(ctx, "avatars/u1/a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	content, err := s.ReadFile(ctx, "avatars/u1/a.png")
	require.NoError(t, err)
	assert.Equal(t, png, content)

	require.NoError(t, s.Delete(ctx, "avatars/u1/a.png"))
	exists, err = s.Exists(ctx, "avatars/u1/a.png")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.ReadFile(ctx, "avatars/u1/a.png")
	assert.Error(t, err)
}

func TestS3FileStorage_Keys(t *testing.T) {
	withPrefix := NewS3FileStorageWithClient(newMemoryS3(), "b", "prod")
	assert.Equal(t, "prod/avatars/x.png", withPrefix.GetFullPath("avatars/x.png"))

	bare := NewS3FileStorageWithClient(newMemoryS3(), "b", "")
	assert.Equal(t, "avatars/x.png", bare.GetFullPath("avatars/x.png"))

	assert.Error(t, bare.WriteFile(context.Background(), "../x.png", []byte("x")))
}
