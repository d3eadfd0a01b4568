package storage

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, fh, err := req.FormFile("file")
	require.NoError(t, err)
	return fh
}

func TestMultipartUpload(t *testing.T) {
	u := NewMultipartUpload(multipartFile(t, "photo.jpg", []byte("jpeg bytes")))
	assert.Equal(t, "photo.jpg", u.Filename())
	assert.False(t, u.IsEmpty())

	rc, err := u.Open()
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), b)
}

func TestMultipartUpload_Empty(t *testing.T) {
	u := NewMultipartUpload(multipartFile(t, "empty.txt", nil))
	assert.True(t, u.IsEmpty())

	s := newTestFS(t)
	assert.ErrorIs(t, s.Store(context.Background(), u), ErrEmpty)
}
