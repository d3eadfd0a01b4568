package scheduler

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janiskelemen/file-depot/internal/api"
	"github.com/janiskelemen/file-depot/internal/storage"
)

type fakeUploader struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeUploader) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func newStore(t *testing.T, files map[string]string) *storage.FileSystem {
	t.Helper()
	st, err := storage.NewFileSystem(filepath.Join(t.TempDir(), "files"))
	require.NoError(t, err)
	for name, body := range files {
		require.NoError(t, st.Store(context.Background(), storage.NewBytesUpload(name, []byte(body))))
	}
	return st
}

func TestRunBackup(t *testing.T) {
	st := newStore(t, map[string]string{"a.txt": "alpha", "b.bin": "bravo"})
	up := &fakeUploader{}
	cfg := api.S3Config{Bucket: "depot", Prefix: "/nightly/"}

	key, err := RunBackup(context.Background(), cfg, st, up)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "nightly/files-"), key)
	assert.True(t, strings.HasSuffix(key, ".zip"), key)
	assert.Equal(t, "depot", *up.input.Bucket)
	assert.Equal(t, key, *up.input.Key)
	assert.EqualValues(t, len(up.body), *up.input.ContentLength)

	zr, err := zip.NewReader(bytes.NewReader(up.body), int64(len(up.body)))
	require.NoError(t, err)
	got := map[string]string{}
	var names []string
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		got[f.Name] = string(b)
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"a.txt", "b.bin"}, names)
	assert.Equal(t, "alpha", got["a.txt"])
	assert.Equal(t, "bravo", got["b.bin"])
}

func TestRunBackup_UploadError(t *testing.T) {
	st := newStore(t, map[string]string{"a.txt": "alpha"})
	boom := errors.New("access denied")

	_, err := RunBackup(context.Background(), api.S3Config{Bucket: "depot"}, st, &fakeUploader{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestRunBackup_MissingRoot(t *testing.T) {
	st := newStore(t, nil)
	require.NoError(t, os.RemoveAll(st.Root()))

	_, err := RunBackup(context.Background(), api.S3Config{Bucket: "depot"}, st, &fakeUploader{})
	assert.ErrorIs(t, err, storage.ErrRead)
}

func TestPurgeJob(t *testing.T) {
	ctx := context.Background()

	st := newStore(t, map[string]string{"a.txt": "alpha"})
	up := &fakeUploader{}
	require.NoError(t, PurgeJob(st, BackupJob(api.S3Config{Bucket: "depot"}, st, up))(ctx))
	assert.NotEmpty(t, up.body)
	seq, err := st.LoadAll(ctx)
	require.NoError(t, err)
	for name := range seq {
		t.Errorf("file %q survived purge", name)
	}

	st = newStore(t, map[string]string{"keep.txt": "k"})
	err = PurgeJob(st, BackupJob(api.S3Config{Bucket: "depot"}, st, &fakeUploader{err: errors.New("down")}))(ctx)
	require.Error(t, err)
	_, err = os.Stat(st.Load("keep.txt"))
	assert.NoError(t, err)
}

func TestRunPurge(t *testing.T) {
	st := newStore(t, map[string]string{"a": "1", "b": "2"})
	require.NoError(t, RunPurge(context.Background(), st))

	fi, err := os.Stat(st.Root())
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
	ents, err := os.ReadDir(st.Root())
	require.NoError(t, err)
	assert.Empty(t, ents)
}
