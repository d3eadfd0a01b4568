package storage

import (
	"bytes"
	"io"
	"mime/multipart"
)

// Upload is a file handed to Service.Store.
type Upload interface {
	Filename() string
	IsEmpty() bool
	Open() (io.ReadCloser, error)
}

// MultipartUpload adapts a parsed multipart form file.
type MultipartUpload struct{ fh *multipart.FileHeader }

func NewMultipartUpload(fh *multipart.FileHeader) MultipartUpload {
	return MultipartUpload{fh: fh}
}

func (u MultipartUpload) Filename() string { return u.fh.Filename }

func (u MultipartUpload) IsEmpty() bool { return u.fh.Size == 0 }

func (u MultipartUpload) Open() (io.ReadCloser, error) { return u.fh.Open() }

// BytesUpload is an in-memory upload.
type BytesUpload struct {
	Name string
	Data []byte
}

func NewBytesUpload(name string, data []byte) BytesUpload {
	return BytesUpload{Name: name, Data: data}
}

func (u BytesUpload) Filename() string { return u.Name }

func (u BytesUpload) IsEmpty() bool { return len(u.Data) == 0 }

func (u BytesUpload) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(u.Data)), nil
}
