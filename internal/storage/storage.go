package storage

import (
	"context"
	"iter"
)

// Service stores uploaded files directly beneath a single root directory.
type Service interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, u Upload) error
	LoadAll(ctx context.Context) (iter.Seq[string], error)
	Load(filename string) string
	LoadAsResource(ctx context.Context, filename string) (*Resource, error)
	DeleteAll(ctx context.Context) error
}
