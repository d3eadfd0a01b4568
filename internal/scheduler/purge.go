package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/janiskelemen/file-depot/internal/storage"
)

// RunPurge deletes every stored file and recreates the empty root.
func RunPurge(ctx context.Context, st storage.Service) error {
	if err := st.DeleteAll(ctx); err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	if err := st.Init(ctx); err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	log.Warn().Msg("storage purged")
	return nil
}

// PurgeJob returns the scheduled purge. With backup set, a failed backup
// skips that day's purge.
func PurgeJob(st storage.Service, backup func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		if backup != nil {
			if err := backup(ctx); err != nil {
				return fmt.Errorf("backup before purge: %w", err)
			}
		}
		return RunPurge(ctx, st)
	}
}
