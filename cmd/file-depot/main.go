package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/janiskelemen/file-depot/internal/api"
	"github.com/janiskelemen/file-depot/internal/scheduler"
	"github.com/janiskelemen/file-depot/internal/storage"
	"github.com/janiskelemen/file-depot/internal/util"
)

func main() {
	cfgPath := flag.String("config", "", "config file (optional, DEPOT_* env vars override it)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal().Err(err).Msg("load .env")
	}

	cfg, err := api.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	util.SetupLogging(cfg.Log.Level, cfg.Log.Pretty)

	stor, err := storage.NewFileSystem(cfg.Storage.Location)
	if err != nil {
		log.Fatal().Err(err).Msg("init storage")
	}
	if cfg.Storage.PurgeOnStart {
		if err := scheduler.RunPurge(context.Background(), stor); err != nil {
			log.Fatal().Err(err).Msg("purge on start")
		}
	}

	var backup api.JobFunc
	if cfg.Backup.Enabled {
		up, err := scheduler.NewS3Uploader(context.Background(), cfg.Backup.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("s3 client")
		}
		backup = scheduler.BackupJob(cfg.Backup.S3, stor, up)
	}

	sched := scheduler.New()
	if cfg.Purge.Enabled {
		var before func(context.Context) error
		if cfg.Purge.BackupFirst {
			before = backup
		}
		if err := sched.AddDaily("purge", cfg.Purge.Daily, scheduler.PurgeJob(stor, before)); err != nil {
			log.Fatal().Err(err).Msg("schedule purge")
		}
	}
	sched.Start()
	defer sched.Stop()

	srv := api.NewServer(cfg, stor, backup)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGTERM)
	<-sigC

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}
