package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"vodpress/internal/config"
	"vodpress/internal/daemon"
	"vodpress/internal/encoder"
	"vodpress/internal/joblog"
	"vodpress/internal/logging"
	"vodpress/internal/notify"
	"vodpress/internal/objectstore"
	"vodpress/internal/pipeline"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := objectstore.New(cfg.Storage)
	if err != nil {
		logger.Error("connect object store", logging.Error(err))
		return
	}

	publisher := notify.NewPublisher(cfg.Notify)
	defer publisher.Close() //nolint:errcheck

	enc, err := encoder.New(cfg.FFmpeg.Binary, cfg.FFmpeg.TranscodeTimeout, cfg.FFmpeg.ThumbnailTimeout)
	if err != nil {
		logger.Error("init encoder", logging.Error(err))
		return
	}

	ledger, err := joblog.Open(cfg)
	if err != nil {
		logger.Error("open job ledger", logging.Error(err))
		return
	}
	defer ledger.Close() //nolint:errcheck

	runner := pipeline.NewRunner(cfg, store, publisher, enc, ledger, logger)

	d, err := daemon.New(cfg, runner, ledger, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return
	}

	logger.Info("vodpressd ready",
		logging.String("source_bucket", cfg.Storage.SourceBucket),
		logging.String("destination_bucket", cfg.Storage.DestinationBucket),
		logging.String("project_id", cfg.Notify.ProjectID),
		logging.String("location", cfg.Notify.Location),
	)

	<-ctx.Done()
	logger.Info("vodpressd shutting down")
}
