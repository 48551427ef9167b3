// Package main is the entry point for the dataset importer. It loads a
// restaurant CSV dataset from a local file or S3-compatible object
// storage into Postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tablescout/tablescout/internal/config"
	"github.com/tablescout/tablescout/internal/db"
	"github.com/tablescout/tablescout/internal/importer"
	"github.com/tablescout/tablescout/internal/middleware"
	"github.com/tablescout/tablescout/internal/restaurant"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file (optional)")
	filePath := flag.String("file", "", "local CSV dataset file")
	objectKey := flag.String("object", "", "S3 object key of the CSV dataset")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall import timeout")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("TableScout Dataset Importer")
		fmt.Println()
		fmt.Println("Usage: importer -file dataset.csv")
		fmt.Println("       importer -object datasets/restaurants.csv")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configFile)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "config error:", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	if (*filePath == "") == (*objectKey == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -file or -object is required")
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required for the importer")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	var source importer.Source
	if *filePath != "" {
		source = &importer.FileSource{Path: *filePath}
	} else {
		source, err = importer.NewS3Source(importer.S3Config{
			Bucket:          cfg.DatasetBucket,
			Key:             *objectKey,
			AccessKeyID:     cfg.DatasetAccessKeyID,
			SecretAccessKey: cfg.DatasetSecretAccessKey,
			Endpoint:        cfg.DatasetEndpoint,
			Region:          cfg.DatasetRegion,
		})
		if err != nil {
			logger.Error("invalid dataset source config", "error", err)
			os.Exit(1)
		}
	}

	rc, err := source.Open(ctx)
	if err != nil {
		logger.Error("failed to open dataset", "error", err)
		os.Exit(1)
	}
	defer rc.Close()

	store := restaurant.NewPostgresStore(sqlDB, logger)
	res, err := importer.New(store, logger).Import(ctx, rc)
	if err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}

	logger.Info("import complete", "imported", res.Imported, "skipped", res.Skipped)
}
