package main

import (
	"context"
	"flag"
	"time"

	"movieshelf/proj/internal/config"
	"movieshelf/proj/internal/lib/logger"
	"movieshelf/proj/internal/storage/postgres"
	s3blob "movieshelf/proj/internal/storage/blob/s3"

	"github.com/joho/godotenv"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	flag.Parse()

	// Secrets (DB DSN, JWT secret, AWS credentials) come from the
	// environment; .env is a local-development convenience.
	_ = godotenv.Load()
	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, cfg.DB.Dsn); err != nil {
			panic(err)
		}
		log.Info("migrations applied")
	}
	storage, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		panic(err)
	}
	defer storage.Conn.Close()
	log.Info("database connection established")

	blobs, err := s3blob.New(ctx, s3blob.Config{
		Region:          cfg.S3.Region,
		Bucket:          cfg.S3.Bucket,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		Endpoint:        cfg.S3.Endpoint,
	})
	if err != nil {
		panic(err)
	}
	log.Info("blob storage initialized", "bucket", cfg.S3.Bucket, "region", cfg.S3.Region)

	app := NewApplication(cfg, log, storage, blobs)
	app.tasks.Run()
	if err := app.serve(); err != nil {
		log.Error("server stopped with error", "reason", err.Error())
	}
}
