package main

import (
	"log/slog"

	"movieshelf/proj/internal/api/tasks"
	"movieshelf/proj/internal/config"
	libvalidator "movieshelf/proj/internal/lib/validator"
	"movieshelf/proj/internal/services/auth"
	"movieshelf/proj/internal/services/movies"
	"movieshelf/proj/internal/services/uploads"
	"movieshelf/proj/internal/storage/blob"
	"movieshelf/proj/internal/storage/postgres"
	dbmodels "movieshelf/proj/internal/storage/postgres/models"

	govalidator "github.com/go-playground/validator/v10"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	movies    *movies.MovieService
	auth      *auth.AuthService
	uploads   *uploads.UploadService
	tasks     *tasks.BackgroundTasks
	validator *govalidator.Validate
}

func NewApplication(cfg *config.Config, log *slog.Logger, storage *postgres.Storage, blobs blob.Storage) *Application {
	models := dbmodels.New(storage)
	bgTasks := tasks.New(log, cfg.Tasks.MaxWorkers, cfg.Tasks.MaxQueueSize)
	cleaner := movies.NewCleaner(log, blobs, cfg.S3.Bucket, cfg.Images.LocalDirs)

	validate := govalidator.New(govalidator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("publishyear", libvalidator.ValidatePublishYear); err != nil {
		panic(err)
	}

	return &Application{
		cfg:       cfg,
		log:       log,
		validator: validate,
		movies:    movies.New(log, models.Movie, cleaner, bgTasks),
		auth:      auth.New(log, models.User, cfg.Auth.Secret, cfg.Auth.TokenTTL),
		uploads:   uploads.New(log, blobs),
		tasks:     bgTasks,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}
