package movies

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"movieshelf/proj/internal/domain/filters"
	"movieshelf/proj/internal/domain/models"
	"movieshelf/proj/internal/storage"
)

type MoviesStorage interface {
	Get(ctx context.Context, id int, ownerID int64) (*models.Movie, error)
	Insert(ctx context.Context, title string, publishYear int32, imageURL string, ownerID int64) (*models.Movie, error)
	List(ctx context.Context, ownerID int64, search string, yearSearch int32, f filters.MovieFilters) ([]models.Movie, int, error)
	ExistsDuplicate(ctx context.Context, ownerID int64, title string, publishYear int32, excludeID int) (bool, error)
	Update(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	Delete(ctx context.Context, id int, ownerID int64) error
}

// ImageCleaner removes the blob behind an image reference, best-effort.
type ImageCleaner interface {
	Remove(ctx context.Context, ref string)
}

type TaskExecutor interface {
	Add(task func())
}

type CreateMovieInput struct {
	Title       string
	PublishYear int32
	ImageURL    string
}

// UpdateMovieInput is a partial patch; nil fields are left untouched.
type UpdateMovieInput struct {
	Title       *string
	PublishYear *int32
	ImageURL    *string
}

type MovieService struct {
	log          *slog.Logger
	storage      MoviesStorage
	images       ImageCleaner
	taskExecutor TaskExecutor
}

func New(log *slog.Logger, storage MoviesStorage, images ImageCleaner, taskExecutor TaskExecutor) *MovieService {
	return &MovieService{
		log:          log,
		storage:      storage,
		images:       images,
		taskExecutor: taskExecutor,
	}
}

func (s *MovieService) Create(ctx context.Context, input CreateMovieInput, ownerID int64) (*models.Movie, error) {
	const op = "movies.MovieService.Create"
	log := s.log.With("op", op, "title", input.Title, "year", input.PublishYear, "owner", ownerID)

	// Fast-path check; the store's unique index is the authoritative guard
	// against racing writers.
	exists, err := s.storage.ExistsDuplicate(ctx, ownerID, input.Title, input.PublishYear, storage.EmptyIntValue)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if exists {
		log.Info("movie already exists")
		return nil, ErrMovieAlreadyExists
	}

	movie, err := s.storage.Insert(ctx, input.Title, input.PublishYear, input.ImageURL, ownerID)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("movie already exists")
			return nil, ErrMovieAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) List(ctx context.Context, f filters.MovieFilters, ownerID int64) ([]models.Movie, filters.Metadata, error) {
	const op = "movies.MovieService.List"
	log := s.log.With("op", op, "owner", ownerID)

	f.Normalize()
	yearSearch := int32(storage.EmptyIntValue)
	if f.Search != "" {
		if n, err := strconv.Atoi(f.Search); err == nil {
			yearSearch = int32(n)
		}
	}
	items, total, err := s.storage.List(ctx, ownerID, f.Search, yearSearch, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return items, filters.CalculateMetadata(total, f), nil
}

func (s *MovieService) Get(ctx context.Context, id int, ownerID int64) (*models.Movie, error) {
	const op = "movies.MovieService.Get"
	log := s.log.With("op", op, "id", id, "owner", ownerID)
	movie, err := s.storage.Get(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) Update(ctx context.Context, id int, input UpdateMovieInput, ownerID int64) (*models.Movie, error) {
	const op = "movies.MovieService.Update"
	log := s.log.With("op", op, "id", id, "owner", ownerID)

	movie, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	// The old blob is scheduled for deletion as soon as the new reference is
	// confirmed different; the removal is not rolled back if the write below
	// fails.
	if input.ImageURL != nil && *input.ImageURL != movie.ImageURL {
		oldRef := movie.ImageURL
		log.Info("image reference changed, scheduling old image removal", "old", oldRef, "new", *input.ImageURL)
		s.taskExecutor.Add(func() {
			s.images.Remove(context.WithoutCancel(ctx), oldRef)
		})
	}

	if input.Title != nil || input.PublishYear != nil {
		titleToCheck := movie.Title
		if input.Title != nil {
			titleToCheck = *input.Title
		}
		yearToCheck := movie.PublishYear
		if input.PublishYear != nil {
			yearToCheck = *input.PublishYear
		}
		exists, err := s.storage.ExistsDuplicate(ctx, ownerID, titleToCheck, yearToCheck, id)
		if err != nil {
			log.Error(err.Error())
			return nil, err
		}
		if exists {
			log.Info("movie already exists")
			return nil, ErrMovieAlreadyExists
		}
	}

	if input.Title != nil {
		movie.Title = *input.Title
	}
	if input.PublishYear != nil {
		movie.PublishYear = *input.PublishYear
	}
	if input.ImageURL != nil {
		movie.ImageURL = *input.ImageURL
	}

	updatedMovie, err := s.storage.Update(ctx, movie)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("movie already exists")
			return nil, ErrMovieAlreadyExists
		case errors.Is(err, storage.ErrNotFound):
			// Deleted between check and write; treated as a hard miss.
			log.Info("movie disappeared before update")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updatedMovie, nil
}

func (s *MovieService) Remove(ctx context.Context, id int, ownerID int64) error {
	const op = "movies.MovieService.Remove"
	log := s.log.With("op", op, "id", id, "owner", ownerID)

	movie, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return ErrMovieNotFound
		}
		log.Error(err.Error())
		return err
	}
	ref := movie.ImageURL
	s.taskExecutor.Add(func() {
		s.images.Remove(context.WithoutCancel(ctx), ref)
	})
	return nil
}
