package models

import (
	"context"
	"errors"

	"movieshelf/proj/internal/domain/filters"
	"movieshelf/proj/internal/domain/models"
	"movieshelf/proj/internal/storage"
	"movieshelf/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MovieModel persists movies. Every query conjoins the owner id into the
// filter so that a movie owned by another user is indistinguishable from a
// missing one.
type MovieModel struct {
	DB *pgxpool.Pool
}

func (m *MovieModel) Get(ctx context.Context, id int, ownerID int64) (*models.Movie, error) {
	rows, err := m.DB.Query(
		ctx,
		`SELECT id, title, publish_year, image_url, created_by, created_at, updated_at
		FROM movies WHERE id = $1 AND created_by = $2`,
		id, ownerID,
	)
	if err != nil {
		return nil, err
	}
	movie, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &movie, nil
}

func (m *MovieModel) Insert(ctx context.Context, title string, publishYear int32, imageURL string, ownerID int64) (*models.Movie, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO movies (title, publish_year, image_url, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, publish_year, image_url, created_by, created_at, updated_at`,
		title, publishYear, imageURL, ownerID,
	)
	movie, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &movie, nil
}

// List returns the owner's movies newest first, plus the pre-pagination
// total. yearSearch carries the parsed numeric search or
// storage.EmptyIntValue when the search string is not a number.
func (m *MovieModel) List(ctx context.Context, ownerID int64, search string, yearSearch int32, f filters.MovieFilters) ([]models.Movie, int, error) {
	query := `
	SELECT count(*) OVER(), id, title, publish_year, image_url, created_by, created_at, updated_at
	FROM movies
	WHERE created_by = $1
	AND ($2 = '' OR title ILIKE '%' || $2 || '%' OR publish_year = $3)
	ORDER BY created_at DESC, id DESC
	LIMIT $4 OFFSET $5`
	rows, _ := m.DB.Query(ctx, query, ownerID, search, yearSearch, f.Limit, f.Offset())
	type row struct {
		Count int
		models.Movie
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	if len(outputRows) == 0 {
		return []models.Movie{}, 0, nil
	}
	movies := make([]models.Movie, 0, len(outputRows))
	for _, r := range outputRows {
		movies = append(movies, r.Movie)
	}
	return movies, outputRows[0].Count, nil
}

// ExistsDuplicate reports whether the owner already has another movie with
// the same title and publish year. Pass storage.EmptyIntValue as excludeID
// when there is no record to exclude.
func (m *MovieModel) ExistsDuplicate(ctx context.Context, ownerID int64, title string, publishYear int32, excludeID int) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(
		ctx,
		`SELECT EXISTS (
			SELECT 1 FROM movies
			WHERE created_by = $1 AND title = $2 AND publish_year = $3 AND id <> $4
		)`,
		ownerID, title, publishYear, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (m *MovieModel) Update(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE movies SET title = $1, publish_year = $2, image_url = $3, updated_at = now()
		WHERE id = $4 AND created_by = $5
		RETURNING id, title, publish_year, image_url, created_by, created_at, updated_at`,
		movie.Title, movie.PublishYear, movie.ImageURL, movie.ID, movie.CreatedBy,
	)
	updatedMovie, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		var pgxErr *pgconn.PgError
		switch {
		case errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode:
			return nil, storage.ErrConflict
		case errors.Is(err, pgx.ErrNoRows):
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &updatedMovie, nil
}

func (m *MovieModel) Delete(ctx context.Context, id int, ownerID int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM movies WHERE id = $1 AND created_by = $2", id, ownerID)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
