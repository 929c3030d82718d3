package models

import (
	"context"
	"errors"

	"movieshelf/proj/internal/domain/models"
	"movieshelf/proj/internal/storage"
	"movieshelf/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserModel struct {
	DB *pgxpool.Pool
}

const userColumns = `id, COALESCE(email, '') AS email, COALESCE(username, '') AS username, password_hash, created_at`

func (m *UserModel) Insert(ctx context.Context, email, username string, passwordHash []byte) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO users (email, username, password_hash)
		VALUES (NULLIF($1, ''), NULLIF($2, ''), $3)
		RETURNING `+userColumns,
		email, username, passwordHash,
	)
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &user, nil
}

// GetByIdentity looks a user up by whichever identity fields are non-empty,
// with OR semantics across them.
func (m *UserModel) GetByIdentity(ctx context.Context, email, username string) (*models.User, error) {
	rows, err := m.DB.Query(
		ctx,
		`SELECT `+userColumns+` FROM users
		WHERE (email = $1 AND $1 <> '') OR (username = $2 AND $2 <> '')`,
		email, username,
	)
	if err != nil {
		return nil, err
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (m *UserModel) GetByID(ctx context.Context, id int64) (*models.User, error) {
	rows, err := m.DB.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
