package models

import "movieshelf/proj/internal/storage/postgres"

type Models struct {
	Movie *MovieModel
	User  *UserModel
}

func New(db *postgres.Storage) *Models {
	return &Models{
		Movie: &MovieModel{db.Conn},
		User:  &UserModel{db.Conn},
	}
}
