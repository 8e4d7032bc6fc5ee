package core

import (
	"github.com/jmoiron/sqlx"
)

type UserStorer interface {
	Find(id string) (*User, error)
	FindByEmail(email string) (*User, error)
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Find(id string) (*User, error) {
	user := &User{}

	err := r.db.Get(user, `SELECT * FROM users WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) FindByEmail(email string) (*User, error) {
	user := &User{}

	err := r.db.Get(user, `SELECT * FROM users WHERE lower(email) = lower($1) LIMIT 1`, email)
	if err != nil {
		return nil, err
	}

	return user, nil
}
