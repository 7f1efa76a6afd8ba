package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/maischool/eduflow/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	const q = `
		SELECT id, username, full_name, role, password_hash, created_at
		FROM users
		WHERE username = $1`

	var usr user.User
	if err := repo.db.GetContext(ctx, &usr, q, username); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	return usr, nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	const q = `
		INSERT INTO users (username, password_hash, role, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, full_name, role, password_hash, created_at`

	var created user.User
	err := repo.db.GetContext(ctx, &created, q, usr.Username, string(usr.PasswordHash), usr.Role, usr.FullName)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return created, nil
}
