package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopmart/storefront/internal/models"
	"github.com/shopmart/storefront/internal/repository/postgres"
)

const (
	insertUserQuery = `
						INSERT INTO users (login, name, password_hash, role)
						VALUES ($1, $2, $3, $4)
						RETURNING id, login, name, password_hash, role, created_at
`
	selectUserByLoginQuery = `
						SELECT id, login, name, password_hash, role, created_at FROM users
						WHERE login = $1
`
	selectUserByIDQuery = `
						SELECT id, login, name, password_hash, role, created_at FROM users
						WHERE id = $1
`
)

// UserRepository implements UserRepository interface
type UserRepository struct {
	db *postgres.DB
}

// NewUserRepository creates new UserRepository instance
func NewUserRepository(db *postgres.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts new user to database
func (ur *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	err := ur.db.QueryRow(ctx, insertUserQuery, user.Login, user.Name, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.Login, &user.Name, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errCode := ur.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return user, nil
}

// GetUserByLogin returns user by login
func (ur *UserRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	user := models.User{}
	err := ur.db.QueryRow(ctx, selectUserByLoginQuery, login).
		Scan(&user.ID, &user.Login, &user.Name, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetUserByID returns user by id
func (ur *UserRepository) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	user := models.User{}
	err := ur.db.QueryRow(ctx, selectUserByIDQuery, id).
		Scan(&user.ID, &user.Login, &user.Name, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}
