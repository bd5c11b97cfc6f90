package service

import (
	"context"

	"github.com/shopmart/storefront/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is interface for interacting with user-related data
type UserRepository interface {
	// CreateUser inserts new user
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns user by login
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	// GetUserByID returns user by id
	GetUserByID(ctx context.Context, id uint64) (*models.User, error)
}

// UserService implements UserService interface
type UserService struct {
	repo UserRepository
}

// NewUserService creates new UserService instance
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates new customer account
func (us *UserService) Register(ctx context.Context, login, name, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Login:        login,
		Name:         name,
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
	}

	return us.repo.CreateUser(ctx, user)
}

// GetUser returns user by id
func (us *UserService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	return us.repo.GetUserByID(ctx, id)
}
