package user

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// RepositoryMock is an in-memory Repository for tests.
type RepositoryMock struct {
	mu    sync.Mutex
	Users map[string]User // by username
}

var _ Repository = (*RepositoryMock)(nil)

func NewRepositoryMock() *RepositoryMock {
	return &RepositoryMock{Users: make(map[string]User)}
}

func (repo *RepositoryMock) GetUserByUsername(_ context.Context, username string) (User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	usr, ok := repo.Users[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return usr, nil
}

func (repo *RepositoryMock) CreateUser(_ context.Context, usr User) (User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	usr.ID = uuid.New().String()
	repo.Users[usr.Username] = usr
	return usr, nil
}
