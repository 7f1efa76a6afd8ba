package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maischool/eduflow/core"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameExists     = errors.New("a user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		// GetUserByUsername returns ErrNotFound for an unknown username.
		GetUserByUsername(ctx context.Context, username string) (User, error)
		CreateUser(ctx context.Context, usr User) (User, error)
	}

	ServiceInterface interface {
		Authenticate(ctx context.Context, username, password string) (User, error)
		Register(ctx context.Context, nu NewUser) (User, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) Authenticate(ctx context.Context, username, password string) (User, error) {
	usr, err := svc.repo.GetUserByUsername(ctx, core.CleanString(username, true /* lower */))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err = usr.CheckPassword(password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

func (svc *service) Register(ctx context.Context, nu NewUser) (User, error) {
	uname := core.CleanString(nu.Username, true /* lower */)
	if !ValidRole(nu.Role) {
		return User{}, core.NewValidationError(
			errors.New("invalid role"),
			core.FieldError{Field: "role", Error: fmt.Sprintf("must be one of %v", AllRoles)},
		)
	}
	if _, err := svc.repo.GetUserByUsername(ctx, uname); err == nil {
		return User{}, core.NewValidationError(
			ErrUsernameExists,
			core.FieldError{Field: "username", Error: ErrUsernameExists.Error()},
		)
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	usr := User{
		Username:  uname,
		FullName:  core.CleanString(nu.FullName),
		Role:      nu.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}
