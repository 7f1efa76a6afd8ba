package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maischool/eduflow/core"
)

func Test_service_Register(t *testing.T) {
	ctx := context.Background()
	repo := NewRepositoryMock()
	svc := NewService(repo)

	usr, err := svc.Register(ctx, NewUser{
		Username: "  JDoe ",
		Password: "s3cr3t",
		Role:     RoleTeacher,
		FullName: "John Doe",
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, "jdoe", usr.Username, "username is normalized")
	assert.Equal(t, "John Doe", usr.FullName)
	assert.Equal(t, RoleTeacher, usr.Role)
	assert.NoError(t, usr.CheckPassword("s3cr3t"))
	assert.Error(t, usr.CheckPassword("wrong"))

	// duplicate username
	_, err = svc.Register(ctx, NewUser{Username: "jdoe", Password: "x", Role: RoleAdmin, FullName: "Other"})
	var vErr *core.ValidationError
	if assert.ErrorAs(t, err, &vErr) {
		assert.ErrorIs(t, vErr.Err, ErrUsernameExists)
	}

	// invalid role
	_, err = svc.Register(ctx, NewUser{Username: "new", Password: "x", Role: "wizard", FullName: "New"})
	assert.ErrorAs(t, err, &vErr)
}

func Test_service_Authenticate(t *testing.T) {
	ctx := context.Background()
	repo := NewRepositoryMock()
	svc := NewService(repo)

	if _, err := svc.Register(ctx, NewUser{Username: "jdoe", Password: "s3cr3t", Role: RoleAdmin, FullName: "John Doe"}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "ok", username: "jdoe", password: "s3cr3t"},
		{name: "username is case-insensitive", username: " JDOE ", password: "s3cr3t"},
		{name: "wrong password", username: "jdoe", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "ghost", password: "s3cr3t", wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() failed: %v", err)
			}
			assert.Equal(t, "jdoe", usr.Username)
		})
	}
}
