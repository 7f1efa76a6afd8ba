package main

import (
	"context"
	"fmt"

	"github.com/maischool/eduflow/core/user"
)

// addUser creates a user.User through the registration service so the
// same validation rules apply as on the API.
func (cli *commandLine) addUser(uname, fullName, role, pwd string) error {
	usr, err := cli.usrSvc.Register(context.Background(), user.NewUser{
		Username: uname,
		Password: pwd,
		Role:     role,
		FullName: fullName,
	})
	if err != nil {
		return err
	}
	fmt.Printf("user %q created (id=%s, role=%s)\n", usr.Username, usr.ID, usr.Role)
	return nil
}
