package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dpetrov/authkeeper/internal/common"
)

func (a *App) Register(ctx context.Context) {

	username, err := GetSimpleText(a.reader, "Enter username: ", os.Stdout)
	if err != nil {
		fmt.Println("Error reading username:", err)
		return
	}

	email, err := GetSimpleText(a.reader, "Enter email: ", os.Stdout)
	if err != nil {
		fmt.Println("Error reading email:", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println("Error reading password:", err)
		return
	}
	defer common.WipeByteArray(password)

	resp, err := a.client.Register(ctx, username, email, string(password))
	if err != nil {
		fmt.Println("Registration failed:", err)
		return
	}

	a.token = resp.Token
	a.userName = resp.User.Username
	fmt.Printf("Registered and logged in as %s\n", a.userName)
}
