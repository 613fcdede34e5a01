package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dpetrov/authkeeper/internal/common"
)

func (a *App) Login(ctx context.Context) {

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

	resp, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		fmt.Println("Login failed:", err)
		return
	}

	a.token = resp.Token
	a.userName = resp.User.Username
	fmt.Printf("Logged in as %s\n", a.userName)
}
