package cli

import (
	"context"
	"fmt"
)

func (a *App) Users(ctx context.Context) {

	users, err := a.client.Users(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	if len(users) == 0 {
		fmt.Println("No users registered yet")
		return
	}

	for _, u := range users {
		fmt.Printf("%s <%s>\n", u.Username, u.Email)
	}
}
