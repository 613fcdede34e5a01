package cli

import (
	"context"
	"fmt"
)

func (a *App) WhoAmI(ctx context.Context) {

	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return
	}

	user, err := a.client.Me(ctx, a.token)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Printf("You are %s <%s> (id %s)\n", user.Username, user.Email, user.ID)
}
