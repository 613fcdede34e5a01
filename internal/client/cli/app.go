// Package cli implements the interactive AuthKeeper client: a small REPL
// for registering, logging in, and inspecting the current identity.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dpetrov/authkeeper/internal/client/api"
	"github.com/dpetrov/authkeeper/internal/client/config"
)

type App struct {
	config   *config.Config
	client   *api.Client
	reader   *bufio.Reader
	token    string
	userName string
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		client: api.NewClient(c.ServerBaseURL),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

func (a *App) Logout(ctx context.Context) {
	a.token = ""
	a.userName = ""
	fmt.Println("Logged out")
}
