package main

import (
	"context"
	"os"

	"github.com/dpetrov/authkeeper/internal/buildinfo"
	"github.com/dpetrov/authkeeper/internal/client/cli"
	"github.com/dpetrov/authkeeper/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	app.Run(ctx)
}
