package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/wolfeidau/adminboot/cmd/create-admin/internal/commands"
	"github.com/wolfeidau/adminboot/internal/logger"
)

var (
	version = "dev"
	cli     commands.CLI
)

func main() {
	// Load .env before parsing so env-backed flags pick it up.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("create-admin"),
		kong.Description("Create an admin user for the application and print its credentials."),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	logger.Setup(cli.Debug)

	err := cmd.Run(cli.Globals(version))
	cmd.FatalIfErrorf(err)
}
