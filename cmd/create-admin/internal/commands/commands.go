package commands

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
)

// CLI is the create-admin command line.
type CLI struct {
	Debug   bool             `help:"Enable debug logging." env:"ADMINBOOT_DEBUG"`
	Version kong.VersionFlag `help:"Print version and exit."`
	Config  string           `help:"YAML/JSON config file with store settings" env:"ADMINBOOT_CONFIG"`
	Store   StoreFlags       `embed:""`

	Create  CreateCmd  `cmd:"" default:"withargs" help:"Create an admin account (default command)"`
	Promote PromoteCmd `cmd:"" help:"Grant admin to an existing user"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a user from the credential store"`
	List    ListCmd    `cmd:"" help:"List users in the credential store"`
}

// Globals returns the shared state handed to every command.
func (c *CLI) Globals(version string) *Globals {
	return &Globals{
		Debug:   c.Debug,
		Version: version,
		Config:  c.Config,
		Store:   c.Store,
	}
}

type Globals struct {
	Debug   bool
	Version string
	Config  string
	Store   StoreFlags

	// Stdout and Stdin default to the process streams when nil.
	Stdout io.Writer
	Stdin  io.Reader
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Globals) stdin() io.Reader {
	if g.Stdin == nil {
		return os.Stdin
	}
	return g.Stdin
}
