package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wolfeidau/adminboot/internal/bootstrap"
	"golang.org/x/term"
)

// Terminal access, swapped out in tests.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// CreateCmd creates an admin account and prints its credentials.
type CreateCmd struct {
	Email    string `short:"e" help:"Email address for the admin account" default:"admin@example.com"`
	Password string `short:"p" help:"Password for the admin account. If omitted a secure one is generated."`
	Length   int    `help:"Length of the generated password" default:"12"`
	Prompt   bool   `help:"Read the password from the terminal instead of generating one"`
}

func (c *CreateCmd) Run(ctx context.Context, globals *Globals) error {
	password := c.Password
	if password == "" && c.Prompt {
		var err error
		password, err = promptPassword(os.Stderr)
		if err != nil {
			return err
		}
	}

	reg, closeStore, err := openRegistry(ctx, globals)
	if err != nil {
		return err
	}
	defer closeStore()

	return bootstrap.Run(ctx, reg, bootstrap.Options{
		Email:    c.Email,
		Password: password,
		Length:   c.Length,
	}, globals.stdout())
}

// promptPassword reads a password twice from the controlling terminal.
func promptPassword(w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return "", errors.New("--prompt requires an interactive terminal")
	}

	fmt.Fprint(w, "Password: ")
	first, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(first) == 0 {
		return "", errors.New("password must not be empty")
	}

	fmt.Fprint(w, "Confirm password: ")
	second, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}

	return string(first), nil
}
