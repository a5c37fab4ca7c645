package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/wolfeidau/adminboot/internal/bootstrap"
	"github.com/wolfeidau/adminboot/internal/store"
)

// PromoteCmd grants admin to an existing user.
type PromoteCmd struct {
	Email string `arg:"" help:"Email of the user to promote"`
}

func (c *PromoteCmd) Run(ctx context.Context, globals *Globals) error {
	reg, closeStore, err := openRegistry(ctx, globals)
	if err != nil {
		return err
	}
	defer closeStore()

	email := bootstrap.NormalizeEmail(c.Email)

	user, err := reg.Promote(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("user %q not found\n\nRun 'create-admin list' to see existing users", email)
		}
		return fmt.Errorf("failed to promote user: %w", err)
	}

	fmt.Fprintf(globals.stdout(), "User %q is now an admin.\n", user.Email)
	return nil
}

// DeleteCmd removes a user record so the account can be recreated.
type DeleteCmd struct {
	Email string `arg:"" help:"Email of the user to delete"`
	Force bool   `help:"Skip confirmation" default:"false"`
}

func (c *DeleteCmd) Run(ctx context.Context, globals *Globals) error {
	reg, closeStore, err := openRegistry(ctx, globals)
	if err != nil {
		return err
	}
	defer closeStore()

	out := globals.stdout()
	email := bootstrap.NormalizeEmail(c.Email)

	if !c.Force {
		fmt.Fprintf(out, "Delete user %q? This cannot be undone. [y/N]: ", email)

		response, _ := bufio.NewReader(globals.stdin()).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := reg.Delete(ctx, email); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("user %q not found", email)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	fmt.Fprintf(out, "User %q deleted.\n", email)
	return nil
}

// ListCmd lists users in the credential store.
type ListCmd struct{}

func (c *ListCmd) Run(ctx context.Context, globals *Globals) error {
	reg, closeStore, err := openRegistry(ctx, globals)
	if err != nil {
		return err
	}
	defer closeStore()

	out := globals.stdout()

	all, err := reg.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(all) == 0 {
		fmt.Fprintln(out, "No users found.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To create an admin account:")
		fmt.Fprintln(out, "  create-admin --email <email>")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tROLE\tCREATED")

	for _, user := range all {
		fmt.Fprintf(w, "%s\t%s\t%s\n", user.Email, user.Role(), user.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return w.Flush()
}
