// Package bootstrap creates the first admin account for an application.
//
// It normalizes the email, resolves a password (supplied or generated),
// hands both to a Registrar and prints the outcome. Hashing, uniqueness and
// persistence are the Registrar's job.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultEmail is used when no email is supplied.
const DefaultEmail = "admin@example.com"

// FailureReason classifies a failed registration.
type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonAlreadyExists
	ReasonInvalid
	ReasonUnavailable
)

func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonAlreadyExists:
		return "already_exists"
	case ReasonInvalid:
		return "invalid"
	case ReasonUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Result is the outcome of a registration attempt.
type Result struct {
	OK      bool
	Message string
	Reason  FailureReason
}

// Registrar registers user accounts.
//
// Expected failures are reported through Result. A non-nil error means the
// registrar itself broke and is not formatted for the user.
type Registrar interface {
	Register(ctx context.Context, email, password string, isAdmin bool) (Result, error)
}

// Options controls a bootstrap run.
type Options struct {
	Email    string
	Password string // used verbatim when non-empty
	Length   int    // generated password length, DefaultPasswordLength when zero
}

const (
	successBanner  = "Admin account created successfully."
	changeReminder = "Please log in to the application and change this password immediately."
	existsGuidance = "If the user already exists but is not an admin, you can either promote them " +
		"in the application's Admin Panel (or run 'create-admin promote <email>'), " +
		"or delete their record from the credential store and re-run this command."
)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Run registers an admin account and writes the outcome to out.
// A failed registration is reported on out and Run returns nil.
func Run(ctx context.Context, reg Registrar, opts Options, out io.Writer) error {
	email := NormalizeEmail(opts.Email)

	password := opts.Password
	if password == "" {
		length := opts.Length
		if length == 0 {
			length = DefaultPasswordLength
		}

		generated, err := GeneratePassword(length)
		if err != nil {
			return err
		}
		password = generated

		log.Debug().Int("length", length).Msg("generated admin password")
	}

	res, err := reg.Register(ctx, email, password, true)
	if err != nil {
		return fmt.Errorf("failed to register admin: %w", err)
	}

	if res.OK {
		log.Info().Str("email", email).Msg("admin account created")

		fmt.Fprintln(out, successBanner)
		fmt.Fprintf(out, "Email: %s\n", email)
		fmt.Fprintf(out, "Password: %s\n", password)
		fmt.Fprintln(out)
		fmt.Fprintln(out, changeReminder)
		return nil
	}

	log.Info().
		Str("email", email).
		Stringer("reason", res.Reason).
		Msg("admin account not created")

	fmt.Fprintf(out, "Failed to create admin: %s\n", res.Message)
	if isDuplicate(res) {
		fmt.Fprintln(out, existsGuidance)
	}

	return nil
}

// isDuplicate prefers the structured reason and falls back to the message
// for registrars that only report text.
func isDuplicate(res Result) bool {
	return res.Reason == ReasonAlreadyExists || strings.Contains(res.Message, "already exists")
}
