package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/adminboot/internal/auth"
	"github.com/wolfeidau/adminboot/internal/store/file"
)

func testGlobals(t *testing.T) (*Globals, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	return &Globals{
		Store: StoreFlags{
			StoreType:       "file",
			CredentialsFile: filepath.Join(t.TempDir(), "app", "credentials.json"),
			BcryptCost:      4,
		},
		Stdout: &out,
	}, &out
}

func TestCreateCmd_Run(t *testing.T) {
	globals, out := testGlobals(t)

	cmd := &CreateCmd{Email: "  Admin@Example.COM ", Length: 12}
	err := cmd.Run(context.Background(), globals)
	require.NoError(t, err)

	lines := strings.Split(out.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "Admin account created successfully.", lines[0])
	assert.Equal(t, "Email: admin@example.com", lines[1])
	require.True(t, strings.HasPrefix(lines[2], "Password: "))

	password := strings.TrimPrefix(lines[2], "Password: ")
	assert.Len(t, password, 12)

	// The printed password must verify against the stored hash
	s, err := file.NewUserStore(globals.Store.CredentialsFile)
	require.NoError(t, err)

	user, err := s.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	require.NoError(t, auth.CheckPassword(password, user.PasswordHash))
}

func TestCreateCmd_SuppliedPassword(t *testing.T) {
	globals, out := testGlobals(t)

	cmd := &CreateCmd{Email: "admin@example.com", Password: "mypw123", Length: 12}
	require.NoError(t, cmd.Run(context.Background(), globals))
	assert.Contains(t, out.String(), "Password: mypw123\n")

	s, err := file.NewUserStore(globals.Store.CredentialsFile)
	require.NoError(t, err)

	user, err := s.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	require.NoError(t, auth.CheckPassword("mypw123", user.PasswordHash))
}

func TestCreateCmd_Duplicate(t *testing.T) {
	globals, out := testGlobals(t)

	cmd := &CreateCmd{Email: "admin@example.com", Length: 12}
	require.NoError(t, cmd.Run(context.Background(), globals))

	out.Reset()

	// Reported, not returned, so the process exits normally
	require.NoError(t, cmd.Run(context.Background(), globals))
	assert.True(t, strings.HasPrefix(out.String(), "Failed to create admin: User already exists\n"))
	assert.Contains(t, out.String(), "promote")
}

func TestCreateCmd_StoreOpenFailure(t *testing.T) {
	globals, _ := testGlobals(t)
	globals.Store.StoreType = "postgres"

	cmd := &CreateCmd{Email: "admin@example.com", Length: 12}
	err := cmd.Run(context.Background(), globals)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection string is required")
}

func TestCreateCmd_Prompt(t *testing.T) {
	origRead, origTerm := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = origRead, origTerm })

	t.Run("reads and confirms password", func(t *testing.T) {
		isTerminal = func(int) bool { return true }
		readPassword = func(int) ([]byte, error) { return []byte("typed-secret"), nil }

		globals, out := testGlobals(t)
		cmd := &CreateCmd{Email: "admin@example.com", Length: 12, Prompt: true}
		require.NoError(t, cmd.Run(context.Background(), globals))
		assert.Contains(t, out.String(), "Password: typed-secret\n")
	})

	t.Run("mismatch", func(t *testing.T) {
		isTerminal = func(int) bool { return true }
		answers := [][]byte{[]byte("one"), []byte("two")}
		readPassword = func(int) ([]byte, error) {
			a := answers[0]
			answers = answers[1:]
			return a, nil
		}

		globals, _ := testGlobals(t)
		cmd := &CreateCmd{Email: "admin@example.com", Prompt: true}
		err := cmd.Run(context.Background(), globals)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "do not match")
	})

	t.Run("requires terminal", func(t *testing.T) {
		isTerminal = func(int) bool { return false }

		globals, _ := testGlobals(t)
		cmd := &CreateCmd{Email: "admin@example.com", Prompt: true}
		err := cmd.Run(context.Background(), globals)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "interactive terminal")
	})

	t.Run("supplied password wins", func(t *testing.T) {
		isTerminal = func(int) bool { t.Fatal("terminal should not be touched"); return false }

		globals, out := testGlobals(t)
		cmd := &CreateCmd{Email: "admin@example.com", Password: "mypw123", Prompt: true}
		require.NoError(t, cmd.Run(context.Background(), globals))
		assert.Contains(t, out.String(), "Password: mypw123\n")
	})
}

func TestCLI_Parse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("create-admin"),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.BindTo(context.Background(), (*context.Context)(nil)))
	require.NoError(t, err)

	t.Run("defaults", func(t *testing.T) {
		cli = CLI{}
		kctx, err := parser.Parse([]string{})
		require.NoError(t, err)
		assert.Equal(t, "create", kctx.Command())
		assert.Equal(t, "admin@example.com", cli.Create.Email)
		assert.Empty(t, cli.Create.Password)
		assert.Equal(t, 12, cli.Create.Length)
		assert.Equal(t, "file", cli.Store.StoreType)
		assert.Equal(t, "app/credentials.json", cli.Store.CredentialsFile)
	})

	t.Run("short flags on default command", func(t *testing.T) {
		cli = CLI{}
		kctx, err := parser.Parse([]string{
			"--credentials-file", path, "--bcrypt-cost", "4",
			"-e", " Ops@Example.COM ", "-p", "mypw123",
		})
		require.NoError(t, err)
		assert.Equal(t, " Ops@Example.COM ", cli.Create.Email)
		assert.Equal(t, "mypw123", cli.Create.Password)

		var out bytes.Buffer
		globals := cli.Globals("test")
		globals.Stdout = &out

		require.NoError(t, kctx.Run(globals))
		assert.Contains(t, out.String(), "Email: ops@example.com\n")
		assert.Contains(t, out.String(), "Password: mypw123\n")
	})

	t.Run("rejects unknown store type", func(t *testing.T) {
		cli = CLI{}
		_, err := parser.Parse([]string{"--store-type", "mongo"})
		require.Error(t, err)
	})

	t.Run("postgres flags", func(t *testing.T) {
		cli = CLI{}
		_, err := parser.Parse([]string{
			"--store-type", "postgres",
			"--postgres-conn-string", "postgres://u:p@localhost/db",
			"--postgres-auto-migrate",
		})
		require.NoError(t, err)
		assert.Equal(t, "postgres://u:p@localhost/db", cli.Store.Postgres.ConnString)
		assert.True(t, cli.Store.Postgres.AutoMigrate)
	})
}

func TestStoreFlags_LoadConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "adminboot.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
store_type: sqlite
sqlite_path: /var/lib/app/users.db
bcrypt_cost: 10
postgres:
  conn_string: postgres://localhost/app
  auto_migrate: true
`), 0600))

		flags := StoreFlags{StoreType: "file", BcryptCost: 12}
		require.NoError(t, flags.loadConfigFile(path))
		assert.Equal(t, "sqlite", flags.StoreType)
		assert.Equal(t, "/var/lib/app/users.db", flags.SQLitePath)
		assert.Equal(t, 10, flags.BcryptCost)
		assert.Equal(t, "postgres://localhost/app", flags.Postgres.ConnString)
		assert.True(t, flags.Postgres.AutoMigrate)
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "adminboot.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"credentials_file": "/srv/app/credentials.json"}`), 0600))

		flags := StoreFlags{StoreType: "file", CredentialsFile: "app/credentials.json"}
		require.NoError(t, flags.loadConfigFile(path))
		assert.Equal(t, "file", flags.StoreType)
		assert.Equal(t, "/srv/app/credentials.json", flags.CredentialsFile)
	})

	t.Run("unknown store type", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("store_type: mongo\n"), 0600))

		flags := StoreFlags{}
		err := flags.loadConfigFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mongo")
	})

	t.Run("missing file", func(t *testing.T) {
		flags := StoreFlags{}
		require.Error(t, flags.loadConfigFile(filepath.Join(dir, "nope.yaml")))
	})
}
