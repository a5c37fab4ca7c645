package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/adminboot/internal/store"
	"github.com/wolfeidau/adminboot/internal/store/file"
	"github.com/wolfeidau/adminboot/internal/store/memory"
	"github.com/wolfeidau/adminboot/internal/store/postgres"
	"github.com/wolfeidau/adminboot/internal/store/sqlite"
	"github.com/wolfeidau/adminboot/internal/users"
	"gopkg.in/yaml.v3"
)

// StoreFlags selects and configures the credential store.
type StoreFlags struct {
	StoreType       string             `help:"credential store type (file, memory, postgres or sqlite)" default:"file" env:"ADMINBOOT_STORE_TYPE" enum:"file,memory,postgres,sqlite"`
	CredentialsFile string             `help:"JSON credentials file used by the file store" default:"app/credentials.json" env:"ADMINBOOT_CREDENTIALS_FILE"`
	SQLitePath      string             `name:"sqlite-path" help:"database file used by the sqlite store" default:"app/credentials.db" env:"ADMINBOOT_SQLITE_PATH"`
	BcryptCost      int                `help:"bcrypt cost for new passwords" default:"12" env:"ADMINBOOT_BCRYPT_COST"`
	Postgres        PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

type PostgresStoreFlags struct {
	ConnString     string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`
	AutoMigrate    bool   `help:"run database migrations before use" default:"false" env:"ADMINBOOT_POSTGRES_AUTO_MIGRATE"`
	ConnectTimeout int32  `help:"connection attempt timeout in seconds" default:"10"`
	PingTimeout    int32  `help:"seconds to wait for the database to become reachable" default:"30"`
}

func (s *PostgresStoreFlags) Validate() error {
	if s.ConnString == "" {
		return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
	}
	return nil
}

// FileConfig is the layout of the --config file.
type FileConfig struct {
	StoreType       string `yaml:"store_type" json:"store_type"`
	CredentialsFile string `yaml:"credentials_file" json:"credentials_file"`
	SQLitePath      string `yaml:"sqlite_path" json:"sqlite_path"`
	BcryptCost      int    `yaml:"bcrypt_cost" json:"bcrypt_cost"`
	Postgres        struct {
		ConnString  string `yaml:"conn_string" json:"conn_string"`
		AutoMigrate *bool  `yaml:"auto_migrate" json:"auto_migrate"`
	} `yaml:"postgres" json:"postgres"`
}

// loadConfigFile reads path and applies any values it sets on top of flags.
func (s *StoreFlags) loadConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig

	// Determine file format by extension
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if config.StoreType != "" {
		switch store.Type(config.StoreType) {
		case store.TypeFile, store.TypeMemory, store.TypePostgres, store.TypeSQLite:
			s.StoreType = config.StoreType
		default:
			return fmt.Errorf("unknown store_type %q in config file", config.StoreType)
		}
	}
	if config.CredentialsFile != "" {
		s.CredentialsFile = config.CredentialsFile
	}
	if config.SQLitePath != "" {
		s.SQLitePath = config.SQLitePath
	}
	if config.BcryptCost != 0 {
		s.BcryptCost = config.BcryptCost
	}
	if config.Postgres.ConnString != "" {
		s.Postgres.ConnString = config.Postgres.ConnString
	}
	if config.Postgres.AutoMigrate != nil {
		s.Postgres.AutoMigrate = *config.Postgres.AutoMigrate
	}

	log.Debug().Str("path", path).Msg("loaded config file")

	return nil
}

// openStore opens the configured credential store.
func (s *StoreFlags) openStore(ctx context.Context) (store.UserStore, error) {
	log.Debug().Str("store_type", s.StoreType).Msg("opening credential store")

	switch store.Type(s.StoreType) {
	case store.TypeFile, "":
		return file.NewUserStore(s.CredentialsFile)
	case store.TypeMemory:
		return memory.NewUserStore(), nil
	case store.TypeSQLite:
		return sqlite.NewUserStore(s.SQLitePath)
	case store.TypePostgres:
		if err := s.Postgres.Validate(); err != nil {
			return nil, err
		}
		return postgres.Open(ctx, &postgres.Config{
			Pool: postgres.PoolConfig{
				ConnString:     s.Postgres.ConnString,
				ConnectTimeout: s.Postgres.ConnectTimeout,
				PingTimeout:    s.Postgres.PingTimeout,
			},
			AutoMigrate: s.Postgres.AutoMigrate,
		})
	default:
		return nil, fmt.Errorf("unknown store type %q", s.StoreType)
	}
}

// openRegistry resolves configuration and opens a user registry.
// The returned close function releases the underlying store.
func openRegistry(ctx context.Context, globals *Globals) (*users.Registry, func(), error) {
	flags := globals.Store

	if globals.Config != "" {
		if err := flags.loadConfigFile(globals.Config); err != nil {
			return nil, nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	s, err := flags.openStore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize credential store: %w", err)
	}

	closeFn := func() {
		if err := s.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close credential store")
		}
	}

	return users.NewRegistry(s, users.WithBcryptCost(flags.BcryptCost)), closeFn, nil
}
