package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/adminboot/internal/store"
)

func TestPoolConfig_ApplyDefaults(t *testing.T) {
	cfg := &PoolConfig{ConnString: "postgres://localhost/db"}
	cfg.ApplyDefaults()

	assert.Equal(t, int32(4), cfg.MaxConns)
	assert.Equal(t, int32(1), cfg.MinConns)
	assert.Equal(t, int32(3600), cfg.MaxConnLifetime)
	assert.Equal(t, int32(10), cfg.ConnectTimeout)
	assert.Equal(t, int32(30), cfg.PingTimeout)
	require.NoError(t, cfg.Validate())
}

func TestPoolConfig_Validate(t *testing.T) {
	t.Run("missing connection string", func(t *testing.T) {
		cfg := &PoolConfig{}
		cfg.ApplyDefaults()
		require.Error(t, cfg.Validate())
	})

	t.Run("min exceeds max", func(t *testing.T) {
		cfg := &PoolConfig{ConnString: "postgres://localhost/db", MinConns: 8, MaxConns: 2}
		require.Error(t, cfg.Validate())
	})
}

func TestNewPool_InvalidConfig(t *testing.T) {
	_, err := NewPool(context.Background(), nil)
	require.Error(t, err)

	_, err = NewPool(context.Background(), &PoolConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pool config")

	_, err = NewPool(context.Background(), &PoolConfig{ConnString: "::not a dsn::"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse connection string")
}

func TestMapPostgresError(t *testing.T) {
	assert.NoError(t, mapPostgresError(nil))

	plain := errors.New("plain")
	assert.Equal(t, plain, mapPostgresError(plain))

	dup := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}
	assert.ErrorIs(t, mapPostgresError(dup), store.ErrUserAlreadyExists)

	otherUnique := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "something_else"}
	err := mapPostgresError(otherUnique)
	assert.NotErrorIs(t, err, store.ErrUserAlreadyExists)
	assert.Contains(t, err.Error(), "something_else")

	missing := &pgconn.PgError{Code: pgerrcode.UndefinedTable}
	assert.Contains(t, mapPostgresError(missing).Error(), "auto-migrate")
}

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, 1, migrations[0].version)
	assert.Contains(t, migrations[0].content, "CREATE TABLE IF NOT EXISTS users")

	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].version, migrations[i].version)
	}
}
