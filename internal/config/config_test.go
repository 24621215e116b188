package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("TRANSFER_POLICY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "permissive", cfg.Engine.TransferPolicy)
	assert.Contains(t, cfg.Database.DSN(), "dbname=")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/ledger.db")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("TRANSFER_POLICY", "curated")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/inv")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/ledger.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "curated", cfg.Engine.TransferPolicy)
	assert.Equal(t, "postgres://u:p@db:5432/inv", cfg.Database.DSN())
}

func TestLoadRejectsUnknownSettings(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("TRANSFER_POLICY", "strict")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("TRANSFER_POLICY", "")
	t.Setenv("JWT_TTL_HOURS", "soon")
	_, err = Load()
	assert.Error(t, err)
}

func TestNewLoggerLevel(t *testing.T) {
	logg := NewLogger(LogConfig{Level: "debug", Format: "text"})
	assert.Equal(t, logrus.DebugLevel, logg.GetLevel())

	logg = NewLogger(LogConfig{Level: "nonsense"})
	assert.Equal(t, logrus.InfoLevel, logg.GetLevel())
}

func TestLogError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	LogError(logger, "transfer", "UpdateTransferStatus", map[string]string{"id": "x"}, assert.AnError)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "transfer", entry.Data["module"])
	assert.Equal(t, assert.AnError.Error(), entry.Message)
}
