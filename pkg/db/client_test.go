package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslend/campuslend-backend/pkg/config"
)

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSN")
}

func TestNewOpensSQLiteWhenFlagged(t *testing.T) {
	ctx := context.Background()

	client, err := New(ctx, config.DBConfig{DSN: "file::memory:", UseSQLite: true}, nil)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Ping(ctx))
	require.NoError(t, client.DB().Exec("CREATE TABLE smoke (id INTEGER PRIMARY KEY)").Error)
}
