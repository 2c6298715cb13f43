package infra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eezlegal/internal/config"
	"eezlegal/internal/models/db_models"
)

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, IsPostgresDSN("postgres://u:p@localhost:5432/eezlegal"))
	assert.True(t, IsPostgresDSN("postgresql://localhost/eezlegal"))
	assert.True(t, IsPostgresDSN("host=localhost user=u dbname=eezlegal"))
	assert.False(t, IsPostgresDSN("eezlegal.db"))
	assert.False(t, IsPostgresDSN("file::memory:?cache=shared"))
}

func TestOpenDatabaseSQLiteMigrates(t *testing.T) {
	db, err := OpenDatabase(config.Database{URL: "file:infra_test?mode=memory&cache=shared"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { CloseDatabase(db, zap.NewNop()) })

	require.NoError(t, Ping(context.Background(), db))
	for _, m := range []interface{}{&db_models.User{}, &db_models.Chat{}, &db_models.Message{}, &db_models.Document{}, &db_models.Payment{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}

	u := db_models.User{Email: "a@example.com", Name: "A", FreeMessageLimit: 10}
	require.NoError(t, db.Create(&u).Error)
	assert.NotZero(t, u.ID)
	assert.NotZero(t, u.CreatedAt)

	dup := db_models.User{Email: "a@example.com", Name: "B"}
	assert.Error(t, db.Create(&dup).Error)
}
