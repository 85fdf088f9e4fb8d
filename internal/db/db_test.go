package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soccer-memo/config"
	"soccer-memo/internal/models"
)

func TestInitDatabaseSQLite(t *testing.T) {
	cfg := &config.Config{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "memo.db")}

	DB, err := InitDatabase(cfg)
	require.NoError(t, err)
	defer Close(DB)

	for _, table := range []any{&models.League{}, &models.Club{}, &models.Player{}, &models.Match{}, "match_players"} {
		assert.True(t, DB.Migrator().HasTable(table), "%v", table)
	}

	league := models.League{Name: "Sunday League"}
	require.NoError(t, DB.Create(&league).Error)
	assert.Len(t, league.ID, 36, "uuid assigned on first save")
}

func TestInitDatabaseUnknownDriver(t *testing.T) {
	_, err := InitDatabase(&config.Config{Driver: "mongo"})
	assert.Error(t, err)
}
