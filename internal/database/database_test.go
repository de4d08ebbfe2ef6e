package database

import (
	"testing"

	"aperture/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool_SQLiteSingleConnection(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{DBDriver: config.DBDriverSQLite}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpenDialector_UnknownDriver(t *testing.T) {
	_, err := openDialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		runSQL  bool
		runAuto bool
		wantErr bool
	}{
		{
			name:    "hybrid in development runs both",
			cfg:     &config.Config{Env: "development", DBDriver: config.DBDriverPostgres, DBSchemaMode: "hybrid"},
			runSQL:  true,
			runAuto: true,
		},
		{
			name:   "hybrid in production runs sql only",
			cfg:    &config.Config{Env: "production", DBDriver: config.DBDriverPostgres, DBSchemaMode: "hybrid"},
			runSQL: true,
		},
		{
			name:   "empty mode defaults to hybrid",
			cfg:    &config.Config{Env: "production", DBDriver: config.DBDriverPostgres},
			runSQL: true,
		},
		{
			name:   "sql mode never auto-migrates",
			cfg:    &config.Config{Env: "development", DBDriver: config.DBDriverPostgres, DBSchemaMode: "sql"},
			runSQL: true,
		},
		{
			name:    "auto mode refused in production without override",
			cfg:     &config.Config{Env: "production", DBDriver: config.DBDriverPostgres, DBSchemaMode: "auto"},
			wantErr: true,
		},
		{
			name: "auto mode allowed in production with override",
			cfg: &config.Config{
				Env: "production", DBDriver: config.DBDriverPostgres,
				DBSchemaMode: "auto", DBAutoMigrateAllowDestructive: true,
			},
			runAuto: true,
		},
		{
			name:    "sqlite always auto-migrates",
			cfg:     &config.Config{Env: "production", DBDriver: config.DBDriverSQLite, DBSchemaMode: "sql"},
			runAuto: true,
		},
		{
			name:    "unknown mode rejected",
			cfg:     &config.Config{Env: "development", DBDriver: config.DBDriverPostgres, DBSchemaMode: "yolo"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.runSQL, runSQL, "runSQL")
			assert.Equal(t, tt.runAuto, runAuto, "runAuto")
		})
	}
}

func TestRegisteredMigrations_HaveDownScripts(t *testing.T) {
	ms := GetMigrations()
	require.NotEmpty(t, ms)

	seen := map[int]bool{}
	for _, m := range ms {
		assert.False(t, seen[m.Version], "duplicate migration version %d", m.Version)
		seen[m.Version] = true
		assert.NotEmpty(t, m.UpScript, "%s missing up script", m.Name)
		assert.NotEmpty(t, m.DownScript, "%s missing down script", m.Name)
	}
}
