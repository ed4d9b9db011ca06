package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_Embebidas(t *testing.T) {
	migs, err := LoadMigrations(migrationFiles)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, "001", migs[0].Version)
	assert.Equal(t, "invoicing", migs[0].Name)
	assert.Contains(t, migs[0].SQL, "uq_invoices_active_order")
	assert.Equal(t, "002", migs[1].Version)
}

func TestLoadMigrations_OrdenYNombresInvalidos(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/010_b.sql":  {Data: []byte("SELECT 2")},
		"migrations/002_a.sql":  {Data: []byte("SELECT 1")},
		"migrations/broken.sql": {Data: []byte("SELECT 3")},
	}
	migs, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, "002", migs[0].Version)
	assert.Equal(t, "010", migs[1].Version)
}
