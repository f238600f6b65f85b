package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huesnap.db")

	database, err := Open(path)
	require.NoError(t, err)

	for _, table := range []string{"snapshot", "snapshot_entity"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, table, name)
	}
	require.NoError(t, database.Close())

	// reopening an existing file keeps working
	database, err = Open(path)
	require.NoError(t, err)
	assert.NoError(t, database.Close())
}
