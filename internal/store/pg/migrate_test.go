package pg

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	migrations "github.com/CardChase151/clients-sub001/migrations/postgres"
)

func TestParseMigrations_SortsAndIgnoresOtherFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0002_b.sql":  {Data: []byte("SELECT 2")},
		"m/0001_a.sql":  {Data: []byte("SELECT 1")},
		"m/README.md":   {Data: []byte("x")},
		"m/10_late.sql": {Data: []byte("SELECT 10")},
	}
	migs, err := ParseMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migs, 3)

	assert.Equal(t, []int{1, 2, 10}, []int{migs[0].Version, migs[1].Version, migs[2].Version})
	assert.Equal(t, "a", migs[0].Name)
	assert.Equal(t, "SELECT 10", migs[2].SQL)
}

func TestParseMigrations_RejectsDuplicateVersions(t *testing.T) {
	fsys := fstest.MapFS{
		"0001_a.sql": {Data: []byte("SELECT 1")},
		"1_b.sql":    {Data: []byte("SELECT 1")},
	}
	_, err := ParseMigrations(fsys, ".")
	assert.ErrorContains(t, err, "duplicate migration version 1")
}

func TestEmbeddedMigrations(t *testing.T) {
	migs, err := ParseMigrations(migrations.FS, ".")
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, "users", migs[0].Name)
	assert.Contains(t, migs[0].SQL, "last_email_opened_at")
	assert.Equal(t, "email_history", migs[1].Name)
	assert.Contains(t, migs[1].SQL, "changes_snapshot")
}
