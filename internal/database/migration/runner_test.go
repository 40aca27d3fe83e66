package migration

import (
	"testing"
	"testing/fstest"

	"signal-radar/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_OrdersAndChecksums(t *testing.T) {
	src := fstest.MapFS{
		"V2__messages.sql": {Data: []byte("CREATE TABLE b (id int);\n")},
		"V1__init.sql":     {Data: []byte("CREATE TABLE a (id int);")},
		"README.md":        {Data: []byte("ignored")},
	}

	migs, err := loadMigrations(src)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "init", migs[0].Name)
	assert.Equal(t, int64(2), migs[1].Version)
	assert.Len(t, migs[0].Checksum, 64)

	// trailing whitespace does not change the checksum
	again, err := loadMigrations(fstest.MapFS{"V2__messages.sql": {Data: []byte("CREATE TABLE b (id int);")}})
	require.NoError(t, err)
	assert.Equal(t, migs[1].Checksum, again[0].Checksum)
}

func TestLoadMigrations_Rejects(t *testing.T) {
	_, err := loadMigrations(fstest.MapFS{"V1__empty.sql": {Data: []byte("  \n")}})
	assert.Error(t, err)

	_, err = loadMigrations(fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1")},
		"V01__b.sql": {Data: []byte("SELECT 2")},
	})
	assert.ErrorContains(t, err, "duplicate migration version")
}

func TestEmbeddedMigrations(t *testing.T) {
	migs, err := loadMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Contains(t, migs[0].SQL, "CREATE TABLE IF NOT EXISTS signals")
}

func TestRunner_SourcePrefersDir(t *testing.T) {
	dir := t.TempDir()
	src, err := Runner{Dir: dir, FS: migrations.FS}.source()
	require.NoError(t, err)
	migs, err := loadMigrations(src)
	require.NoError(t, err)
	assert.Empty(t, migs)
}
