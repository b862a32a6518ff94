package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestAll_Ordered(t *testing.T) {
	all, err := All()
	require.NoError(t, err)
	require.NotEmpty(t, all)
	for i, m := range all {
		assert.Equal(t, i+1, m.Version, m.Name)
		assert.NotEmpty(t, m.SQL)
	}
}

func TestApply_Idempotent(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	all, err := All()
	require.NoError(t, err)
	latest := all[len(all)-1].Version

	v, err := Apply(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, latest, v)

	v, err = Apply(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, latest, v)

	_, err = db.ExecContext(ctx,
		`INSERT INTO profiles (name, server_url, user_id, token, device_id, created_at, server_id)
		 VALUES ('home', 'http://jf', 'u', 't', 'd', 0, 's')`)
	require.NoError(t, err)
}
