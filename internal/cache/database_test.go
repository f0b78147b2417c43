package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hirementis/hirementis/internal/database/testutil"
)

func TestDatabaseStoreSetGetDelete(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "greeting", []byte("hello"), time.Minute))

	value, found, err := store.Get(ctx, "greeting")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("hello"), value)

	require.NoError(t, store.Delete(ctx, "greeting"))

	_, found, err = store.Get(ctx, "greeting")
	require.NoError(t, err)
	require.False(t, found)
}

func TestDatabaseStoreGetExpired(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "stale", []byte("old"), -time.Minute))

	_, found, err := store.Get(ctx, "stale")
	require.NoError(t, err)
	require.False(t, found)
}

func TestDatabaseStoreIncrementWithTTL(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)
	ctx := context.Background()

	count, remaining, err := store.IncrementWithTTL(ctx, "limiter:1.2.3.4", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
	require.Greater(t, remaining, time.Duration(0))

	count, _, err = store.IncrementWithTTL(ctx, "limiter:1.2.3.4", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	count, _, err = store.IncrementWithTTL(ctx, "limiter:other", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}
