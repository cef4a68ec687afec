package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisstore "github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/session/redis"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
)

func newStore(t *testing.T) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return redisstore.NewWithClient(rdb, time.Hour), mr
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st, _ := newStore(t)

	sess := domain.NewSession("s1")
	sess.Profile = &domain.CandidateProfile{Name: "Jane Doe", KeySkills: []string{"Go"}}
	sess.Questions = []domain.Question{{ID: "q1", Question: "What is REST?", Tags: []string{"technical"}}}
	require.NoError(t, st.Upsert(ctx, sess))

	got, err := st.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Profile.Name)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, "q1", got.Questions[0].ID)
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()
	st, _ := newStore(t)
	_, err := st.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_TTLExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st, mr := newStore(t)

	require.NoError(t, st.Upsert(ctx, domain.NewSession("s1")))
	mr.FastForward(2 * time.Hour)

	_, err := st.Get(ctx, "s1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st, _ := newStore(t)

	require.NoError(t, st.Upsert(ctx, domain.NewSession("s1")))
	require.NoError(t, st.Delete(ctx, "s1"))
	_, err := st.Get(ctx, "s1")
	assert.Error(t, err)
}
