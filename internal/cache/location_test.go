package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"smarttax/internal/domain"
	"smarttax/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// setupTestRedis starts an in-memory redis for one test
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func newTestCache(t *testing.T) (*LocationCache, *testutil.MockLocationRepository, *miniredis.Miniredis) {
	mr, client := setupTestRedis(t)
	repo := new(testutil.MockLocationRepository)
	return NewLocationCache(repo, client, time.Hour, testutil.NewTestLogger()), repo, mr
}

func TestLocationCache_ListDistricts(t *testing.T) {
	ctx := context.Background()

	t.Run("second read is served from redis", func(t *testing.T) {
		cache, repo, mr := newTestCache(t)
		repo.On("ListDistricts", mock.Anything).Return(domain.DefaultDistricts, nil).Once()

		first, err := cache.ListDistricts(ctx)
		require.NoError(t, err)
		second, err := cache.ListDistricts(ctx)
		require.NoError(t, err)

		assert.Equal(t, domain.DefaultDistricts, first)
		assert.Equal(t, first, second)
		repo.AssertNumberOfCalls(t, "ListDistricts", 1)
		assert.True(t, mr.Exists(DefaultPrefix+"districts"))
		assert.Equal(t, time.Hour, mr.TTL(DefaultPrefix+"districts"))
	})

	t.Run("entry expires", func(t *testing.T) {
		cache, repo, mr := newTestCache(t)
		repo.On("ListDistricts", mock.Anything).Return(domain.DefaultDistricts, nil)

		_, err := cache.ListDistricts(ctx)
		require.NoError(t, err)
		mr.FastForward(time.Hour + time.Second)
		_, err = cache.ListDistricts(ctx)
		require.NoError(t, err)

		repo.AssertNumberOfCalls(t, "ListDistricts", 2)
	})

	t.Run("empty list is not cached", func(t *testing.T) {
		cache, repo, mr := newTestCache(t)
		repo.On("ListDistricts", mock.Anything).Return([]domain.District{}, nil)

		districts, err := cache.ListDistricts(ctx)

		require.NoError(t, err)
		assert.Empty(t, districts)
		assert.False(t, mr.Exists(DefaultPrefix+"districts"))
	})

	t.Run("store error passes through", func(t *testing.T) {
		cache, repo, _ := newTestCache(t)
		repo.On("ListDistricts", mock.Anything).Return(nil, errors.New("db down"))

		_, err := cache.ListDistricts(ctx)

		assert.Error(t, err)
	})

	t.Run("redis down falls back to the store", func(t *testing.T) {
		cache, repo, mr := newTestCache(t)
		repo.On("ListDistricts", mock.Anything).Return(domain.DefaultDistricts, nil)
		mr.Close()

		districts, err := cache.ListDistricts(ctx)

		require.NoError(t, err)
		assert.Len(t, districts, len(domain.DefaultDistricts))
	})

	t.Run("corrupt entry is dropped", func(t *testing.T) {
		cache, repo, mr := newTestCache(t)
		require.NoError(t, mr.Set(DefaultPrefix+"districts", "{not json"))
		repo.On("ListDistricts", mock.Anything).Return(domain.DefaultDistricts, nil)

		districts, err := cache.ListDistricts(ctx)

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultDistricts, districts)
		repo.AssertNumberOfCalls(t, "ListDistricts", 1)
	})
}

func TestLocationCache_ListSectors(t *testing.T) {
	ctx := context.Background()
	cache, repo, mr := newTestCache(t)
	repo.On("ListSectors", mock.Anything, int64(2)).Return(domain.DefaultSectors(2), nil).Once()

	for i := 0; i < 3; i++ {
		sectors, err := cache.ListSectors(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSectors(2), sectors)
	}

	repo.AssertNumberOfCalls(t, "ListSectors", 1)
	assert.True(t, mr.Exists(DefaultPrefix+"sectors:2"))
}

func TestLocationCache_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("district", func(t *testing.T) {
		cache, repo, _ := newTestCache(t)
		repo.On("GetDistrict", mock.Anything, int64(1)).Return(&domain.District{ID: 1, Name: "Kigali City"}, nil).Once()

		for i := 0; i < 2; i++ {
			d, err := cache.GetDistrict(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, "Kigali City", d.Name)
		}
		repo.AssertNumberOfCalls(t, "GetDistrict", 1)
	})

	t.Run("unknown sector is not cached", func(t *testing.T) {
		cache, repo, mr := newTestCache(t)
		repo.On("GetSector", mock.Anything, int64(99)).Return(nil, nil)

		s, err := cache.GetSector(ctx, 99)

		require.NoError(t, err)
		assert.Nil(t, s)
		assert.False(t, mr.Exists(DefaultPrefix+"sector:99"))
	})

	t.Run("sector", func(t *testing.T) {
		cache, repo, _ := newTestCache(t)
		repo.On("GetSector", mock.Anything, int64(4)).Return(&domain.Sector{ID: 4, DistrictID: 2, Name: "Burera"}, nil).Once()

		_, err := cache.GetSector(ctx, 4)
		require.NoError(t, err)
		s, err := cache.GetSector(ctx, 4)

		require.NoError(t, err)
		assert.Equal(t, domain.Sector{ID: 4, DistrictID: 2, Name: "Burera"}, *s)
		repo.AssertNumberOfCalls(t, "GetSector", 1)
	})
}

func TestLocationCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache, repo, mr := newTestCache(t)
	repo.On("ListDistricts", mock.Anything).Return(domain.DefaultDistricts, nil)
	repo.On("ListSectors", mock.Anything, int64(1)).Return(domain.DefaultSectors(1), nil)
	require.NoError(t, mr.Set("unrelated", "keep"))

	_, err := cache.ListDistricts(ctx)
	require.NoError(t, err)
	_, err = cache.ListSectors(ctx, 1)
	require.NoError(t, err)

	removed, err := cache.Invalidate(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.False(t, mr.Exists(DefaultPrefix+"districts"))
	assert.True(t, mr.Exists("unrelated"))
}
