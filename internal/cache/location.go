// Package cache fronts the reference data tables with redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smarttax/internal/domain"
	"smarttax/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultPrefix namespaces every key written by LocationCache
const DefaultPrefix = "smarttax:locations:"

// LocationCache is a read-through cache over a LocationRepository.
// Redis failures are logged and the backing repository is used instead.
// Empty lists and unknown ids are not cached.
type LocationCache struct {
	next   repository.LocationRepository
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewLocationCache creates a new location cache
func NewLocationCache(next repository.LocationRepository, client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *LocationCache {
	return &LocationCache{
		next:   next,
		client: client,
		prefix: DefaultPrefix,
		ttl:    ttl,
		logger: logger,
	}
}

// ListDistricts returns all districts
func (c *LocationCache) ListDistricts(ctx context.Context) ([]domain.District, error) {
	key := c.prefix + "districts"

	var districts []domain.District
	if c.load(ctx, key, &districts) {
		return districts, nil
	}

	districts, err := c.next.ListDistricts(ctx)
	if err != nil {
		return nil, err
	}
	if len(districts) > 0 {
		c.store(ctx, key, districts)
	}
	return districts, nil
}

// ListSectors returns the sectors of a district
func (c *LocationCache) ListSectors(ctx context.Context, districtID int64) ([]domain.Sector, error) {
	key := fmt.Sprintf("%ssectors:%d", c.prefix, districtID)

	var sectors []domain.Sector
	if c.load(ctx, key, &sectors) {
		return sectors, nil
	}

	sectors, err := c.next.ListSectors(ctx, districtID)
	if err != nil {
		return nil, err
	}
	if len(sectors) > 0 {
		c.store(ctx, key, sectors)
	}
	return sectors, nil
}

// GetDistrict returns a district by id
func (c *LocationCache) GetDistrict(ctx context.Context, id int64) (*domain.District, error) {
	key := fmt.Sprintf("%sdistrict:%d", c.prefix, id)

	var district domain.District
	if c.load(ctx, key, &district) {
		return &district, nil
	}

	found, err := c.next.GetDistrict(ctx, id)
	if err != nil || found == nil {
		return found, err
	}
	c.store(ctx, key, found)
	return found, nil
}

// GetSector returns a sector by id
func (c *LocationCache) GetSector(ctx context.Context, id int64) (*domain.Sector, error) {
	key := fmt.Sprintf("%ssector:%d", c.prefix, id)

	var sector domain.Sector
	if c.load(ctx, key, &sector) {
		return &sector, nil
	}

	found, err := c.next.GetSector(ctx, id)
	if err != nil || found == nil {
		return found, err
	}
	c.store(ctx, key, found)
	return found, nil
}

// Invalidate drops every cached entry and returns how many keys were removed
func (c *LocationCache) Invalidate(ctx context.Context) (int, error) {
	removed := 0
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("delete %s: %w", iter.Val(), err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan location keys: %w", err)
	}
	return removed, nil
}

func (c *LocationCache) load(ctx context.Context, key string, dst any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Location cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return false
	}
	return true
}

func (c *LocationCache) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Location cache write failed", zap.String("key", key), zap.Error(err))
	}
}
