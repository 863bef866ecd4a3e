package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/EOPeakDesigns/applink/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultPlatformTTL is the default TTL for platform spec entries (48 hours)
	DefaultPlatformTTL = 48 * time.Hour
)

// Store handles Redis operations for platform specs, cached plans and
// usage counters
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// SavePlatform stores a platform spec in Redis
func (s *Store) SavePlatform(ctx context.Context, spec *domain.PlatformSpec) error {
	data, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to marshal platform spec: %w", err)
	}

	key := PlatformKey(string(spec.ID))

	// Store spec data
	if err := s.client.Set(ctx, key, data, DefaultPlatformTTL).Err(); err != nil {
		return fmt.Errorf("failed to save platform spec: %w", err)
	}

	// Add to set of all platforms
	if err := s.client.SAdd(ctx, AllPlatformsKey(), string(spec.ID)).Err(); err != nil {
		return fmt.Errorf("failed to add platform to set: %w", err)
	}

	return nil
}

// GetPlatform retrieves a platform spec from Redis by ID
func (s *Store) GetPlatform(ctx context.Context, id string) (*domain.PlatformSpec, error) {
	key := PlatformKey(id)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("platform not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get platform: %w", err)
	}

	var spec domain.PlatformSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal platform spec: %w", err)
	}

	return &spec, nil
}

// GetAllPlatforms retrieves all platform specs from Redis
func (s *Store) GetAllPlatforms(ctx context.Context) ([]*domain.PlatformSpec, error) {
	// Get all platform IDs
	ids, err := s.client.SMembers(ctx, AllPlatformsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get platform IDs: %w", err)
	}

	if len(ids) == 0 {
		return []*domain.PlatformSpec{}, nil
	}

	specs := make([]*domain.PlatformSpec, 0, len(ids))
	for _, id := range ids {
		spec, err := s.GetPlatform(ctx, id)
		if err != nil {
			// Skip specs that couldn't be retrieved
			continue
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

// DeletePlatform removes a platform spec from Redis
func (s *Store) DeletePlatform(ctx context.Context, id string) error {
	key := PlatformKey(id)

	// Delete spec data
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete platform: %w", err)
	}

	// Remove from set of all platforms
	if err := s.client.SRem(ctx, AllPlatformsKey(), id).Err(); err != nil {
		return fmt.Errorf("failed to remove platform from set: %w", err)
	}

	return nil
}

// SavePlatformsMany stores multiple platform specs in Redis (bulk operation)
func (s *Store) SavePlatformsMany(ctx context.Context, specs []*domain.PlatformSpec) error {
	pipe := s.client.Pipeline()

	for _, spec := range specs {
		data, err := json.Marshal(spec)
		if err != nil {
			return fmt.Errorf("failed to marshal platform spec %s: %w", spec.ID, err)
		}

		key := PlatformKey(string(spec.ID))
		pipe.Set(ctx, key, data, DefaultPlatformTTL)
		pipe.SAdd(ctx, AllPlatformsKey(), string(spec.ID))
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save platform specs: %w", err)
	}

	return nil
}
