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

// CachePlan stores a resolved candidate plan under its fingerprint.
// Plans are pure derivations of the registry and the environment class,
// so a stale entry is harmless and a short TTL keeps them fresh.
func (s *Store) CachePlan(ctx context.Context, fingerprint string, candidates []domain.Candidate, ttl time.Duration) error {
	data, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	key := PlanKey(fingerprint)
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache plan: %w", err)
	}
	return nil
}

// GetCachedPlan retrieves a cached candidate plan. A cache miss returns
// nil candidates and no error.
func (s *Store) GetCachedPlan(ctx context.Context, fingerprint string) ([]domain.Candidate, error) {
	key := PlanKey(fingerprint)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached plan: %w", err)
	}

	var candidates []domain.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached plan: %w", err)
	}
	return candidates, nil
}

// InvalidatePlan removes a cached plan
func (s *Store) InvalidatePlan(ctx context.Context, fingerprint string) error {
	key := PlanKey(fingerprint)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate plan: %w", err)
	}
	return nil
}

// FlushPlans removes every cached plan. Called after a registry reload
// since any plan may have been built from a replaced spec.
func (s *Store) FlushPlans(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixPlan+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete plan key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush plans: %w", err)
	}
	return nil
}
