package redis

import (
	"context"
	"fmt"
	"strconv"
)

// IncrementUsage bumps the resolution counter for a platform. Counters
// live in a single hash so stats come back in one round trip.
func (s *Store) IncrementUsage(ctx context.Context, platformID string) error {
	if err := s.client.HIncrBy(ctx, KeyUsage, platformID, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment usage for %s: %w", platformID, err)
	}
	return nil
}

// GetUsageStats retrieves resolution counters for all platforms
func (s *Store) GetUsageStats(ctx context.Context) (map[string]int64, error) {
	raw, err := s.client.HGetAll(ctx, KeyUsage).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage stats: %w", err)
	}

	stats := make(map[string]int64, len(raw))
	for id, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		stats[id] = n
	}
	return stats, nil
}
