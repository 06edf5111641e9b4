package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"command-center/domain/model"
	"command-center/domain/repository"
	"command-center/infrastructure/logger"
)

const repoListTTL = 5 * time.Minute

// RepoCache keeps the last repository listing per user so the dashboard does
// not burn upstream rate limit on every refresh.
type RepoCache struct {
	client *redis.Client
}

func NewRepoCache(client *redis.Client) repository.IRepoCache {
	return &RepoCache{client: client}
}

func repoListKey(userID string) string {
	return fmt.Sprintf("github:repos:%s", userID)
}

// GetRepoList returns the cached listing, or nil on miss or when the cache is
// unavailable.
func (c *RepoCache) GetRepoList(ctx context.Context, userID string) (*model.RepoList, error) {
	if c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, repoListKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logger.GetLogger().WithField("error", err).Warn("Redis get failed - treating as cache miss")
		return nil, nil
	}
	var list model.RepoList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *RepoCache) SetRepoList(ctx context.Context, userID string, list *model.RepoList) error {
	if c.client == nil || list == nil {
		return nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, repoListKey(userID), raw, repoListTTL).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis set failed")
		return err
	}
	return nil
}

func (c *RepoCache) InvalidateRepoList(ctx context.Context, userID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, repoListKey(userID)).Err()
}
