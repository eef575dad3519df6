package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iceweasel13/fishclicker-backend/internal/database"
	"github.com/iceweasel13/fishclicker-backend/internal/models"
)

const (
	leaderboardDefaultLimit = 10
	leaderboardMaxLimit     = 100
	leaderboardCacheTTL     = 30 * time.Second
)

// LeaderboardEntry is one public leaderboard row. Only the wallet and score
// are exposed; everything else on the user row stays private.
type LeaderboardEntry struct {
	WalletAddress string `json:"wallet_address"`
	Score         int64  `json:"score"`
}

// TopUsers returns the highest-scoring users, cached briefly in Redis since
// the leaderboard is the one endpoint every idle client polls.
func TopUsers(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = leaderboardDefaultLimit
	}
	if limit > leaderboardMaxLimit {
		limit = leaderboardMaxLimit
	}

	cacheKey := fmt.Sprintf("leaderboard:%d", limit)
	if database.RedisClient != nil {
		val, err := database.RedisClient.Get(database.Ctx, cacheKey).Result()
		if err == nil {
			var entries []LeaderboardEntry
			if err := json.Unmarshal([]byte(val), &entries); err == nil {
				return entries, nil
			}
		}
	}

	var entries []LeaderboardEntry
	err := database.DB.Model(&models.User{}).
		Select("wallet_address", "score").
		Order("score desc").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if database.RedisClient != nil {
		if data, err := json.Marshal(entries); err == nil {
			database.RedisClient.Set(database.Ctx, cacheKey, data, leaderboardCacheTTL)
		}
	}

	return entries, nil
}
