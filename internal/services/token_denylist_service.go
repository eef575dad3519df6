package services

import (
	"errors"
	"time"

	"github.com/iceweasel13/fishclicker-backend/internal/database"

	"github.com/go-redis/redis/v8"
)

const denylistPrefix = "denylist:"

// AddToDenylist revokes a session token for its remaining lifetime. The key
// expires on its own once the token would have expired anyway.
func AddToDenylist(tokenString string, expiration time.Duration) error {
	if database.RedisClient == nil {
		return ErrRedisUnavailable
	}
	if expiration <= 0 {
		return nil
	}
	key := denylistPrefix + tokenString
	return database.RedisClient.Set(database.Ctx, key, 1, expiration).Err()
}

// IsDenylisted reports whether a token has been revoked via logout.
func IsDenylisted(tokenString string) (bool, error) {
	if database.RedisClient == nil {
		return false, ErrRedisUnavailable
	}
	key := denylistPrefix + tokenString
	val, err := database.RedisClient.Get(database.Ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return val != "", nil
}
