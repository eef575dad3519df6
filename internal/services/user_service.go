package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iceweasel13/fishclicker-backend/internal/database"
	"github.com/iceweasel13/fishclicker-backend/internal/models"
	"github.com/iceweasel13/fishclicker-backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultDailyClicks = 100
	userCacheTTL       = time.Hour
)

// NormalizeWallet lowercases a wallet address so lookups and the unique
// index agree regardless of how the client cased it.
func NormalizeWallet(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func userCacheKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

// FindUserByID resolves a user row by id with a Redis read-through cache.
// Ledger mutations must not rely on this copy; they read inside their own
// transaction.
func FindUserByID(userID string) (models.User, error) {
	cacheKey := userCacheKey(userID)
	if database.RedisClient != nil {
		val, err := database.RedisClient.Get(database.Ctx, cacheKey).Result()
		if err == nil {
			var user models.User
			if err := json.Unmarshal([]byte(val), &user); err == nil {
				return user, nil
			}
		}
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, err
	}

	if database.RedisClient != nil {
		if data, err := json.Marshal(user); err == nil {
			database.RedisClient.Set(database.Ctx, cacheKey, data, userCacheTTL)
		}
	}

	return user, nil
}

// FindUserByWallet resolves a user row by its (normalized) wallet address.
func FindUserByWallet(walletAddress string) (models.User, error) {
	var user models.User
	err := database.DB.Where("wallet_address = ?", NormalizeWallet(walletAddress)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, err
	}
	return user, nil
}

// InvalidateUserCache drops the cached copy after a ledger mutation.
func InvalidateUserCache(userID string) {
	if database.RedisClient != nil {
		database.RedisClient.Del(database.Ctx, userCacheKey(userID))
	}
}

// LoginOrCreateUser is the login upsert: it returns the canonical user row
// for a verified wallet address, creating it with default allowances on
// first login. The referrer is only honored at creation time and never when
// it equals the user's own address.
//
// Two concurrent first logins race on the wallet_address unique index; the
// loser of that race re-fetches the winner's row instead of failing.
func LoginOrCreateUser(walletAddress, referrerWalletAddress string) (*models.User, error) {
	address := NormalizeWallet(walletAddress)
	now := time.Now()

	var existing models.User
	err := database.DB.Where("wallet_address = ?", address).First(&existing).Error
	if err == nil {
		// Refreshing last_active_at is best-effort: a failed touch is not
		// worth failing the login over.
		res := database.DB.Model(&existing).Update("last_active_at", now)
		if res.Error != nil {
			logger.Log.Warn("failed to refresh last_active_at on login",
				zap.String("wallet_address", address),
				zap.Error(res.Error))
		} else {
			existing.LastActiveAt = now
		}
		InvalidateUserCache(existing.ID)
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	user := &models.User{
		WalletAddress:         address,
		Score:                 0,
		DailyClicks:           defaultDailyClicks,
		DailyClicksAvailable:  defaultDailyClicks,
		PurchasedClicks:       0,
		PurchasedClicksUsed:   0,
		ReferrerWalletAddress: referrerPointer(address, referrerWalletAddress),
		ReferralBonusScore:    0,
		LastActiveAt:          now,
	}

	if createErr := database.DB.Create(user).Error; createErr != nil {
		// Most likely the unique constraint fired because another login won
		// the creation race. Re-fetch once before giving up.
		var winner models.User
		if fetchErr := database.DB.Where("wallet_address = ?", address).First(&winner).Error; fetchErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, createErr)
		}
		return &winner, nil
	}

	return user, nil
}

// referrerPointer validates the optional referrer supplied at first login.
// Self-referrals (case-insensitive) and empty values come back as nil.
func referrerPointer(ownAddress, referrer string) *string {
	ref := NormalizeWallet(referrer)
	if ref == "" || ref == ownAddress {
		return nil
	}
	return &ref
}
