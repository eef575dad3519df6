package services

import (
	"errors"
	"fmt"

	"github.com/iceweasel13/fishclicker-backend/internal/database"
	"github.com/iceweasel13/fishclicker-backend/internal/models"

	"gorm.io/gorm"
)

// CreditPurchasedClicks adds bought clicks to a user's cumulative purchased
// total and returns the new total. The purchase transaction itself happens
// on-chain; by the time this runs the mint is already settled, so the credit
// is a plain atomic increment.
func CreditPurchasedClicks(userID string, clicks int) (int, error) {
	if clicks <= 0 {
		return 0, ErrInvalidPurchase
	}

	res := database.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"purchased_clicks": gorm.Expr("purchased_clicks + ?", clicks),
			"version":          gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrUserNotFound
	}

	InvalidateUserCache(userID)

	var user models.User
	if err := database.DB.Select("purchased_clicks").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return user.PurchasedClicks, nil
}

// CountReferrals returns how many users were referred by the given wallet.
func CountReferrals(walletAddress string) (int64, error) {
	var count int64
	err := database.DB.Model(&models.User{}).
		Where("referrer_wallet_address = ?", NormalizeWallet(walletAddress)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return count, nil
}
