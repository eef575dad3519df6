package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/iceweasel13/fishclicker-backend/config"
	"github.com/iceweasel13/fishclicker-backend/internal/database"
	"github.com/iceweasel13/fishclicker-backend/internal/models"
	"github.com/iceweasel13/fishclicker-backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// A report's client timestamp may drift at most this far (inclusive)
	// from server time in either direction.
	clickTimestampWindowMs = 5000

	// Ceiling on a single batched report. The client flushes at most every
	// 15s, and no human sustains more than ~23 clicks/s.
	clickBurstLimit = 350

	// The referrer earns this percentage of every accepted report, floored.
	referralBonusPercent = 5

	// How many times the optimistic ledger update is retried when a
	// concurrent report for the same user wins the version race.
	ledgerRetryAttempts = 3
)

// timeNow is swapped in tests to pin the freshness window.
var timeNow = time.Now

// errLedgerConflict signals a lost optimistic-lock race; it never escapes
// ApplyClickReport.
var errLedgerConflict = errors.New("ledger version conflict")

// ClickReport is a batched claim of clicks performed since the last sync.
type ClickReport struct {
	ClickCount int
	Timestamp  int64 // client-observed epoch milliseconds
}

// ClickResult echoes the applied report alongside the canonical user row.
type ClickResult struct {
	User          models.User
	ClickCount    int
	ReferralBonus int
}

// ApplyClickReport validates a click report against the anti-cheat policy,
// debits the user's allowance ledger (daily clicks first, purchased second),
// credits score, and credits the referrer's bonus. The report is applied
// all-or-nothing: if any check fails, no ledger field changes.
//
// The debit itself is an optimistic compare-and-swap on the row version
// inside a transaction, so two concurrent reports can never both pass the
// allowance check against the same stale read and overdraw the ledger.
func ApplyClickReport(userID string, report ClickReport) (*ClickResult, error) {
	if report.ClickCount <= 0 || report.Timestamp <= 0 {
		return nil, ErrInvalidClickReport
	}

	serverTime := timeNow()
	drift := serverTime.UnixMilli() - report.Timestamp
	if drift < 0 {
		drift = -drift
	}
	if drift > clickTimestampWindowMs {
		return nil, ErrStaleTimestamp
	}

	if report.ClickCount > clickBurstLimit {
		return nil, ErrBurstLimitExceeded
	}

	secret, err := ledgerHashSecret()
	if err != nil {
		return nil, err
	}

	var (
		applied  models.User
		bonus    int
		referrer *string
	)

	for attempt := 1; ; attempt++ {
		user, err := fetchUserForUpdate(userID)
		if err != nil {
			return nil, err
		}

		availableDaily := user.DailyClicksAvailable
		availablePurchased := user.PurchasedClicks - user.PurchasedClicksUsed
		if report.ClickCount > availableDaily+availablePurchased {
			return nil, ErrInsufficientAllowance
		}

		dailyUsed := report.ClickCount
		if dailyUsed > availableDaily {
			dailyUsed = availableDaily
		}
		purchasedUsed := report.ClickCount - dailyUsed

		referrer = user.ReferrerWalletAddress
		bonus = 0
		if referrer != nil {
			bonus = report.ClickCount * referralBonusPercent / 100
		}

		err = applyLedgerDebit(&user, report.ClickCount, dailyUsed, purchasedUsed, bonus, serverTime, secret)
		if err == nil {
			applied = user
			break
		}
		if errors.Is(err, errLedgerConflict) {
			if attempt < ledgerRetryAttempts {
				continue
			}
			return nil, fmt.Errorf("%w: ledger contention for user %s", ErrStorage, userID)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	InvalidateUserCache(applied.ID)

	// The referral credit is a secondary write with its own success
	// semantics: its failure is logged, never propagated.
	if referrer != nil && bonus > 0 {
		creditReferralBonus(*referrer, bonus)
	}

	return &ClickResult{User: applied, ClickCount: report.ClickCount, ReferralBonus: bonus}, nil
}

func fetchUserForUpdate(userID string) (models.User, error) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return user, nil
}

// applyLedgerDebit performs the conditional ledger update and writes the
// audit entry in one transaction. On success the passed user is mutated to
// its post-debit state.
func applyLedgerDebit(user *models.User, clickCount, dailyUsed, purchasedUsed, bonus int, now time.Time, secret string) error {
	scoreBefore := user.Score

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND version = ?", user.ID, user.Version).
			Updates(map[string]interface{}{
				"score":                  gorm.Expr("score + ?", clickCount),
				"daily_clicks_available": gorm.Expr("daily_clicks_available - ?", dailyUsed),
				"purchased_clicks_used":  gorm.Expr("purchased_clicks_used + ?", purchasedUsed),
				"version":                gorm.Expr("version + 1"),
				"last_active_at":         now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errLedgerConflict
		}

		entry := models.ClickLedgerEntry{
			CreatedAt:     now,
			UserID:        user.ID,
			ClickCount:    clickCount,
			DailyUsed:     dailyUsed,
			PurchasedUsed: purchasedUsed,
			ScoreBefore:   scoreBefore,
			ScoreAfter:    scoreBefore + int64(clickCount),
			ReferralBonus: bonus,
		}
		entry.Hash = entry.GenerateHash(secret)

		return tx.Create(&entry).Error
	})
	if err != nil {
		return err
	}

	user.Score = scoreBefore + int64(clickCount)
	user.DailyClicksAvailable -= dailyUsed
	user.PurchasedClicksUsed += purchasedUsed
	user.Version++
	user.LastActiveAt = now
	return nil
}

func creditReferralBonus(referrerWallet string, bonus int) {
	res := database.DB.Model(&models.User{}).
		Where("wallet_address = ?", referrerWallet).
		Updates(map[string]interface{}{
			"referral_bonus_score": gorm.Expr("referral_bonus_score + ?", bonus),
			"last_active_at":       timeNow(),
		})

	switch {
	case res.Error != nil:
		logger.Log.Warn("failed to credit referral bonus",
			zap.String("referrer_wallet_address", referrerWallet),
			zap.Int("bonus", bonus),
			zap.Error(res.Error))
	case res.RowsAffected == 0:
		logger.Log.Warn("referral bonus target does not exist",
			zap.String("referrer_wallet_address", referrerWallet),
			zap.Int("bonus", bonus))
	default:
		var referrer models.User
		if err := database.DB.Select("id").Where("wallet_address = ?", referrerWallet).First(&referrer).Error; err == nil {
			InvalidateUserCache(referrer.ID)
		}
	}
}

// ledgerSecret caches the audit-entry HMAC key after the first resolution so
// the hot path never re-reads the environment.
var ledgerSecret string

// ledgerHashSecret resolves the HMAC key for ledger entries. An unset secret
// is a deployment fault: refusing the report beats signing the audit trail
// with a knowable constant.
func ledgerHashSecret() (string, error) {
	if ledgerSecret != "" {
		return ledgerSecret, nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if cfg.JWTSecret == "" {
		return "", fmt.Errorf("%w: ledger hash secret is not set", ErrStorage)
	}
	ledgerSecret = cfg.JWTSecret
	return ledgerSecret, nil
}
